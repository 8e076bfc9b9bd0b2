// Command slotfinder searches a slotfinder server for free appointments near
// a position and prints them as a table.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"slotfinder/config"
	"slotfinder/models"
	"slotfinder/services/geocode"
	"slotfinder/services/search"

	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
)

type options struct {
	server       string
	lat          float64
	lng          float64
	from         string
	to           string
	minSlots     int
	maxLocations int
	mode         string
	locate       bool
	watch        time.Duration
	verbose      bool
}

func parseFlags(args []string, now time.Time) (options, error) {
	var o options
	fs := flag.NewFlagSet("slotfinder", flag.ContinueOnError)
	fs.StringVar(&o.server, "server", "http://localhost:8080", "slotfinder server base URL")
	fs.Float64Var(&o.lat, "lat", 0, "latitude to search around")
	fs.Float64Var(&o.lng, "lng", 0, "longitude to search around")
	fs.StringVar(&o.from, "from", now.Format("2006-01-02"), "first date to search (YYYY-MM-DD)")
	fs.StringVar(&o.to, "to", "", "last date to search (YYYY-MM-DD), empty for no limit")
	fs.IntVar(&o.minSlots, "min-slots", 1, "skip days with fewer free slots")
	fs.IntVar(&o.maxLocations, "max-locations", search.DefaultMaxNearestLocations, "number of nearest offices to search")
	fs.StringVar(&o.mode, "mode", string(search.ModePerLocation), "single or per-location")
	fs.BoolVar(&o.locate, "locate", false, "locate this machine instead of using -lat/-lng")
	fs.DurationVar(&o.watch, "watch", 0, "repeat the search at this interval")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if _, err := search.ParseMode(o.mode); err != nil {
		return o, err
	}
	if !o.locate && o.lat == 0 && o.lng == 0 {
		return o, errors.New("either -lat and -lng or -locate is required")
	}
	return o, nil
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func main() {
	o, err := parseFlags(os.Args[1:], time.Now())
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	config.LoadConfig()
	logger := newLogger(o.verbose)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, os.Stdout, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("search failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, o options, out io.Writer, logger *zap.Logger) error {
	mode, _ := search.ParseMode(o.mode)
	locator := &geocode.Locator{IP: geocode.NewIPLocator(config.AppConfig.IPAPIBaseURL, nil, nil, logger)}
	if config.AppConfig.MapQuestAPIKey != "" {
		locator.Reverse = geocode.NewReverseGeocoder(config.AppConfig.MapQuestBaseURL, config.AppConfig.MapQuestAPIKey, nil, nil)
	}
	s := &search.Searcher{
		Backend: search.NewHTTPBackend(o.server, nil),
		Locator: locator,
		Status: search.StatusFunc(func(status string) {
			fmt.Fprintln(out, status)
		}),
		Table:  search.NewTable(),
		Logger: logger,
	}

	params := search.Params{
		Lat:                 o.lat,
		Lng:                 o.lng,
		FromDate:            o.from,
		ToDate:              o.to,
		MinSlots:            o.minSlots,
		MaxNearestLocations: o.maxLocations,
		Mode:                mode,
	}
	if o.locate {
		pos, err := s.Locate(ctx, "")
		if err != nil {
			return fmt.Errorf("locate: %w", err)
		}
		params.Lat, params.Lng = pos.Lat, pos.Lng
		fmt.Fprintf(out, "Located at %v,%v %s\n", pos.Lat, pos.Lng, strings.TrimSpace(pos.Street+" "+pos.City))
	}

	if o.watch <= 0 {
		if _, err := s.Search(ctx, params); err != nil {
			return err
		}
		renderTable(out, s.Table.Rows())
		return nil
	}

	// Watch mode only prints rows found by the latest search.
	s.ClearOnSearch = true
	ticker := time.NewTicker(o.watch)
	defer ticker.Stop()
	for {
		res, err := s.Search(ctx, params)
		if err != nil {
			logger.Warn("search failed, retrying at next tick", zap.Error(err))
		} else if len(res.Rows) > 0 {
			fmt.Fprintf(out, "%s\n", time.Now().Format(time.RFC3339))
			renderTable(out, res.Rows)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func renderTable(out io.Writer, rows []models.GroupedRow) {
	if len(rows) == 0 {
		return
	}
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Office", "Date", "Hours"})
	table.SetAutoWrapText(false)
	for _, row := range rows {
		table.Append([]string{row.Location, row.Date, strings.Join(row.Hours, " ")})
	}
	table.Render()
}
