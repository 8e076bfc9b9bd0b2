// Package search runs a user search end to end: locate, look up the nearest
// offices, look up their free slots, group them and append them to a Table.
package search

import (
	"context"
	"fmt"
	"strings"

	"slotfinder/models"
	"slotfinder/services/aggregator"

	"go.uber.org/zap"
)

// Mode selects how appointments are requested.
type Mode string

const (
	// ModeSingle asks for every location's appointments in one request.
	ModeSingle Mode = "single"
	// ModePerLocation asks location by location and tolerates failures.
	ModePerLocation Mode = "per-location"
)

const DefaultMaxNearestLocations = 5

// ParseMode maps user input to a Mode, defaulting to ModePerLocation.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.TrimSpace(s)) {
	case "", ModePerLocation:
		return ModePerLocation, nil
	case ModeSingle:
		return ModeSingle, nil
	default:
		return "", fmt.Errorf("unknown search mode %q", s)
	}
}

type Params struct {
	Lat                 float64
	Lng                 float64
	FromDate            string
	ToDate              string
	MinSlots            int
	MaxNearestLocations int
	Mode                Mode
}

// LocationFailure is a per-location lookup that failed and was skipped.
type LocationFailure struct {
	Location string
	Err      error
}

// Result describes one search. Rows holds only the rows it added.
type Result struct {
	Locations []string
	Rows      []models.GroupedRow
	Failures  []LocationFailure
}

// PositionLocator finds the caller's position.
type PositionLocator interface {
	Locate(ctx context.Context, ip string) (models.Position, error)
}

type Searcher struct {
	Backend Backend
	Locator PositionLocator
	Status  StatusSink
	Table   *Table
	// ClearOnSearch resets the table at the start of every search instead of
	// accumulating rows across searches.
	ClearOnSearch bool
	Logger        *zap.Logger
}

func (s *Searcher) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Searcher) setStatus(status string) {
	if s.Status != nil {
		s.Status.SetStatus(status)
	}
}

// Locate finds the caller's position so the search form can be prefilled.
func (s *Searcher) Locate(ctx context.Context, ip string) (models.Position, error) {
	pos, err := s.Locator.Locate(ctx, ip)
	if err != nil {
		s.logger().Warn("locate failed", zap.String("ip", ip), zap.Error(err))
		if pos.Source == "" {
			return pos, err
		}
	}
	s.setStatus(StatusReady)
	return pos, nil
}

// Search runs one search and appends its rows to the table.
func (s *Searcher) Search(ctx context.Context, p Params) (Result, error) {
	if s.Table == nil {
		s.Table = NewTable()
	}
	if s.ClearOnSearch {
		s.Table.Reset()
	}
	if p.MaxNearestLocations <= 0 {
		p.MaxNearestLocations = DefaultMaxNearestLocations
	}

	s.setStatus(StatusSearching)
	locations, err := s.Backend.Locations(ctx, LocationsRequest{
		MaxNearestLocations: p.MaxNearestLocations,
		Lat:                 p.Lat,
		Lng:                 p.Lng,
	})
	if err != nil {
		s.logger().Error("location lookup failed", zap.Error(err))
		s.setStatus(err.Error())
		return Result{}, err
	}

	result := Result{Locations: make([]string, 0, len(locations))}
	for _, loc := range locations {
		result.Locations = append(result.Locations, loc.Name)
	}
	s.setStatus(fmt.Sprintf(StatusSearchingIn, strings.Join(result.Locations, ",")))

	if p.Mode == ModeSingle {
		return s.searchAll(ctx, p, locations, result)
	}
	return s.searchEach(ctx, p, locations, result), nil
}

func (s *Searcher) searchAll(ctx context.Context, p Params, locations []LocationEntry, result Result) (Result, error) {
	records, err := s.Backend.Appointments(ctx, appointmentsRequest(p, locations))
	if err != nil {
		s.logger().Error("appointment lookup failed", zap.Error(err))
		s.setStatus(err.Error())
		return result, err
	}
	if len(records) == 0 {
		s.setStatus(StatusNoResults)
		return result, nil
	}
	rows, err := aggregator.Aggregate(records)
	if err != nil {
		s.setStatus(err.Error())
		return result, err
	}
	s.Table.Append(rows...)
	result.Rows = rows
	return result, nil
}

func (s *Searcher) searchEach(ctx context.Context, p Params, locations []LocationEntry, result Result) Result {
	for _, loc := range locations {
		logger := s.logger().With(zap.String("location", loc.Name))
		records, err := s.Backend.Appointments(ctx, appointmentsRequest(p, []LocationEntry{loc}))
		if err == nil {
			var rows []models.GroupedRow
			rows, err = aggregator.Aggregate(records)
			if err == nil {
				s.Table.Append(rows...)
				result.Rows = append(result.Rows, rows...)
				logger.Debug("location searched", zap.Int("rows", len(rows)))
				continue
			}
		}
		logger.Error("appointment lookup failed, skipping location", zap.Error(err))
		result.Failures = append(result.Failures, LocationFailure{Location: loc.Name, Err: err})
	}

	if len(result.Rows) == 0 {
		s.setStatus(StatusNoResults)
	} else {
		s.setStatus(fmt.Sprintf(StatusFound, len(result.Rows)))
	}
	return result
}

func appointmentsRequest(p Params, locations []LocationEntry) AppointmentsRequest {
	return AppointmentsRequest{
		Locations: locations,
		FromDate:  p.FromDate,
		ToDate:    p.ToDate,
		MinSlots:  p.MinSlots,
	}
}
