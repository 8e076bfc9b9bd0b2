package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"slotfinder/services/metrics"

	"go.uber.org/zap"
)

// ErrPrivateIP is returned for addresses that cannot be located publicly.
var ErrPrivateIP = errors.New("ip address is private or loopback")

// IPLocation is the geolocation information for an IP.
type IPLocation struct {
	IP          string  `json:"ip"`
	City        string  `json:"city"`
	Region      string  `json:"region"`
	Country     string  `json:"country_name"`
	CountryCode string  `json:"country_code"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timezone    string  `json:"timezone"`
}

// IPLocator looks up IP addresses with ipapi.co and caches the answers.
type IPLocator struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.UpstreamMetrics
	logger     *zap.Logger

	mu    sync.RWMutex
	cache map[string]*IPLocation
}

func NewIPLocator(baseURL string, httpClient *http.Client, m *metrics.UpstreamMetrics, logger *zap.Logger) *IPLocator {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IPLocator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		metrics:    m,
		logger:     logger,
		cache:      make(map[string]*IPLocation),
	}
}

// isPrivateIP checks if an IP is private or loopback.
func isPrivateIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return parsed.IsPrivate() || parsed.IsLoopback() || parsed.IsLinkLocalUnicast() || parsed.IsUnspecified()
}

// Locate looks up ip. An empty ip locates the machine making the request.
func (l *IPLocator) Locate(ctx context.Context, ip string) (*IPLocation, error) {
	l.mu.RLock()
	if loc, ok := l.cache[ip]; ok {
		l.mu.RUnlock()
		return loc, nil
	}
	l.mu.RUnlock()

	if isPrivateIP(ip) {
		l.logger.Debug("Client IP is private; skipping geolocation", zap.String("ip", ip))
		return nil, ErrPrivateIP
	}

	start := time.Now()
	outcome := "ok"
	defer func() {
		l.metrics.ObserveRequest("ipapi", outcome, time.Since(start).Seconds())
	}()

	target := fmt.Sprintf("%s/%s/json/", l.baseURL, ip)
	if ip == "" {
		target = l.baseURL + "/json/"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		outcome = "transport_error"
		return nil, err
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		outcome = "transport_error"
		l.logger.Error("Failed to query external geolocation API", zap.String("ip", ip), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		outcome = "http_error"
		l.logger.Error("External geolocation API returned non-OK status", zap.String("ip", ip), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("ip geolocation: unexpected status %d", resp.StatusCode)
	}

	var loc IPLocation
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		outcome = "decode_error"
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	l.mu.Lock()
	l.cache[ip] = &loc
	l.mu.Unlock()

	l.logger.Info("Geolocation retrieved from external API", zap.String("ip", ip), zap.String("city", loc.City))
	return &loc, nil
}
