package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"slotfinder/models"
	"slotfinder/services/metrics"

	"go.uber.org/zap"
)

const (
	endpointLocationSearch = "LocationSearch"
	endpointAvailableDates = "SearchAvailableDates"
	endpointAvailableSlots = "SearchAvailableSlots"

	locationAccuracy   = 1440
	locationPageSize   = 100
	availableDatesMax  = 50
	maxErrorBodyLength = 512
)

// Calendar is one day on which a service has open slots.
type Calendar struct {
	CalendarDate string `json:"CalendarDate"`
	CalendarID   int    `json:"CalendarId"`
}

// CalendarSlot is a free slot, in minutes since midnight.
type CalendarSlot struct {
	Time int `json:"Time"`
}

type envelope[T any] struct {
	Success      bool   `json:"Success"`
	ErrorMessage string `json:"ErrorMessage"`
	Results      []T    `json:"Results"`
}

// Options configures a Client.
type Options struct {
	BaseURL        string
	AuthToken      string
	OrganizationID int
	ServiceTypeID  int
	HTTPClient     *http.Client
	Metrics        *metrics.UpstreamMetrics
	Logger         *zap.Logger
}

// Client talks to the central booking API.
type Client struct {
	baseURL        string
	authToken      string
	organizationID int
	serviceTypeID  int
	httpClient     *http.Client
	metrics        *metrics.UpstreamMetrics
	logger         *zap.Logger
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = DefaultHTTPClient(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		authToken:      opts.AuthToken,
		organizationID: opts.OrganizationID,
		serviceTypeID:  opts.ServiceTypeID,
		httpClient:     httpClient,
		metrics:        opts.Metrics,
		logger:         logger,
	}
}

// DefaultHTTPClient returns a client with the given timeout; zero means none.
func DefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// SearchLocations returns the offices nearest to (lat, lng), closest first.
func (c *Client) SearchLocations(ctx context.Context, lat, lng float64) ([]models.Location, error) {
	position := fmt.Sprintf(`{"lat":"%v","lng":"%v","accuracy":%d}`, lat, lng, locationAccuracy)
	q := url.Values{}
	q.Set("currentPage", "1")
	q.Set("isFavorite", "false")
	q.Set("orderBy", "Distance")
	q.Set("organizationId", strconv.Itoa(c.organizationID))
	q.Set("position", position)
	q.Set("resultsInPage", strconv.Itoa(locationPageSize))
	q.Set("serviceTypeId", strconv.Itoa(c.serviceTypeID))
	q.Set("src", "mvws")

	var res envelope[models.Location]
	if err := c.get(ctx, endpointLocationSearch, q, &res); err != nil {
		return nil, err
	}
	return res.Results, nil
}

// SearchAvailableDates lists the calendar days with free slots for a service,
// starting at startDate (YYYY-MM-DD).
func (c *Client) SearchAvailableDates(ctx context.Context, serviceID int, startDate string) ([]Calendar, error) {
	q := url.Values{}
	q.Set("maxResults", strconv.Itoa(availableDatesMax))
	q.Set("serviceId", strconv.Itoa(serviceID))
	q.Set("startDate", startDate)

	var res envelope[Calendar]
	if err := c.get(ctx, endpointAvailableDates, q, &res); err != nil {
		return nil, err
	}
	return res.Results, nil
}

// SearchAvailableSlots lists the free slots of one calendar day.
func (c *Client) SearchAvailableSlots(ctx context.Context, calendarID, serviceID int) ([]CalendarSlot, error) {
	q := url.Values{}
	q.Set("CalendarId", strconv.Itoa(calendarID))
	q.Set("ServiceId", strconv.Itoa(serviceID))

	var res envelope[CalendarSlot]
	if err := c.get(ctx, endpointAvailableSlots, q, &res); err != nil {
		return nil, err
	}
	return res.Results, nil
}

// Ping checks that the API host answers at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusInternalServerError {
		return &StatusError{Endpoint: "ping", StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out interface {
	ok() (bool, string)
}) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		c.metrics.ObserveRequest(endpoint, outcome, time.Since(start).Seconds())
	}()

	target := c.baseURL + "/" + endpoint + "?" + query.Encode()
	c.logger.Debug("doing request", zap.String("endpoint", endpoint), zap.String("url", target))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		outcome = "transport_error"
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome = "transport_error"
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome = "transport_error"
		return fmt.Errorf("%s: read body: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		outcome = "http_error"
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: truncate(string(body))}
	}
	if err := json.Unmarshal(body, out); err != nil {
		outcome = "decode_error"
		c.logger.Warn("failed to unmarshal", zap.String("endpoint", endpoint), zap.String("body", truncate(string(body))), zap.Error(err))
		return fmt.Errorf("%s: decode response: %w", endpoint, err)
	}
	if success, msg := out.ok(); !success {
		outcome = "api_error"
		c.logger.Warn("got success=false", zap.String("endpoint", endpoint), zap.String("message", msg))
		return &APIError{Endpoint: endpoint, Message: msg}
	}
	return nil
}

func (e *envelope[T]) ok() (bool, string) {
	return e.Success, e.ErrorMessage
}

func truncate(s string) string {
	if len(s) <= maxErrorBodyLength {
		return s
	}
	return s[:maxErrorBodyLength] + "..."
}

// IsAPIError reports whether err came from a Success=false answer.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
