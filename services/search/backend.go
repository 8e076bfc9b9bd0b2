package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"slotfinder/models"
	"slotfinder/services/finder"
)

// LocationEntry is a location as returned by /locations. Only the name is
// read; the raw JSON is sent back to /appointments untouched.
type LocationEntry struct {
	Name string
	Raw  json.RawMessage
}

func (l *LocationEntry) UnmarshalJSON(b []byte) error {
	var head struct {
		Name string `json:"LocationName"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return err
	}
	l.Name = head.Name
	l.Raw = append(json.RawMessage(nil), b...)
	return nil
}

func (l LocationEntry) MarshalJSON() ([]byte, error) {
	if len(l.Raw) == 0 {
		return json.Marshal(map[string]string{"LocationName": l.Name})
	}
	return l.Raw, nil
}

type LocationsRequest struct {
	MaxNearestLocations int     `json:"maxNearestLocations"`
	Lat                 float64 `json:"lat"`
	Lng                 float64 `json:"lng"`
}

type AppointmentsRequest struct {
	Locations []LocationEntry `json:"locations"`
	FromDate  string          `json:"fromDate"`
	ToDate    string          `json:"toDate"`
	MinSlots  int             `json:"minSlots"`
}

// Backend answers the two lookups a search is made of.
type Backend interface {
	Locations(ctx context.Context, req LocationsRequest) ([]LocationEntry, error)
	Appointments(ctx context.Context, req AppointmentsRequest) ([]models.AppointmentRecord, error)
}

// RequestError is a non-2xx answer from the backend.
type RequestError struct {
	Endpoint   string
	StatusCode int
	ErrType    string
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Endpoint, e.StatusCode)
	}
	return e.Message
}

// HTTPBackend calls a slotfinder server over HTTP.
type HTTPBackend struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPBackend(baseURL string, httpClient *http.Client) *HTTPBackend {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HTTPBackend{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (b *HTTPBackend) Locations(ctx context.Context, req LocationsRequest) ([]LocationEntry, error) {
	var out []LocationEntry
	if err := b.post(ctx, "/locations", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *HTTPBackend) Appointments(ctx context.Context, req AppointmentsRequest) ([]models.AppointmentRecord, error) {
	var out []models.AppointmentRecord
	if err := b.post(ctx, "/appointments", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *HTTPBackend) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("POST %s: read body: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := &RequestError{Endpoint: path, StatusCode: resp.StatusCode}
		var envelope struct {
			Err     string `json:"err"`
			ErrType string `json:"errType"`
		}
		if json.Unmarshal(data, &envelope) == nil {
			reqErr.Message = envelope.Err
			reqErr.ErrType = envelope.ErrType
		}
		return reqErr
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("POST %s: decode response: %w", path, err)
	}
	return nil
}

// FinderBackend runs lookups in-process, for the server-rendered page.
type FinderBackend struct {
	Finder *finder.Service
}

func (b *FinderBackend) Locations(ctx context.Context, req LocationsRequest) ([]LocationEntry, error) {
	locations, err := b.Finder.FindLocations(ctx, req.MaxNearestLocations, req.Lat, req.Lng)
	if err != nil {
		return nil, err
	}
	entries := make([]LocationEntry, 0, len(locations))
	for _, loc := range locations {
		raw, err := json.Marshal(loc)
		if err != nil {
			return nil, err
		}
		entries = append(entries, LocationEntry{Name: loc.Name, Raw: raw})
	}
	return entries, nil
}

func (b *FinderBackend) Appointments(ctx context.Context, req AppointmentsRequest) ([]models.AppointmentRecord, error) {
	locations := make([]models.Location, 0, len(req.Locations))
	for _, entry := range req.Locations {
		var loc models.Location
		raw, err := entry.MarshalJSON()
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &loc); err != nil {
			return nil, fmt.Errorf("location %q: %w", entry.Name, err)
		}
		locations = append(locations, loc)
	}
	return b.Finder.FindAppointments(ctx, models.AppointmentQuery{
		Locations: locations,
		FromDate:  req.FromDate,
		ToDate:    req.ToDate,
		MinSlots:  req.MinSlots,
	})
}
