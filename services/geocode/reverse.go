package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"slotfinder/models"
	"slotfinder/services/metrics"
)

// ErrNoAddress is returned when the geocoder found nothing at a coordinate.
var ErrNoAddress = errors.New("no address found for location")

// reverseResponse is the part of the MapQuest reverse geocoding answer we read.
type reverseResponse struct {
	Results []struct {
		Locations []struct {
			AdminArea5 string `json:"adminArea5"`
			Street     string `json:"street"`
		} `json:"locations"`
	} `json:"results"`
}

// ReverseGeocoder resolves coordinates to a street address through MapQuest.
type ReverseGeocoder struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	metrics    *metrics.UpstreamMetrics
}

func NewReverseGeocoder(baseURL, apiKey string, httpClient *http.Client, m *metrics.UpstreamMetrics) *ReverseGeocoder {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &ReverseGeocoder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
		metrics:    m,
	}
}

func (g *ReverseGeocoder) Reverse(ctx context.Context, lat, lng float64) (models.Address, error) {
	start := time.Now()
	outcome := "ok"
	defer func() {
		g.metrics.ObserveRequest("mapquest_reverse", outcome, time.Since(start).Seconds())
	}()

	if g.apiKey == "" {
		outcome = "config_error"
		return models.Address{}, errors.New("reverse geocoding: missing API key")
	}

	q := url.Values{}
	q.Set("key", g.apiKey)
	q.Set("location", fmt.Sprintf("%v,%v", lat, lng))
	q.Set("outFormat", "json")
	q.Set("thumbMaps", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/geocoding/v1/reverse?"+q.Encode(), nil)
	if err != nil {
		outcome = "transport_error"
		return models.Address{}, err
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		outcome = "transport_error"
		return models.Address{}, fmt.Errorf("reverse geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		outcome = "http_error"
		return models.Address{}, fmt.Errorf("reverse geocoding: unexpected status %d", resp.StatusCode)
	}

	var data reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		outcome = "decode_error"
		return models.Address{}, fmt.Errorf("failed to decode reverse geocoding response: %w", err)
	}
	if len(data.Results) == 0 || len(data.Results[0].Locations) == 0 {
		outcome = "empty"
		return models.Address{}, ErrNoAddress
	}

	loc := data.Results[0].Locations[0]
	return models.Address{City: loc.AdminArea5, Street: loc.Street, Lat: lat, Lng: lng}, nil
}
