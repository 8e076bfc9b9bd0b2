package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Options{
		BaseURL:        server.URL + "/",
		AuthToken:      "JWT token",
		OrganizationID: 56,
		ServiceTypeID:  156,
	})
}

func TestSearchLocations(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/LocationSearch", r.URL.Path)
		assert.Equal(t, "JWT token", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "56", q.Get("organizationId"))
		assert.Equal(t, "156", q.Get("serviceTypeId"))
		assert.Equal(t, "Distance", q.Get("orderBy"))

		var pos map[string]any
		require.NoError(t, json.Unmarshal([]byte(q.Get("position")), &pos))
		assert.Equal(t, "32.1", pos["lat"])
		assert.Equal(t, "34.8", pos["lng"])

		w.Write([]byte(`{"Success":true,"Results":[{"LocationName":"Holon","LocationId":7,"ServiceId":70}]}`))
	})

	locs, err := client.SearchLocations(context.Background(), 32.1, 34.8)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "Holon", locs[0].Name)
	assert.Equal(t, 7, locs[0].ID)
	assert.Equal(t, 70, locs[0].ServiceID)
}

func TestSearchAvailableDatesAndSlots(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/SearchAvailableDates":
			assert.Equal(t, "70", r.URL.Query().Get("serviceId"))
			assert.Equal(t, "2024-01-01", r.URL.Query().Get("startDate"))
			assert.Equal(t, "50", r.URL.Query().Get("maxResults"))
			w.Write([]byte(`{"Success":true,"Results":[{"CalendarDate":"2024-01-02T00:00:00","CalendarId":11}]}`))
		case "/SearchAvailableSlots":
			assert.Equal(t, "11", r.URL.Query().Get("CalendarId"))
			assert.Equal(t, "70", r.URL.Query().Get("ServiceId"))
			w.Write([]byte(`{"Success":true,"Results":[{"Time":545},{"Time":600}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	cals, err := client.SearchAvailableDates(context.Background(), 70, "2024-01-01")
	require.NoError(t, err)
	require.Equal(t, []Calendar{{CalendarDate: "2024-01-02T00:00:00", CalendarID: 11}}, cals)

	slots, err := client.SearchAvailableSlots(context.Background(), 11, 70)
	require.NoError(t, err)
	assert.Equal(t, []CalendarSlot{{Time: 545}, {Time: 600}}, slots)
}

func TestClientErrors(t *testing.T) {
	t.Run("success false", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"Success":false,"ErrorMessage":"token expired"}`))
		})
		_, err := client.SearchLocations(context.Background(), 1, 1)
		require.Error(t, err)
		assert.True(t, IsAPIError(err))
		assert.Contains(t, err.Error(), "token expired")
	})

	t.Run("non 200 status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("nope"))
		})
		_, err := client.SearchAvailableDates(context.Background(), 1, "2024-01-01")
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
		assert.Equal(t, "nope", statusErr.Body)
	})

	t.Run("invalid json", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>`))
		})
		_, err := client.SearchAvailableSlots(context.Background(), 1, 1)
		require.Error(t, err)
		assert.False(t, IsAPIError(err))
	})
}

func TestClientOmitsEmptyAuthorization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"Success":true,"Results":[]}`))
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL})
	locs, err := client.SearchLocations(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Empty(t, locs)
}
