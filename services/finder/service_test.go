package finder

import (
	"context"
	"errors"
	"testing"

	"slotfinder/models"
	"slotfinder/services/upstream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUpstream struct {
	locations    []models.Location
	locationsErr error
	dates        map[int][]upstream.Calendar
	slots        map[int][]upstream.CalendarSlot
	slotsErr     map[int]error

	locationCalls int
	slotCalls     []int
}

func (f *fakeUpstream) SearchLocations(ctx context.Context, lat, lng float64) ([]models.Location, error) {
	f.locationCalls++
	return f.locations, f.locationsErr
}

func (f *fakeUpstream) SearchAvailableDates(ctx context.Context, serviceID int, startDate string) ([]upstream.Calendar, error) {
	return f.dates[serviceID], nil
}

func (f *fakeUpstream) SearchAvailableSlots(ctx context.Context, calendarID, serviceID int) ([]upstream.CalendarSlot, error) {
	f.slotCalls = append(f.slotCalls, calendarID)
	if err := f.slotsErr[calendarID]; err != nil {
		return nil, err
	}
	return f.slots[calendarID], nil
}

func TestFindLocationsTrimsToTop(t *testing.T) {
	up := &fakeUpstream{locations: []models.Location{{Name: "a"}, {Name: "b"}, {Name: "c"}}}
	svc := &Service{Upstream: up}

	locs, err := svc.FindLocations(context.Background(), 2, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []models.Location{{Name: "a"}, {Name: "b"}}, locs)

	locs, err = svc.FindLocations(context.Background(), 10, 1, 2)
	require.NoError(t, err)
	assert.Len(t, locs, 3)
}

func TestFindLocationsError(t *testing.T) {
	svc := &Service{Upstream: &fakeUpstream{locationsErr: errors.New("boom")}}
	_, err := svc.FindLocations(context.Background(), 5, 1, 2)
	require.EqualError(t, err, "boom")
}

func TestFindAppointments(t *testing.T) {
	up := &fakeUpstream{
		dates: map[int][]upstream.Calendar{
			70: {
				{CalendarDate: "2024-01-01T00:00:00", CalendarID: 1},
				{CalendarDate: "2024-01-02T00:00:00", CalendarID: 2},
				{CalendarDate: "2024-01-05T00:00:00", CalendarID: 3},
				{CalendarDate: "2024-01-03T00:00:00", CalendarID: 4},
			},
		},
		slots: map[int][]upstream.CalendarSlot{
			1: {{Time: 545}, {Time: 600}},
			2: {{Time: 480}},
			3: {{Time: 700}, {Time: 720}},
			4: {{Time: 700}, {Time: 720}},
		},
	}
	svc := &Service{Upstream: up}

	records, err := svc.FindAppointments(context.Background(), models.AppointmentQuery{
		Locations: []models.Location{{Name: "Holon", ServiceID: 70}},
		FromDate:  "2024-01-01",
		ToDate:    "2024-01-04",
		MinSlots:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, []models.AppointmentRecord{
		{Location: "Holon", Date: "2024-01-01T00:00:00", Hour: "9:5"},
		{Location: "Holon", Date: "2024-01-01T00:00:00", Hour: "10:0"},
	}, records)
	// Day 2 is skipped for minSlots, the walk stops at the first day past toDate.
	assert.Equal(t, []int{1, 2}, up.slotCalls)
}

func TestFindAppointmentsWithoutEndDate(t *testing.T) {
	up := &fakeUpstream{
		dates: map[int][]upstream.Calendar{
			1: {{CalendarDate: "2030-12-31T00:00:00", CalendarID: 9}},
		},
		slots: map[int][]upstream.CalendarSlot{9: {{Time: 0}}},
	}
	svc := &Service{Upstream: up}

	records, err := svc.FindAppointments(context.Background(), models.AppointmentQuery{
		Locations: []models.Location{{Name: "x", ServiceID: 1}, {Name: "empty", ServiceID: 2}},
		FromDate:  "2024-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, []models.AppointmentRecord{{Location: "x", Date: "2030-12-31T00:00:00", Hour: "0:0"}}, records)
}

func TestFindAppointmentsAbortsOnUpstreamError(t *testing.T) {
	up := &fakeUpstream{
		dates: map[int][]upstream.Calendar{
			1: {{CalendarDate: "2024-01-01T00:00:00", CalendarID: 1}},
		},
		slotsErr: map[int]error{1: &upstream.APIError{Endpoint: "SearchAvailableSlots"}},
	}
	svc := &Service{Upstream: up}

	records, err := svc.FindAppointments(context.Background(), models.AppointmentQuery{
		Locations: []models.Location{{Name: "x", ServiceID: 1}},
		FromDate:  "2024-01-01",
	})
	require.Error(t, err)
	assert.Nil(t, records)
	assert.True(t, upstream.IsAPIError(err))
}

func TestFindAppointmentsNoLocations(t *testing.T) {
	svc := &Service{Upstream: &fakeUpstream{}}
	records, err := svc.FindAppointments(context.Background(), models.AppointmentQuery{FromDate: "2024-01-01"})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestIsDateAfter(t *testing.T) {
	after, err := isDateAfter("2024-01-05T08:00:00", "2024-01-04")
	require.NoError(t, err)
	assert.True(t, after)

	after, err = isDateAfter("2024-01-04T23:00:00", "2024-01-04")
	require.NoError(t, err)
	assert.False(t, after)

	after, err = isDateAfter("garbage", "")
	require.NoError(t, err)
	assert.False(t, after)

	_, err = isDateAfter("garbage", "2024-01-04")
	require.Error(t, err)
}
