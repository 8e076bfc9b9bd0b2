// Package finder implements the backend behind /locations and /appointments:
// it walks the central API for the nearest offices and their free slots.
package finder

import (
	"context"
	"fmt"

	"slotfinder/models"
	"slotfinder/services/metrics"
	"slotfinder/services/upstream"

	"go.uber.org/zap"
)

// Upstream is the subset of the central API the finder needs.
type Upstream interface {
	SearchLocations(ctx context.Context, lat, lng float64) ([]models.Location, error)
	SearchAvailableDates(ctx context.Context, serviceID int, startDate string) ([]upstream.Calendar, error)
	SearchAvailableSlots(ctx context.Context, calendarID, serviceID int) ([]upstream.CalendarSlot, error)
}

type Service struct {
	Upstream Upstream
	Cache    LocationCache // optional
	Metrics  *metrics.UpstreamMetrics
	Logger   *zap.Logger
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// FindLocations returns at most top offices nearest to (lat, lng).
func (s *Service) FindLocations(ctx context.Context, top int, lat, lng float64) ([]models.Location, error) {
	logger := s.logger()

	locations, hit := s.cachedLocations(ctx, lat, lng)
	if !hit {
		var err error
		locations, err = s.Upstream.SearchLocations(ctx, lat, lng)
		if err != nil {
			logger.Error("FindLocations: location search failed", zap.Float64("lat", lat), zap.Float64("lng", lng), zap.Error(err))
			return nil, err
		}
		if s.Cache != nil {
			if err := s.Cache.Set(ctx, lat, lng, locations); err != nil {
				logger.Warn("FindLocations: cache write failed", zap.Error(err))
			}
		}
	}

	if top < 0 {
		top = 0
	}
	if len(locations) <= top {
		top = len(locations)
	}
	return locations[:top], nil
}

func (s *Service) cachedLocations(ctx context.Context, lat, lng float64) ([]models.Location, bool) {
	if s.Cache == nil {
		return nil, false
	}
	locations, hit, err := s.Cache.Get(ctx, lat, lng)
	if err != nil {
		s.logger().Warn("FindLocations: cache read failed", zap.Error(err))
		return nil, false
	}
	return locations, hit
}

// FindAppointments collects the free slots of every location in order. The
// first upstream error aborts the whole search.
func (s *Service) FindAppointments(ctx context.Context, q models.AppointmentQuery) ([]models.AppointmentRecord, error) {
	records := make([]models.AppointmentRecord, 0)
	for _, loc := range q.Locations {
		found, err := s.nearestBooking(ctx, loc, q.MinSlots, q.FromDate, q.ToDate)
		if err != nil {
			return nil, fmt.Errorf("location %q: %w", loc.Name, err)
		}
		records = append(records, found...)
	}
	s.Metrics.AddSlots(len(records))
	return records, nil
}

func (s *Service) nearestBooking(ctx context.Context, loc models.Location, minSlots int, fromDate, toDate string) ([]models.AppointmentRecord, error) {
	logger := s.logger().With(zap.String("location", loc.Name), zap.Int("serviceID", loc.ServiceID))
	logger.Info("searching for location")

	calendars, err := s.Upstream.SearchAvailableDates(ctx, loc.ServiceID, fromDate)
	if err != nil {
		return nil, err
	}
	if len(calendars) == 0 {
		logger.Info("got 0 dates for location")
		return nil, nil
	}

	var records []models.AppointmentRecord
	for _, cal := range calendars {
		logger.Debug("checking date", zap.String("date", cal.CalendarDate))
		after, err := isDateAfter(cal.CalendarDate, toDate)
		if err != nil {
			return nil, err
		}
		if after {
			logger.Debug("date is beyond end date", zap.String("date", cal.CalendarDate), zap.String("toDate", toDate))
			break
		}

		slots, err := s.Upstream.SearchAvailableSlots(ctx, cal.CalendarID, loc.ServiceID)
		if err != nil {
			return nil, err
		}
		if len(slots) < minSlots {
			logger.Debug("not enough slots for the day", zap.String("date", cal.CalendarDate), zap.Int("slots", len(slots)))
			continue
		}
		for _, slot := range slots {
			hour := fmt.Sprintf("%d:%d", slot.Time/60, slot.Time%60)
			records = append(records, models.AppointmentRecord{
				Location: loc.Name,
				Date:     cal.CalendarDate,
				Hour:     hour,
			})
			logger.Info("available slot", zap.String("date", cal.CalendarDate), zap.String("hour", hour))
		}
	}
	return records, nil
}
