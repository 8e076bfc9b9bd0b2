package geocode

import (
	"context"
	"errors"
	"time"

	"slotfinder/models"
)

// LocateTimeout bounds the whole locate step.
const LocateTimeout = 5000 * time.Millisecond

// Locator finds the caller's position and names the street it is on.
type Locator struct {
	IP      *IPLocator
	Reverse *ReverseGeocoder
}

// Locate resolves ip to coordinates and, when possible, to an address. When
// only the reverse lookup fails the coordinates come back with the error.
func (l *Locator) Locate(ctx context.Context, ip string) (models.Position, error) {
	ctx, cancel := context.WithTimeout(ctx, LocateTimeout)
	defer cancel()

	loc, err := l.IP.Locate(ctx, ip)
	if err != nil {
		return models.Position{}, err
	}
	pos := models.Position{Lat: loc.Latitude, Lng: loc.Longitude, City: loc.City, Source: "ip"}

	if l.Reverse == nil {
		return pos, nil
	}
	addr, err := l.Reverse.Reverse(ctx, pos.Lat, pos.Lng)
	if err != nil {
		if errors.Is(err, ErrNoAddress) {
			return pos, nil
		}
		return pos, err
	}
	if addr.City != "" {
		pos.City = addr.City
	}
	pos.Street = addr.Street
	return pos, nil
}
