// Package aggregator groups flat appointment records into display rows keyed
// by location and date.
package aggregator

import (
	"errors"
	"fmt"
	"strings"

	"slotfinder/models"
)

// ErrMalformedRecord is matched by every *MalformedRecordError.
var ErrMalformedRecord = errors.New("malformed appointment record")

// MalformedRecordError identifies the first record of a batch that cannot be
// rendered.
type MalformedRecordError struct {
	Index  int
	Field  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("record %d: %s %s", e.Index, e.Field, e.Reason)
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

type groupKey struct {
	location string
	date     string
}

// Validate checks that every record has a location, a date and an hour with a
// ':' separator.
func Validate(records []models.AppointmentRecord) error {
	for i, r := range records {
		switch {
		case r.Location == "":
			return &MalformedRecordError{Index: i, Field: "location", Reason: "is empty"}
		case r.Date == "":
			return &MalformedRecordError{Index: i, Field: "date", Reason: "is empty"}
		case r.Hour == "":
			return &MalformedRecordError{Index: i, Field: "hour", Reason: "is empty"}
		case !strings.Contains(r.Hour, ":"):
			return &MalformedRecordError{Index: i, Field: "hour", Reason: fmt.Sprintf("%q has no ':' separator", r.Hour)}
		}
	}
	return nil
}

// Aggregate validates records and groups them by exact (location, date).
// Rows come out in first-seen key order and hours keep input order.
func Aggregate(records []models.AppointmentRecord) ([]models.GroupedRow, error) {
	if err := Validate(records); err != nil {
		return nil, err
	}
	return group(records), nil
}

func group(records []models.AppointmentRecord) []models.GroupedRow {
	rows := make([]models.GroupedRow, 0)
	index := make(map[groupKey]int)
	for _, r := range records {
		key := groupKey{location: r.Location, date: r.Date}
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, models.GroupedRow{
				Location: r.Location,
				Date:     PrettyDate(r.Date),
			})
		}
		rows[i].Hours = append(rows[i].Hours, FormatSlot(r.Hour))
	}
	return rows
}

// PrettyDate drops everything from the first 'T' on. Input without a 'T' is
// returned unchanged.
func PrettyDate(date string) string {
	day, _, _ := strings.Cut(date, "T")
	return day
}

// FormatSlot renders "H:M" as "H:MM": the minutes are zero padded and only
// their last two characters are kept, so empty minutes render as "0". Input
// without ':' is returned unchanged.
func FormatSlot(slot string) string {
	parts := strings.Split(slot, ":")
	if len(parts) < 2 {
		return slot
	}
	minutes := "0" + parts[1]
	if len(minutes) > 2 {
		minutes = minutes[len(minutes)-2:]
	}
	return parts[0] + ":" + minutes
}
