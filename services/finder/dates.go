package finder

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// isDateAfter reports whether the day of calendarDate (date-time or date) is
// strictly after endDate. An empty endDate never cuts off.
func isDateAfter(calendarDate, endDate string) (bool, error) {
	if endDate == "" {
		return false, nil
	}
	day, _, _ := strings.Cut(calendarDate, "T")
	d1, err := time.Parse(dateLayout, day)
	if err != nil {
		return false, fmt.Errorf("parse calendar date %q: %w", calendarDate, err)
	}
	d2, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return false, fmt.Errorf("parse end date %q: %w", endDate, err)
	}
	return d1.After(d2), nil
}
