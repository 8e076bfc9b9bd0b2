package models

// AppointmentRecord is a single bookable hour at a location on a date, as
// returned by POST /appointments.
type AppointmentRecord struct {
	Location string `json:"location"`
	Date     string `json:"date"` // ISO-8601 date-time, e.g. 2024-05-01T00:00:00
	Hour     string `json:"hour"` // H:M or H:MM
}

// GroupedRow is one display row: every hour found at a location on a date.
type GroupedRow struct {
	Location string   `json:"location"`
	Date     string   `json:"date"` // YYYY-MM-DD
	Hours    []string `json:"hours"`
}
