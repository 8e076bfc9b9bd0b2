package models

// Location is an office returned by the central API location search.
type Location struct {
	Name      string `json:"LocationName"`
	ID        int    `json:"LocationId"`
	ServiceID int    `json:"ServiceId"`
}

// LocationQuery is the body of POST /locations.
type LocationQuery struct {
	MaxNearestLocations int     `json:"maxNearestLocations" binding:"required,min=1"`
	Lat                 float64 `json:"lat" binding:"required"`
	Lng                 float64 `json:"lng" binding:"required"`
}

// AppointmentQuery is the body of POST /appointments.
type AppointmentQuery struct {
	Locations []Location `json:"locations" binding:"required"`
	FromDate  string     `json:"fromDate" binding:"required"`
	ToDate    string     `json:"toDate"`
	MinSlots  int        `json:"minSlots"`
}
