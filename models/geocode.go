package models

// Address is the reverse-geocoded street address of a coordinate.
type Address struct {
	City   string  `json:"city"`
	Street string  `json:"street"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}

// Position is where a caller was located, and how.
type Position struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	City   string  `json:"city,omitempty"`
	Street string  `json:"street,omitempty"`
	Source string  `json:"source"`
}
