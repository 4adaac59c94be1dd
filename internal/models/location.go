package models

// Location is a pickup or dropoff point.
type Location struct {
	Label     string  `json:"label"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationSummary is the trimmed location the API echoes back on a booking.
type LocationSummary struct {
	Label   string `json:"label,omitempty"`
	Address string `json:"address,omitempty"`
}
