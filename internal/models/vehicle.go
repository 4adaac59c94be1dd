package models

import "time"

// Vehicle represents a rental fleet vehicle.
type Vehicle struct {
	ID        string    `json:"_id"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Year      Number    `json:"year"`
	Category  string    `json:"category"`
	Plate     string    `json:"plate,omitempty"`
	DailyRate Number    `json:"daily_rate"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"` // "available", "rented", "maintenance"
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"`
}

// Name is the display label of the vehicle.
func (v Vehicle) Name() string {
	return v.Make + " " + v.Model
}

// Tax is a percentage levied on the rental subtotal.
type Tax struct {
	Name string `json:"name"`
	Rate Number `json:"rate"` // fraction, 0.2 = 20%
}

// Fee is a flat charge added to a rental.
type Fee struct {
	Name   string `json:"name"`
	Amount Number `json:"amount"`
}

// VehiclePricing is the pricing record of a vehicle rental.
type VehiclePricing struct {
	Currency  string `json:"currency"`
	DailyRate Number `json:"daily_rate"`
	Days      Number `json:"days"`
	Taxes     []Tax  `json:"taxes"`
	Fees      []Fee  `json:"fees"`
}

// Reservation is a vehicle rental held by the current user.
type Reservation struct {
	ID        string         `json:"_id"`
	VehicleID string         `json:"vehicle_id"`
	StartAt   time.Time      `json:"start_at"`
	EndAt     time.Time      `json:"end_at"`
	Status    string         `json:"status"` // "reserved", "active", "completed", "cancelled"
	Pricing   VehiclePricing `json:"pricing"`
	CreatedAt time.Time      `json:"created_at"`
}
