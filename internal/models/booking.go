package models

import "time"

// BookingStatus is the server-owned lifecycle state of a driver booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingAccepted  BookingStatus = "accepted"
	BookingPaid      BookingStatus = "paid"
	BookingCancelled BookingStatus = "cancelled"
)

// PaymentStatus is the settlement state of a driver booking.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// ParseBookingStatus reports whether s is a known booking status.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingAccepted, BookingPaid, BookingCancelled:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

// PricingRequest is the pricing block sent when creating a booking.
type PricingRequest struct {
	Currency       string `json:"currency"`
	HoursRequested int    `json:"hours_requested"`
}

// CreateBookingRequest is the body of POST /driver-bookings.
type CreateBookingRequest struct {
	CustomerID      string         `json:"customer_id,omitempty"`
	DriverProfileID string         `json:"driver_profile_id"`
	StartAt         time.Time      `json:"start_at"`
	EndAt           time.Time      `json:"end_at"`
	PickupLocation  Location       `json:"pickup_location"`
	DropoffLocation Location       `json:"dropoff_location"`
	Notes           string         `json:"notes,omitempty"`
	Pricing         PricingRequest `json:"pricing"`
}

// BookingPricing is the pricing block echoed back on a booking.
type BookingPricing struct {
	HoursRequested Number `json:"hours_requested"`
	Currency       string `json:"currency"`
}

// ApiBooking is a server-confirmed driver booking.
type ApiBooking struct {
	ID              string           `json:"_id"`
	Driver          DriverSummary    `json:"driver_profile_id"`
	Customer        UserRef          `json:"customer_id"`
	StartAt         time.Time        `json:"start_at"`
	EndAt           time.Time        `json:"end_at"`
	PickupLocation  *LocationSummary `json:"pickup_location,omitempty"`
	DropoffLocation *LocationSummary `json:"dropoff_location,omitempty"`
	Pricing         BookingPricing   `json:"pricing"`
	Status          BookingStatus    `json:"status"`
	PaymentStatus   PaymentStatus    `json:"payment_status"`
	Notes           string           `json:"notes"`
	CreatedAt       time.Time        `json:"created_at"`

	// PendingSync marks a record patched locally and not yet refetched.
	PendingSync bool `json:"-"`
}

// Total is hours requested times the driver's hourly rate.
func (b ApiBooking) Total() float64 {
	return float64(b.Pricing.HoursRequested.Int()) * b.Driver.HourlyRate.Float()
}
