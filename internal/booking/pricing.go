package booking

import (
	"fmt"

	"github.com/ukydev/fleet-rental-console/internal/models"
)

const (
	// MinHours is the shortest bookable duration.
	MinHours = 1
	// MaxHours is the longest bookable duration.
	MaxHours = 24

	// Currency is fixed for driver bookings.
	Currency = "USD"
)

// ClampHours forces hours into [MinHours, MaxHours].
func ClampHours(hours int) int {
	if hours < MinHours {
		return MinHours
	}
	if hours > MaxHours {
		return MaxHours
	}
	return hours
}

// Total is the price of a driver booking. It is always recomputed from its
// inputs and never carried between steps.
func Total(hours int, hourlyRate float64) float64 {
	return float64(hours) * hourlyRate
}

// FormatAmount renders an amount for display, e.g. "$60.00" or "EUR 12.50".
func FormatAmount(amount float64, currency string) string {
	if currency == "" || currency == Currency {
		return fmt.Sprintf("$%.2f", amount)
	}
	return fmt.Sprintf("%s %.2f", currency, amount)
}

// Quote is the itemized price of a vehicle rental.
type Quote struct {
	Currency string
	Subtotal float64
	Taxes    float64
	Fees     float64
	Total    float64
}

// QuoteVehicle prices a vehicle rental: daily rate times days, plus each tax
// as a fraction of that subtotal, plus flat fees.
func QuoteVehicle(p models.VehiclePricing) Quote {
	q := Quote{
		Currency: p.Currency,
		Subtotal: p.DailyRate.Float() * p.Days.Float(),
	}
	for _, tax := range p.Taxes {
		q.Taxes += tax.Rate.Float() * q.Subtotal
	}
	for _, fee := range p.Fees {
		q.Fees += fee.Amount.Float()
	}
	q.Total = q.Subtotal + q.Taxes + q.Fees
	return q
}
