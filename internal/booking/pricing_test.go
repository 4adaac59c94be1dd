package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ukydev/fleet-rental-console/internal/models"
)

func TestClampHours(t *testing.T) {
	tests := []struct {
		in, expected int
	}{
		{-5, 1}, {0, 1}, {1, 1}, {12, 12}, {24, 24}, {25, 24}, {1000, 24},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClampHours(tt.in), "ClampHours(%d)", tt.in)
	}
}

func TestTotal(t *testing.T) {
	for hours := MinHours; hours <= MaxHours; hours++ {
		for _, rate := range []float64{0, 1, 12.5, 20, 99.99} {
			assert.Equal(t, float64(hours)*rate, Total(hours, rate))
		}
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$60.00", FormatAmount(60, "USD"))
	assert.Equal(t, "$7.50", FormatAmount(7.5, ""))
	assert.Equal(t, "EUR 12.50", FormatAmount(12.5, "EUR"))
}

func TestQuoteVehicle(t *testing.T) {
	q := QuoteVehicle(models.VehiclePricing{
		Currency:  "EUR",
		DailyRate: 50,
		Days:      3,
		Taxes:     []models.Tax{{Name: "VAT", Rate: 0.2}, {Name: "City", Rate: 0.05}},
		Fees:      []models.Fee{{Name: "Cleaning", Amount: 15}, {Name: "Airport", Amount: 10}},
	})
	assert.Equal(t, "EUR", q.Currency)
	assert.InDelta(t, 150.0, q.Subtotal, 1e-9)
	assert.InDelta(t, 37.5, q.Taxes, 1e-9)
	assert.InDelta(t, 25.0, q.Fees, 1e-9)
	assert.InDelta(t, 212.5, q.Total, 1e-9)
}

func TestQuoteVehicle_Empty(t *testing.T) {
	q := QuoteVehicle(models.VehiclePricing{})
	assert.Equal(t, Quote{}, q)
}
