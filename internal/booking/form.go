package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ukydev/fleet-rental-console/internal/models"
)

// Flow is who is operating the booking funnel.
type Flow int

const (
	// FlowCustomer books for the signed-in customer.
	FlowCustomer Flow = iota
	// FlowAgent books on behalf of a selected customer.
	FlowAgent
)

func (f Flow) String() string {
	if f == FlowAgent {
		return "agent"
	}
	return "customer"
}

// customerStartHour is the default start of a customer booking.
const customerStartHour = 9

// FormLocation is a location as typed into the form; coordinates stay text
// until submission.
type FormLocation struct {
	Label     string
	Address   string
	Latitude  string
	Longitude string
}

// Form is the full booking draft.
type Form struct {
	CustomerID      string
	CustomerName    string
	DriverProfileID string
	DriverName      string
	HourlyRate      float64
	StartAt         time.Time
	EndAt           time.Time
	Pickup          FormLocation
	Dropoff         FormLocation
	Notes           string
	Currency        string
	HoursRequested  int

	// endEdited is set once the user changes the end time directly; the
	// end is no longer derived from start and hours after that.
	endEdited bool
}

// FormFromDrawer promotes drawer data into a booking form. Customers start
// at 09:00 on the booking date, agents start now.
func FormFromDrawer(d Drawer, flow Flow, customerID string, now time.Time) Form {
	start := now
	if flow == FlowCustomer {
		date := d.BookingDate
		if date.IsZero() {
			date = now
		}
		y, m, day := date.Date()
		start = time.Date(y, m, day, customerStartHour, 0, 0, 0, now.Location())
	}
	hours := ClampHours(d.Hours)

	f := Form{
		CustomerID:      customerID,
		DriverProfileID: d.Driver.ID,
		DriverName:      d.Driver.Name(),
		HourlyRate:      d.Driver.HourlyRate.Float(),
		StartAt:         start,
		EndAt:           start.Add(time.Duration(hours) * time.Hour),
		Notes:           d.SpecialInstructions,
		Currency:        Currency,
		HoursRequested:  hours,
	}
	if flow == FlowAgent && d.SelectedUserID != "" {
		f.CustomerID = d.SelectedUserID
		f.CustomerName = d.SelectedUserName
	}
	return f
}

// Total is the current price of the form.
func (f Form) Total() float64 {
	return Total(f.HoursRequested, f.HourlyRate)
}

// EndEdited reports whether the end time was set by hand.
func (f Form) EndEdited() bool { return f.endEdited }

// FormActionType enumerates form edits.
type FormActionType string

const (
	SetFormHours       FormActionType = "SET_HOURS"
	SetStart           FormActionType = "SET_START"
	SetEnd             FormActionType = "SET_END"
	SetPickup          FormActionType = "SET_PICKUP"
	SetDropoff         FormActionType = "SET_DROPOFF"
	SetNotes           FormActionType = "SET_NOTES"
	SelectFormCustomer FormActionType = "SELECT_CUSTOMER"
)

// FormAction is a single form edit.
type FormAction struct {
	Type     FormActionType
	Hours    int
	Time     time.Time
	Location FormLocation
	Text     string
	UserID   string
	UserName string
}

// ReduceForm applies a to f. Changing hours or start re-derives the end
// unless the end was edited directly.
func ReduceForm(f Form, a FormAction) Form {
	switch a.Type {
	case SetFormHours:
		f.HoursRequested = ClampHours(a.Hours)
		f.deriveEnd()
	case SetStart:
		f.StartAt = a.Time
		f.deriveEnd()
	case SetEnd:
		f.EndAt = a.Time
		f.endEdited = true
	case SetPickup:
		f.Pickup = a.Location
	case SetDropoff:
		f.Dropoff = a.Location
	case SetNotes:
		f.Notes = a.Text
	case SelectFormCustomer:
		f.CustomerID = a.UserID
		f.CustomerName = a.UserName
	}
	return f
}

func (f *Form) deriveEnd() {
	if f.endEdited || f.StartAt.IsZero() {
		return
	}
	f.EndAt = f.StartAt.Add(time.Duration(f.HoursRequested) * time.Hour)
}

// ValidationError is a form problem caught before any request is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validate checks f in a fixed order and reports the first problem.
func Validate(f Form, flow Flow) error {
	if flow == FlowAgent && strings.TrimSpace(f.CustomerID) == "" {
		return &ValidationError{Field: "customer_id", Message: "Please select a customer for this booking."}
	}
	if strings.TrimSpace(f.Pickup.Address) == "" {
		return &ValidationError{Field: "pickup_location", Message: "Please enter a pickup address."}
	}
	if strings.TrimSpace(f.Dropoff.Address) == "" {
		return &ValidationError{Field: "dropoff_location", Message: "Please enter a dropoff address."}
	}
	if f.StartAt.IsZero() {
		return &ValidationError{Field: "start_at", Message: "Please choose a start date and time."}
	}
	return nil
}

// Request converts f into the create-booking body, coercing typed-in
// coordinates to numbers.
func Request(f Form) (models.CreateBookingRequest, error) {
	pickup, err := toLocation(f.Pickup, "pickup")
	if err != nil {
		return models.CreateBookingRequest{}, err
	}
	dropoff, err := toLocation(f.Dropoff, "dropoff")
	if err != nil {
		return models.CreateBookingRequest{}, err
	}
	currency := f.Currency
	if currency == "" {
		currency = Currency
	}
	end := f.EndAt
	if end.IsZero() {
		end = f.StartAt.Add(time.Duration(ClampHours(f.HoursRequested)) * time.Hour)
	}
	return models.CreateBookingRequest{
		CustomerID:      strings.TrimSpace(f.CustomerID),
		DriverProfileID: f.DriverProfileID,
		StartAt:         f.StartAt.UTC(),
		EndAt:           end.UTC(),
		PickupLocation:  pickup,
		DropoffLocation: dropoff,
		Notes:           strings.TrimSpace(f.Notes),
		Pricing: models.PricingRequest{
			Currency:       currency,
			HoursRequested: ClampHours(f.HoursRequested),
		},
	}, nil
}

func toLocation(l FormLocation, name string) (models.Location, error) {
	lat, err := parseCoordinate(l.Latitude)
	if err != nil {
		return models.Location{}, &ValidationError{Field: name + "_location.latitude", Message: fmt.Sprintf("The %s latitude must be a number.", name)}
	}
	lng, err := parseCoordinate(l.Longitude)
	if err != nil {
		return models.Location{}, &ValidationError{Field: name + "_location.longitude", Message: fmt.Sprintf("The %s longitude must be a number.", name)}
	}
	label := strings.TrimSpace(l.Label)
	if label == "" {
		label = strings.TrimSpace(l.Address)
	}
	return models.Location{
		Label:     label,
		Address:   strings.TrimSpace(l.Address),
		Latitude:  lat,
		Longitude: lng,
	}, nil
}

func parseCoordinate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
