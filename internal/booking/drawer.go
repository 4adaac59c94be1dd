package booking

import (
	"errors"
	"time"

	"github.com/ukydev/fleet-rental-console/internal/models"
)

var ErrDriverNotBookable = errors.New("driver is not available for booking")

// Drawer is the quick-confirm staging state for one driver, before the
// full form is shown.
type Drawer struct {
	Driver              models.Driver
	Hours               int
	TotalAmount         float64
	BookingDate         time.Time
	SpecialInstructions string

	// Set only when an agent books on behalf of a customer.
	SelectedUserID   string
	SelectedUserName string
}

// NewDrawer stages a booking for driver with one hour on today's date.
func NewDrawer(driver models.Driver, now time.Time) (Drawer, error) {
	if !driver.Bookable() {
		return Drawer{}, ErrDriverNotBookable
	}
	d := Drawer{
		Driver:      driver,
		Hours:       MinHours,
		BookingDate: startOfDay(now),
	}
	d.TotalAmount = Total(d.Hours, driver.HourlyRate.Float())
	return d, nil
}

// DrawerActionType enumerates drawer state changes.
type DrawerActionType string

const (
	IncrementHours  DrawerActionType = "INCREMENT_HOURS"
	DecrementHours  DrawerActionType = "DECREMENT_HOURS"
	SetDrawerHours  DrawerActionType = "SET_HOURS"
	SetInstructions DrawerActionType = "SET_INSTRUCTIONS"
	SetBookingDate  DrawerActionType = "SET_BOOKING_DATE"
	SelectCustomer  DrawerActionType = "SELECT_CUSTOMER"
)

// DrawerAction is a single drawer state change.
type DrawerAction struct {
	Type     DrawerActionType
	Hours    int
	Text     string
	Date     time.Time
	UserID   string
	UserName string
}

// ReduceDrawer applies a to d and returns the new drawer. The total is
// recomputed after every action.
func ReduceDrawer(d Drawer, a DrawerAction) Drawer {
	switch a.Type {
	case IncrementHours:
		d.Hours = ClampHours(d.Hours + 1)
	case DecrementHours:
		d.Hours = ClampHours(d.Hours - 1)
	case SetDrawerHours:
		d.Hours = ClampHours(a.Hours)
	case SetInstructions:
		d.SpecialInstructions = a.Text
	case SetBookingDate:
		if !a.Date.IsZero() {
			d.BookingDate = startOfDay(a.Date)
		}
	case SelectCustomer:
		d.SelectedUserID = a.UserID
		d.SelectedUserName = a.UserName
	}
	d.TotalAmount = Total(d.Hours, d.Driver.HourlyRate.Float())
	return d
}

func startOfDay(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, t.Location())
}
