package handlers

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-rental-console/internal/apiclient"
	"github.com/ukydev/fleet-rental-console/internal/booking"
	"github.com/ukydev/fleet-rental-console/internal/models"
	"github.com/ukydev/fleet-rental-console/internal/notify"
	"github.com/ukydev/fleet-rental-console/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BookingCreatedMessage = "Booking created successfully."
	PaymentDoneMessage    = "Payment confirmed. Your booking is paid."
)

// SelectDriver opens the drawer for the cached driver id.
func (d *Dashboard) SelectDriver(id string) error {
	driver, ok := d.store.FindDriver(id)
	if !ok {
		return ErrUnknownDriver
	}
	drawer, err := booking.NewDrawer(driver, d.now())
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.drawer = &drawer
	return nil
}

// Drawer returns the open drawer.
func (d *Dashboard) Drawer() (booking.Drawer, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.drawer == nil {
		return booking.Drawer{}, false
	}
	return *d.drawer, true
}

// DispatchDrawer applies a to the open drawer.
func (d *Dashboard) DispatchDrawer(a booking.DrawerAction) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.drawer == nil {
		return ErrNoDrawer
	}
	next := booking.ReduceDrawer(*d.drawer, a)
	d.drawer = &next
	return nil
}

// CancelDrawer discards the drawer.
func (d *Dashboard) CancelDrawer() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drawer = nil
}

// ConfirmDrawer promotes the drawer into the booking form.
func (d *Dashboard) ConfirmDrawer() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.drawer == nil {
		return ErrNoDrawer
	}
	form := booking.FormFromDrawer(*d.drawer, d.flow, d.customerID, d.now())
	d.drawer = nil
	d.form = &form
	d.formGen++
	return nil
}

// Form returns the open booking form.
func (d *Dashboard) Form() (booking.Form, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.form == nil {
		return booking.Form{}, false
	}
	return *d.form, true
}

// DispatchForm applies a to the open booking form.
func (d *Dashboard) DispatchForm(a booking.FormAction) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.form == nil {
		return ErrNoForm
	}
	next := booking.ReduceForm(*d.form, a)
	d.form = &next
	return nil
}

// CloseForm discards the draft.
func (d *Dashboard) CloseForm() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.form = nil
	d.formGen++
}

// Creating reports whether a submission is in flight.
func (d *Dashboard) Creating() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.creatingLocked()
}

func (d *Dashboard) creatingLocked() bool {
	return d.creating && d.creatingGen == d.gen
}

// SubmitBooking validates the form and creates the booking. Validation
// failures never reach the network. On failure the form stays open.
func (d *Dashboard) SubmitBooking(ctx context.Context) error {
	d.mu.Lock()
	if d.creatingLocked() {
		d.mu.Unlock()
		return ErrBusy
	}
	if d.form == nil {
		d.mu.Unlock()
		return ErrNoForm
	}
	form := *d.form
	d.mu.Unlock()

	if err := booking.Validate(form, d.flow); err != nil {
		d.alert(err.Error())
		return err
	}
	req, err := booking.Request(form)
	if err != nil {
		d.alert(err.Error())
		return err
	}

	d.mu.Lock()
	if d.creatingLocked() {
		d.mu.Unlock()
		return ErrBusy
	}
	gen, formGen := d.gen, d.formGen
	d.creating, d.creatingGen = true, gen
	d.mu.Unlock()
	defer d.endCreating(gen)

	created, err := d.bookings.Create(ctx, req)
	if err != nil {
		log.WithFields(log.Fields{"driver_id": req.DriverProfileID, "flow": d.flow}).WithError(err).Error("Failed to create booking")
		if d.formCurrent(gen, formGen) {
			d.alert(apiclient.UserMessage(err))
		}
		return err
	}

	summary := optimisticBooking(created, form, req, d.now())
	d.store.PrependBooking(summary)

	if !d.formCurrent(gen, formGen) {
		log.WithField("booking_id", summary.ID).Debug("Form changed before booking was created; leaving it open")
		return nil
	}
	d.mu.Lock()
	d.form = nil
	d.formGen++
	d.mu.Unlock()

	d.banner.Notify(ctx, notify.Event{Kind: notify.KindBookingCreated, BookingID: summary.ID, Message: BookingCreatedMessage})
	return nil
}

func (d *Dashboard) endCreating(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.creatingGen == gen {
		d.creating = false
	}
}

func (d *Dashboard) formCurrent(gen, formGen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mounted && d.gen == gen && d.formGen == formGen
}

// optimisticBooking is the local summary shown until the next refetch.
// Servers that omit the new id get a provisional ObjectID.
func optimisticBooking(created *services.CreatedBooking, form booking.Form, req models.CreateBookingRequest, now time.Time) models.ApiBooking {
	driver := models.DriverSummary{
		ID:          form.DriverProfileID,
		DisplayName: form.DriverName,
		HourlyRate:  models.Number(form.HourlyRate),
	}

	if created != nil && created.Booking != nil {
		b := *created.Booking
		if b.Status == "" {
			b.Status = models.BookingPending
		}
		if b.PaymentStatus == "" {
			b.PaymentStatus = models.PaymentPending
		}
		if b.Driver.Name() == "" && b.Driver.HourlyRate == 0 {
			b.Driver = driver
		}
		return b
	}

	id := ""
	if created != nil {
		id = created.ID
	}
	if id == "" {
		id = primitive.NewObjectID().Hex()
	}
	return models.ApiBooking{
		ID:              id,
		Driver:          driver,
		Customer:        models.UserRef{ID: req.CustomerID, FullName: form.CustomerName},
		StartAt:         req.StartAt,
		EndAt:           req.EndAt,
		PickupLocation:  &models.LocationSummary{Label: req.PickupLocation.Label, Address: req.PickupLocation.Address},
		DropoffLocation: &models.LocationSummary{Label: req.DropoffLocation.Label, Address: req.DropoffLocation.Address},
		Pricing: models.BookingPricing{
			HoursRequested: models.Number(req.Pricing.HoursRequested),
			Currency:       req.Pricing.Currency,
		},
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentPending,
		Notes:         req.Notes,
		CreatedAt:     now,
		PendingSync:   true,
	}
}
