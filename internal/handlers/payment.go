package handlers

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-rental-console/internal/booking"
	"github.com/ukydev/fleet-rental-console/internal/models"
	"github.com/ukydev/fleet-rental-console/internal/notify"
)

// PaymentView is what the payment modal shows.
type PaymentView struct {
	BookingID  string
	DriverName string
	Hours      int
	HourlyRate float64
	Total      float64
	Currency   string
	Display    string
}

// ClickBooking handles a click on a booking card. Only accepted bookings
// awaiting payment open the payment modal; other states raise the matching
// message. Clicking the booking that is already open does nothing.
func (d *Dashboard) ClickBooking(id string) (booking.Outcome, error) {
	b, ok := d.store.FindBooking(id)
	if !ok {
		return booking.OutcomeNone, ErrUnknownBooking
	}

	outcome, msg := booking.Click(booking.StateOf(b))
	if outcome != booking.OutcomeOpenPayment {
		d.alert(msg)
		return outcome, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.payment != nil && d.payment.ID == id {
		return outcome, nil
	}
	if d.confirmingLocked() {
		return outcome, ErrBusy
	}
	d.payment = &b
	d.paymentGen++
	return outcome, nil
}

// PaymentView returns the open payment modal, priced fresh from the
// booking's hours and the driver's rate.
func (d *Dashboard) PaymentView() (PaymentView, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.payment == nil {
		return PaymentView{}, false
	}
	return paymentView(*d.payment), true
}

func paymentView(b models.ApiBooking) PaymentView {
	currency := b.Pricing.Currency
	if currency == "" {
		currency = booking.Currency
	}
	hours := b.Pricing.HoursRequested.Int()
	rate := b.Driver.HourlyRate.Float()
	total := booking.Total(hours, rate)
	return PaymentView{
		BookingID:  b.ID,
		DriverName: b.Driver.Name(),
		Hours:      hours,
		HourlyRate: rate,
		Total:      total,
		Currency:   currency,
		Display:    booking.FormatAmount(total, currency),
	}
}

// Confirming reports whether a payment confirmation is in flight.
func (d *Dashboard) Confirming() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.confirmingLocked()
}

func (d *Dashboard) confirmingLocked() bool {
	return d.confirming && d.confirmingGen == d.gen
}

// ConfirmPayment confirms payment of the booking in the open modal. On
// success the cached booking is moved to paid and the modal closes.
func (d *Dashboard) ConfirmPayment(ctx context.Context) error {
	d.mu.Lock()
	if d.confirmingLocked() {
		d.mu.Unlock()
		return ErrBusy
	}
	if d.payment == nil {
		d.mu.Unlock()
		return ErrNoPayment
	}
	id := d.payment.ID
	gen, paymentGen := d.gen, d.paymentGen
	d.confirming, d.confirmingGen = true, gen
	d.mu.Unlock()
	defer d.endConfirming(gen)

	if _, err := d.bookings.ConfirmPayment(ctx, id); err != nil {
		classified := booking.ClassifyPaymentError(err)
		log.WithField("booking_id", id).WithError(err).Error("Failed to confirm payment")
		if d.paymentCurrent(gen, paymentGen) {
			d.alert(classified.Error())
		}
		return classified
	}

	if !d.store.PatchBooking(id, booking.EventPaymentConfirmed) {
		log.WithField("booking_id", id).Warn("Cached booking could not be patched; waiting for refetch")
	}

	if !d.paymentCurrent(gen, paymentGen) {
		log.WithField("booking_id", id).Debug("Payment modal changed before confirmation returned")
		return nil
	}
	d.mu.Lock()
	d.payment = nil
	d.paymentGen++
	d.mu.Unlock()

	d.banner.Notify(ctx, notify.Event{Kind: notify.KindPaymentConfirmed, BookingID: id, Message: PaymentDoneMessage})
	return nil
}

// ClosePayment closes the payment modal.
func (d *Dashboard) ClosePayment() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.payment = nil
	d.paymentGen++
}

func (d *Dashboard) endConfirming(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.confirmingGen == gen {
		d.confirming = false
	}
}

func (d *Dashboard) paymentCurrent(gen, paymentGen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mounted && d.gen == gen && d.paymentGen == paymentGen
}
