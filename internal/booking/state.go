package booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ukydev/fleet-rental-console/internal/apiclient"
	"github.com/ukydev/fleet-rental-console/internal/models"
)

// State is the pair of server-owned status fields of a booking.
type State struct {
	Status  models.BookingStatus
	Payment models.PaymentStatus
}

// StateOf reads the state of b.
func StateOf(b models.ApiBooking) State {
	return State{Status: b.Status, Payment: b.PaymentStatus}
}

// Event is something that moves a booking between states.
type Event string

const (
	// EventDriverAccepted happens server-side when the driver accepts.
	EventDriverAccepted Event = "driver_accepted"
	// EventPaymentConfirmed is the one transition this client triggers.
	EventPaymentConfirmed Event = "payment_confirmed"
	// EventPaymentFailed records a failed charge; the booking stays accepted.
	EventPaymentFailed Event = "payment_failed"
	// EventCancelled is the side exit from any unpaid state.
	EventCancelled Event = "cancelled"
)

// ErrRejectedTransition is returned by Next for moves absent from the table.
var ErrRejectedTransition = errors.New("transition not allowed")

type transitionKey struct {
	from  State
	event Event
}

// transitions lists every allowed move. Anything absent is rejected.
var transitions = map[transitionKey]State{
	{State{models.BookingPending, models.PaymentPending}, EventDriverAccepted}:    {models.BookingAccepted, models.PaymentPending},
	{State{models.BookingAccepted, models.PaymentPending}, EventPaymentConfirmed}: {models.BookingPaid, models.PaymentCompleted},
	{State{models.BookingAccepted, models.PaymentPending}, EventPaymentFailed}:    {models.BookingAccepted, models.PaymentFailed},
	{State{models.BookingPending, models.PaymentPending}, EventCancelled}:         {models.BookingCancelled, models.PaymentPending},
	{State{models.BookingAccepted, models.PaymentPending}, EventCancelled}:        {models.BookingCancelled, models.PaymentPending},
	{State{models.BookingAccepted, models.PaymentFailed}, EventCancelled}:         {models.BookingCancelled, models.PaymentFailed},
}

// Next returns the state reached from cur by ev.
func Next(cur State, ev Event) (State, error) {
	next, ok := transitions[transitionKey{from: cur, event: ev}]
	if !ok {
		return cur, fmt.Errorf("%w: %s/%s on %s", ErrRejectedTransition, cur.Status, cur.Payment, ev)
	}
	return next, nil
}

// CanConfirmPayment reports whether the client may offer payment for s.
func CanConfirmPayment(s State) bool {
	_, err := Next(s, EventPaymentConfirmed)
	return err == nil
}

// Outcome is what clicking a booking card does.
type Outcome int

const (
	// OutcomeNone leaves the page as it is.
	OutcomeNone Outcome = iota
	// OutcomeOpenPayment opens the payment modal.
	OutcomeOpenPayment
	// OutcomeAwaitingAcceptance means the driver has not accepted yet.
	OutcomeAwaitingAcceptance
	// OutcomeAlreadyPaid means there is nothing left to pay.
	OutcomeAlreadyPaid
	// OutcomeCancelled means the booking was cancelled.
	OutcomeCancelled
)

// Click decides what a click on a booking card in state s does, with the
// message to show when nothing opens.
func Click(s State) (Outcome, string) {
	if CanConfirmPayment(s) {
		return OutcomeOpenPayment, ""
	}
	switch s.Status {
	case models.BookingPending:
		return OutcomeAwaitingAcceptance, "This booking is awaiting driver acceptance."
	case models.BookingPaid:
		return OutcomeAlreadyPaid, "This booking has already been paid."
	case models.BookingCancelled:
		return OutcomeCancelled, "This booking was cancelled."
	case models.BookingAccepted:
		if s.Payment == models.PaymentCompleted {
			return OutcomeAlreadyPaid, "This booking has already been paid."
		}
		return OutcomeNone, "Payment for this booking cannot be confirmed right now."
	}
	return OutcomeNone, "This booking cannot be updated."
}

// NotAcceptedMessage is shown when the server refuses payment because the
// driver has not accepted yet.
const NotAcceptedMessage = "The driver has not accepted this booking yet. You can pay once it is accepted."

// ErrDriverNotAccepted is the kind of a payment refused before driver acceptance.
var ErrDriverNotAccepted = errors.New(NotAcceptedMessage)

const notAcceptedMarker = "booking must be accepted by driver"

// PaymentError is a classified payment confirmation failure.
type PaymentError struct {
	Kind    error
	Message string
	Err     error
}

func (e *PaymentError) Error() string { return e.Message }

func (e *PaymentError) Unwrap() []error { return []error{e.Kind, e.Err} }

// ErrPaymentFailed is the kind of every payment failure without a specific message.
var ErrPaymentFailed = errors.New("payment confirmation failed")

// ClassifyPaymentError maps a confirm-payment failure to a user-facing
// error. The "not accepted by driver" rejection gets its own message.
func ClassifyPaymentError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(strings.ToLower(err.Error()), notAcceptedMarker) {
		return &PaymentError{Kind: ErrDriverNotAccepted, Message: NotAcceptedMessage, Err: err}
	}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Body != nil {
		if body, ok := apiErr.Body.(string); ok && strings.Contains(strings.ToLower(body), notAcceptedMarker) {
			return &PaymentError{Kind: ErrDriverNotAccepted, Message: NotAcceptedMessage, Err: err}
		}
	}
	msg := apiclient.UserMessage(err)
	if msg == apiclient.GenericMessage {
		msg = "Payment confirmation failed. Please try again."
	}
	return &PaymentError{Kind: ErrPaymentFailed, Message: msg, Err: err}
}
