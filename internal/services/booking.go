package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-rental-console/internal/apiclient"
	"github.com/ukydev/fleet-rental-console/internal/models"
	"github.com/ukydev/fleet-rental-console/internal/normalize"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvalidBookingID = errors.New("invalid booking ID")

// CreatedBooking is the result of creating a booking. Booking is nil when
// the server did not echo the resource back.
type CreatedBooking struct {
	ID      string
	Booking *models.ApiBooking
}

// BookingDriverService wraps the /driver-bookings endpoints.
type BookingDriverService struct {
	client *apiclient.Client
}

// NewBookingDriverService creates a BookingDriverService.
func NewBookingDriverService(client *apiclient.Client) *BookingDriverService {
	return &BookingDriverService{client: client}
}

// Create submits a new driver booking.
func (s *BookingDriverService) Create(ctx context.Context, req models.CreateBookingRequest) (*CreatedBooking, error) {
	var raw json.RawMessage
	if err := s.client.Post(ctx, "/driver-bookings", req, &raw); err != nil {
		return nil, err
	}

	created := &CreatedBooking{ID: normalize.CreatedID(raw)}
	if b, ok := normalize.Object[models.ApiBooking](raw); ok && b.ID != "" {
		created.Booking = &b
	}

	log.WithFields(log.Fields{
		"booking_id": created.ID,
		"driver_id":  req.DriverProfileID,
		"hours":      req.Pricing.HoursRequested,
	}).Info("Created driver booking")
	return created, nil
}

// ListMine returns the current user's bookings. Unrecognised envelopes
// yield an empty list.
func (s *BookingDriverService) ListMine(ctx context.Context) ([]models.ApiBooking, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, "/driver-bookings/me", &raw); err != nil {
		return nil, err
	}
	return normalize.Bookings(raw), nil
}

// ConfirmPayment moves an accepted booking to paid.
func (s *BookingDriverService) ConfirmPayment(ctx context.Context, id string) (*models.ApiBooking, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBookingID, id)
	}

	var raw json.RawMessage
	if err := s.client.Patch(ctx, "/driver-bookings/me/"+id+"/confirm-payment", nil, &raw); err != nil {
		return nil, err
	}

	log.WithField("booking_id", id).Info("Confirmed booking payment")
	if b, ok := normalize.Object[models.ApiBooking](raw); ok && b.ID != "" {
		return &b, nil
	}
	return nil, nil
}
