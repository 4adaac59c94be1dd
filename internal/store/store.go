// Package store keeps the client-side copies of remote data and the thunks
// that load them.
package store

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-rental-console/internal/booking"
	"github.com/ukydev/fleet-rental-console/internal/models"
)

// DriverLister lists public driver profiles.
type DriverLister interface {
	ListPublic(ctx context.Context) ([]models.Driver, error)
}

// BookingLister lists the current user's driver bookings.
type BookingLister interface {
	ListMine(ctx context.Context) ([]models.ApiBooking, error)
}

// ProfileGetter fetches a role profile.
type ProfileGetter interface {
	GetByRole(ctx context.Context, role models.Role) (*models.Profile, error)
}

// VehicleLister lists the rental fleet and the user's reservations.
type VehicleLister interface {
	List(ctx context.Context) ([]models.Vehicle, error)
	ListReservations(ctx context.Context) ([]models.Reservation, error)
}

// Store is the single owner of remote data on the client. Bookings live
// here only; dashboards patch them through the booking methods.
type Store struct {
	Drivers      Slice[[]models.Driver]
	Profile      Slice[*models.Profile]
	Vehicles     Slice[[]models.Vehicle]
	Reservations Slice[[]models.Reservation]
	Bookings     Slice[[]models.ApiBooking]
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// FetchDrivers loads the public driver list.
func (s *Store) FetchDrivers(ctx context.Context, svc DriverLister) error {
	return logFailure("drivers", s.Drivers.Run(ctx, svc.ListPublic))
}

// FetchBookings loads the current user's bookings, replacing any locally
// patched copies with the server's.
func (s *Store) FetchBookings(ctx context.Context, svc BookingLister) error {
	return logFailure("bookings", s.Bookings.Run(ctx, svc.ListMine))
}

// FetchProfile loads the profile for role.
func (s *Store) FetchProfile(ctx context.Context, svc ProfileGetter, role models.Role) error {
	return logFailure("profile", s.Profile.Run(ctx, func(ctx context.Context) (*models.Profile, error) {
		return svc.GetByRole(ctx, role)
	}))
}

// FetchVehicles loads the rental fleet.
func (s *Store) FetchVehicles(ctx context.Context, svc VehicleLister) error {
	return logFailure("vehicles", s.Vehicles.Run(ctx, svc.List))
}

// FetchReservations loads the user's vehicle reservations.
func (s *Store) FetchReservations(ctx context.Context, svc VehicleLister) error {
	return logFailure("reservations", s.Reservations.Run(ctx, svc.ListReservations))
}

func logFailure(slice string, err error) error {
	if err != nil && err != ErrSuperseded {
		log.WithField("slice", slice).WithError(err).Warn("Failed to load data")
	}
	return err
}

// PrependBooking puts b at the top of the cached booking list.
func (s *Store) PrependBooking(b models.ApiBooking) {
	s.Bookings.Update(func(cur []models.ApiBooking) []models.ApiBooking {
		next := make([]models.ApiBooking, 0, len(cur)+1)
		next = append(next, b)
		return append(next, cur...)
	})
}

// PatchBooking moves the cached booking id through ev and marks it as
// pending sync. It reports false when the booking is not cached or the
// transition is not allowed; the cache is left unchanged then.
func (s *Store) PatchBooking(id string, ev booking.Event) bool {
	applied := false
	s.Bookings.Update(func(cur []models.ApiBooking) []models.ApiBooking {
		for i := range cur {
			if cur[i].ID != id {
				continue
			}
			next, err := booking.Next(booking.StateOf(cur[i]), ev)
			if err != nil {
				log.WithFields(log.Fields{"booking_id": id, "event": ev}).WithError(err).Warn("Skipping local booking patch")
				return cur
			}
			out := make([]models.ApiBooking, len(cur))
			copy(out, cur)
			out[i].Status = next.Status
			out[i].PaymentStatus = next.Payment
			out[i].PendingSync = true
			applied = true
			return out
		}
		return cur
	})
	return applied
}

// FindBooking returns the cached booking with id.
func (s *Store) FindBooking(id string) (models.ApiBooking, bool) {
	for _, b := range s.Bookings.Get().Data {
		if b.ID == id {
			return b, true
		}
	}
	return models.ApiBooking{}, false
}

// FindDriver returns the cached driver with id.
func (s *Store) FindDriver(id string) (models.Driver, bool) {
	for _, d := range s.Drivers.Get().Data {
		if d.ID == id {
			return d, true
		}
	}
	return models.Driver{}, false
}
