package store

import (
	"github.com/ukydev/fleet-rental-console/internal/booking"
	"github.com/ukydev/fleet-rental-console/internal/models"
)

// SelectDrivers returns a copy of the cached drivers.
func SelectDrivers(s *Store) []models.Driver {
	return append([]models.Driver(nil), s.Drivers.Get().Data...)
}

// SelectDriversStatus returns the load status of the drivers slice.
func SelectDriversStatus(s *Store) Status { return s.Drivers.Get().Status }

// SelectDriversError returns the last drivers load error message.
func SelectDriversError(s *Store) string { return s.Drivers.Get().Error }

// SelectBookableDrivers applies the driver grid filter to the cached drivers.
func SelectBookableDrivers(s *Store, f booking.DriverFilter) []models.Driver {
	return booking.FilterDrivers(s.Drivers.Get().Data, f)
}

// SelectBookings returns a copy of the cached bookings.
func SelectBookings(s *Store) []models.ApiBooking {
	return append([]models.ApiBooking(nil), s.Bookings.Get().Data...)
}

// SelectBookingsStatus returns the load status of the bookings slice.
func SelectBookingsStatus(s *Store) Status { return s.Bookings.Get().Status }

// SelectBookingsError returns the last bookings load error message.
func SelectBookingsError(s *Store) string { return s.Bookings.Get().Error }

// SelectProfile returns a copy of the cached profile, or nil.
func SelectProfile(s *Store) *models.Profile {
	p := s.Profile.Get().Data
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// SelectProfileStatus returns the load status of the profile slice.
func SelectProfileStatus(s *Store) Status { return s.Profile.Get().Status }

// SelectVehicles returns a copy of the cached vehicles.
func SelectVehicles(s *Store) []models.Vehicle {
	return append([]models.Vehicle(nil), s.Vehicles.Get().Data...)
}

// SelectReservations returns a copy of the cached reservations.
func SelectReservations(s *Store) []models.Reservation {
	return append([]models.Reservation(nil), s.Reservations.Get().Data...)
}

// SelectReservationQuotes prices each cached reservation.
func SelectReservationQuotes(s *Store) map[string]booking.Quote {
	res := s.Reservations.Get().Data
	out := make(map[string]booking.Quote, len(res))
	for _, r := range res {
		out[r.ID] = booking.QuoteVehicle(r.Pricing)
	}
	return out
}
