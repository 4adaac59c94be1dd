package services

import (
	"context"
	"encoding/json"

	"github.com/ukydev/fleet-rental-console/internal/apiclient"
	"github.com/ukydev/fleet-rental-console/internal/models"
	"github.com/ukydev/fleet-rental-console/internal/normalize"
)

// VehicleService covers the vehicle-rental listings.
type VehicleService struct {
	client *apiclient.Client
}

// NewVehicleService creates a VehicleService.
func NewVehicleService(client *apiclient.Client) *VehicleService {
	return &VehicleService{client: client}
}

// List returns the rental fleet.
func (s *VehicleService) List(ctx context.Context) ([]models.Vehicle, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, "/vehicles", &raw); err != nil {
		return nil, err
	}
	return normalize.Vehicles(raw), nil
}

// ListReservations returns the current user's vehicle reservations.
func (s *VehicleService) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, "/reservations/me", &raw); err != nil {
		return nil, err
	}
	return normalize.Reservations(raw), nil
}
