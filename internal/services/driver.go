package services

import (
	"context"
	"encoding/json"

	"github.com/ukydev/fleet-rental-console/internal/apiclient"
	"github.com/ukydev/fleet-rental-console/internal/models"
	"github.com/ukydev/fleet-rental-console/internal/normalize"
)

// DriverService lists public driver profiles.
type DriverService struct {
	client *apiclient.Client
}

// NewDriverService creates a DriverService.
func NewDriverService(client *apiclient.Client) *DriverService {
	return &DriverService{client: client}
}

// ListPublic returns every public driver profile.
func (s *DriverService) ListPublic(ctx context.Context) ([]models.Driver, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, "/driver-profiles/public", &raw); err != nil {
		return nil, err
	}
	return normalize.Drivers(raw), nil
}
