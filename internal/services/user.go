package services

import (
	"context"
	"encoding/json"

	"github.com/ukydev/fleet-rental-console/internal/apiclient"
	"github.com/ukydev/fleet-rental-console/internal/models"
	"github.com/ukydev/fleet-rental-console/internal/normalize"
)

// UserService lists platform users for customer selection.
type UserService struct {
	client *apiclient.Client
}

// NewUserService creates a UserService.
func NewUserService(client *apiclient.Client) *UserService {
	return &UserService{client: client}
}

// List returns all platform users, whatever envelope the API used.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, "/users", &raw); err != nil {
		return nil, err
	}
	return normalize.Users(raw), nil
}
