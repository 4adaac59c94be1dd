package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"github.com/ukydev/fleet-rental-console/internal/apiclient"
	"github.com/ukydev/fleet-rental-console/internal/models"
	"github.com/ukydev/fleet-rental-console/internal/normalize"
)

var (
	ErrInvalidRole     = errors.New("invalid role")
	ErrMissingProfile  = errors.New("profile ID is required")
	ErrUnreadableReply = errors.New("profile response could not be read")
)

// ProfileService manages the current user's role profiles.
type ProfileService struct {
	client *apiclient.Client
}

// NewProfileService creates a ProfileService.
func NewProfileService(client *apiclient.Client) *ProfileService {
	return &ProfileService{client: client}
}

// CreateSelf creates a profile for the current user.
func (s *ProfileService) CreateSelf(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	if !models.IsValidRole(profile.Role) {
		return nil, ErrInvalidRole
	}
	var raw json.RawMessage
	if err := s.client.Post(ctx, "/profiles/self", profile, &raw); err != nil {
		return nil, err
	}
	return decodeProfile(raw)
}

// GetByRole fetches the current user's profile for role.
func (s *ProfileService) GetByRole(ctx context.Context, role models.Role) (*models.Profile, error) {
	if !models.IsValidRole(role) {
		return nil, ErrInvalidRole
	}
	var raw json.RawMessage
	if err := s.client.Get(ctx, "/profiles/me/"+url.PathEscape(string(role)), &raw); err != nil {
		return nil, err
	}
	return decodeProfile(raw)
}

// Update patches profile id.
func (s *ProfileService) Update(ctx context.Context, id string, update models.ProfileUpdate) (*models.Profile, error) {
	if id == "" {
		return nil, ErrMissingProfile
	}
	var raw json.RawMessage
	if err := s.client.Patch(ctx, "/profiles/"+url.PathEscape(id), update, &raw); err != nil {
		return nil, err
	}
	return decodeProfile(raw)
}

func decodeProfile(raw []byte) (*models.Profile, error) {
	p, ok := normalize.Object[models.Profile](raw)
	if !ok {
		return nil, ErrUnreadableReply
	}
	return &p, nil
}
