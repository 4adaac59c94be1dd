package models

import "time"

// DriverStatusApproved is the approval state that makes a driver bookable.
const DriverStatusApproved = "approved"

// UserRef is the user linked to a driver profile.
type UserRef struct {
	ID       string `json:"_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// UnmarshalJSON accepts either a bare user id or a populated user object.
func (u *UserRef) UnmarshalJSON(data []byte) error {
	type plain UserRef
	var p plain
	if err := decodeRef(data, &p.ID, &p); err != nil {
		return err
	}
	*u = UserRef(p)
	return nil
}

// Document is a verification artifact such as an identity document or licence.
type Document struct {
	Number   string `json:"number,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	Verified bool   `json:"verified"`
}

// Driver is a public driver profile.
type Driver struct {
	ID               string    `json:"_id"`
	User             UserRef   `json:"user_id"`
	DisplayName      string    `json:"display_name"`
	BaseCity         string    `json:"base_city"`
	BaseRegion       string    `json:"base_region"`
	BaseCountry      string    `json:"base_country"`
	Bio              string    `json:"bio"`
	YearsExperience  Number    `json:"years_experience"`
	Languages        []string  `json:"languages"`
	HourlyRate       Number    `json:"hourly_rate"`
	IdentityDocument *Document `json:"identity_document,omitempty"`
	DriverLicense    *Document `json:"driver_license,omitempty"`
	Status           string    `json:"status"`
	IsAvailable      bool      `json:"is_available"`
	RatingAverage    Number    `json:"rating_average"`
	RatingCount      Number    `json:"rating_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Bookable reports whether the driver can be booked right now.
func (d Driver) Bookable() bool {
	return d.Status == DriverStatusApproved && d.IsAvailable
}

// Name returns the display name, falling back to the linked user's full name.
func (d Driver) Name() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.User.FullName
}

// DriverSummary is the denormalized driver carried on a booking.
type DriverSummary struct {
	ID          string  `json:"_id"`
	User        UserRef `json:"user_id"`
	DisplayName string  `json:"display_name"`
	HourlyRate  Number  `json:"hourly_rate"`
}

// UnmarshalJSON accepts either a bare driver profile id or a populated object.
func (s *DriverSummary) UnmarshalJSON(data []byte) error {
	type plain DriverSummary
	var p plain
	if err := decodeRef(data, &p.ID, &p); err != nil {
		return err
	}
	*s = DriverSummary(p)
	return nil
}

// Name returns the display name, falling back to the linked user's full name.
func (s DriverSummary) Name() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.User.FullName
}
