package models

import (
	"strings"
	"time"
)

// Role is a platform role carried in session claims and user records.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleAgent    Role = "agent"
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
)

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleAgent, RoleCustomer, RoleDriver:
		return true
	default:
		return false
	}
}

// User is a platform user, used when an agent books on behalf of a customer.
type User struct {
	ID          string   `json:"_id"`
	FullName    string   `json:"full_name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone,omitempty"`
	PhoneNumber string   `json:"phone_number,omitempty"`
	Roles       []string `json:"roles"`
}

// ContactPhone returns whichever phone field the API filled in.
func (u User) ContactPhone() string {
	if u.Phone != "" {
		return u.Phone
	}
	return u.PhoneNumber
}

// HasRole reports whether the user carries role.
func (u User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if strings.EqualFold(r, string(role)) {
			return true
		}
	}
	return false
}

// Matches is a case-insensitive substring match on name, email, phone and roles.
// An empty query matches everyone.
func (u User) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	fields := []string{u.FullName, u.Email, u.Phone, u.PhoneNumber}
	fields = append(fields, u.Roles...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Session is the locally persisted login: a token and the user it belongs to.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Claims represents JWT claims
type Claims struct {
	UserID string    `json:"user_id"`
	Role   Role      `json:"role"`
	Exp    time.Time `json:"exp"`
}

// Expired reports whether the claims carry an expiry that has passed.
func (c Claims) Expired(now time.Time) bool {
	return !c.Exp.IsZero() && !now.Before(c.Exp)
}
