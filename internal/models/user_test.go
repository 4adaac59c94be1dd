package models

import (
	"testing"
	"time"
)

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"admin role", RoleAdmin, true},
		{"agent role", RoleAgent, true},
		{"customer role", RoleCustomer, true},
		{"driver role", RoleDriver, true},
		{"invalid role", "invalid", false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidRole(tt.role)
			if result != tt.expected {
				t.Errorf("IsValidRole(%s) = %v, want %v", tt.role, result, tt.expected)
			}
		})
	}
}

func TestUser_Matches(t *testing.T) {
	user := User{
		ID:          "u1",
		FullName:    "Amina Okafor",
		Email:       "amina@example.com",
		PhoneNumber: "+234 800 111",
		Roles:       []string{"customer"},
	}

	tests := []struct {
		name     string
		query    string
		expected bool
	}{
		{"empty query", "", true},
		{"whitespace query", "   ", true},
		{"name case-insensitive", "AMINA", true},
		{"surname substring", "kafo", true},
		{"email", "example.com", true},
		{"phone number", "800", true},
		{"role", "Cust", true},
		{"no match", "driver", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := user.Matches(tt.query); got != tt.expected {
				t.Errorf("Matches(%q) = %v, want %v", tt.query, got, tt.expected)
			}
		})
	}
}

func TestUser_ContactPhone(t *testing.T) {
	if got := (User{Phone: "1", PhoneNumber: "2"}).ContactPhone(); got != "1" {
		t.Errorf("expected phone to win, got %s", got)
	}
	if got := (User{PhoneNumber: "2"}).ContactPhone(); got != "2" {
		t.Errorf("expected phone_number fallback, got %s", got)
	}
}

func TestUser_HasRole(t *testing.T) {
	u := User{Roles: []string{"Customer", "agent"}}
	if !u.HasRole(RoleCustomer) || !u.HasRole(RoleAgent) {
		t.Errorf("expected roles to match case-insensitively")
	}
	if u.HasRole(RoleAdmin) {
		t.Errorf("unexpected admin role")
	}
}

func TestClaims_Expired(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	if (Claims{}).Expired(now) {
		t.Errorf("claims without expiry should not expire")
	}
	if !(Claims{Exp: now}).Expired(now) {
		t.Errorf("claims expiring now should be expired")
	}
	if (Claims{Exp: now.Add(time.Minute)}).Expired(now) {
		t.Errorf("future expiry should not be expired")
	}
}
