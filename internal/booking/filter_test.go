package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ukydev/fleet-rental-console/internal/models"
)

func sampleDrivers() []models.Driver {
	return []models.Driver{
		{ID: "d1", DisplayName: "Sam", BaseCity: "Lagos", IsAvailable: true, Status: "approved", User: models.UserRef{FullName: "Samuel Reyes"}},
		{ID: "d2", DisplayName: "Tola", BaseCity: "Abuja", IsAvailable: true, Status: "approved"},
		{ID: "d3", DisplayName: "Busy Bee", BaseCity: "Lagos", IsAvailable: false, Status: "approved"},
		{ID: "d4", DisplayName: "", BaseCity: "Lagos Island", IsAvailable: true, Status: "pending", User: models.UserRef{FullName: "Nkechi Obi"}},
	}
}

func driverIDs(ds []models.Driver) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.ID)
	}
	return out
}

func TestFilterDrivers(t *testing.T) {
	tests := []struct {
		name     string
		filter   DriverFilter
		expected []string
	}{
		{"no filter", DriverFilter{}, []string{"d1", "d2", "d4"}},
		{"search display name", DriverFilter{Search: "tol"}, []string{"d2"}},
		{"search full name", DriverFilter{Search: "reyes"}, []string{"d1"}},
		{"search city", DriverFilter{Search: "lagos"}, []string{"d1", "d4"}},
		{"location ignores case", DriverFilter{Location: "lagos"}, []string{"d1"}},
		{"location upper case", DriverFilter{Location: "LAGOS ISLAND"}, []string{"d4"}},
		{"location is not a substring match", DriverFilter{Location: "Lag"}, []string{}},
		{"search and location", DriverFilter{Search: "nkechi", Location: "Lagos Island"}, []string{"d4"}},
		{"busy driver by name", DriverFilter{Search: "busy"}, []string{}},
		{"busy driver by location", DriverFilter{Location: "Lagos", Search: "bee"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, driverIDs(FilterDrivers(sampleDrivers(), tt.filter)))
		})
	}
}

func TestFilterDrivers_NeverReturnsUnavailable(t *testing.T) {
	filters := []DriverFilter{{}, {Search: "b"}, {Location: "Lagos"}, {Search: "lagos", Location: "Lagos"}}
	for _, f := range filters {
		for _, d := range FilterDrivers(sampleDrivers(), f) {
			assert.True(t, d.IsAvailable, "filter %+v returned %s", f, d.ID)
		}
	}
}

func TestSearchUsers(t *testing.T) {
	users := []models.User{
		{ID: "u1", FullName: "Amina Okafor", Roles: []string{"customer"}},
		{ID: "u2", FullName: "Ben Cole", Email: "ben@fleet.io", Roles: []string{"agent"}},
	}
	assert.Len(t, SearchUsers(users, ""), 2)
	assert.Equal(t, "u2", SearchUsers(users, "FLEET")[0].ID)
	assert.Equal(t, "u1", SearchUsers(users, "customer")[0].ID)
	assert.Empty(t, SearchUsers(users, "zzz"))
}
