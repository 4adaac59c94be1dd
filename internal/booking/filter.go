package booking

import (
	"strings"

	"github.com/ukydev/fleet-rental-console/internal/models"
)

// DriverFilter narrows the driver grid.
type DriverFilter struct {
	Search   string
	Location string
}

// FilterDrivers keeps available drivers that match the search text on
// display name, city or full name and, when set, whose base city equals
// Location ignoring case.
func FilterDrivers(drivers []models.Driver, f DriverFilter) []models.Driver {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	loc := strings.TrimSpace(f.Location)

	out := make([]models.Driver, 0, len(drivers))
	for _, d := range drivers {
		if !d.IsAvailable {
			continue
		}
		if loc != "" && !strings.EqualFold(d.BaseCity, loc) {
			continue
		}
		if q != "" && !containsAny(q, d.DisplayName, d.BaseCity, d.User.FullName) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func containsAny(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// SearchUsers returns the users matching query on name, email, phone or role.
func SearchUsers(users []models.User, query string) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.Matches(query) {
			out = append(out, u)
		}
	}
	return out
}
