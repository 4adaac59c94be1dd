// Package normalize turns the API's inconsistent list envelopes into typed
// slices. It is the only place that knows about envelope shapes.
package normalize

import (
	"encoding/json"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-rental-console/internal/models"
)

// Shape describes where a list may live and what its elements look like.
type Shape struct {
	// Key is the envelope field that holds the list, e.g. "users".
	Key string
	// NameFields are the fields of which an element must carry at least one
	// for a nested array to be accepted by the recursive search.
	NameFields []string
}

var (
	UserShape        = Shape{Key: "users", NameFields: []string{"full_name", "name", "username", "email"}}
	BookingShape     = Shape{Key: "bookings", NameFields: []string{"status"}}
	DriverShape      = Shape{Key: "drivers", NameFields: []string{"display_name", "user_id"}}
	VehicleShape     = Shape{Key: "vehicles", NameFields: []string{"make", "model"}}
	ReservationShape = Shape{Key: "reservations", NameFields: []string{"vehicle_id", "status"}}
)

var identityFields = []string{"_id", "id"}

// List finds the list in v. Attempts run in a fixed order and the first
// non-empty array wins:
//
//	v.data.<key>, v.data, v, v.<key>, v.items, then a depth-first search
//	for an array of objects that all carry an identity and a name field.
//
// List never mutates v and returns an empty, non-nil slice when nothing fits.
func List(v interface{}, shape Shape) []interface{} {
	for _, c := range candidates(v, shape) {
		if arr, ok := c.([]interface{}); ok && len(arr) > 0 {
			return arr
		}
	}

	if found := search(v, shape); found != nil {
		return found
	}
	return []interface{}{}
}

func candidates(v interface{}, shape Shape) []interface{} {
	root, _ := v.(map[string]interface{})
	data := field(root, "data")
	dataObj, _ := data.(map[string]interface{})
	return []interface{}{
		field(dataObj, shape.Key),
		data,
		v,
		field(root, shape.Key),
		field(root, "items"),
	}
}

// hasList reports whether any envelope position of v holds an array, even
// an empty one.
func hasList(v interface{}, shape Shape) bool {
	for _, c := range candidates(v, shape) {
		if _, ok := c.([]interface{}); ok {
			return true
		}
	}
	return false
}

func field(obj map[string]interface{}, key string) interface{} {
	if obj == nil {
		return nil
	}
	return obj[key]
}

// search walks v depth-first, visiting object keys in sorted order so the
// result does not depend on map iteration order.
func search(v interface{}, shape Shape) []interface{} {
	switch node := v.(type) {
	case []interface{}:
		if matchesShape(node, shape) {
			return node
		}
		for _, child := range node {
			if found := search(child, shape); found != nil {
				return found
			}
		}
	case map[string]interface{}:
		keys := make([]string, 0, len(node))
		for k := range node {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if found := search(node[k], shape); found != nil {
				return found
			}
		}
	}
	return nil
}

func matchesShape(arr []interface{}, shape Shape) bool {
	if len(arr) == 0 {
		return false
	}
	for _, el := range arr {
		obj, ok := el.(map[string]interface{})
		if !ok || !hasAny(obj, identityFields) || !hasAny(obj, shape.NameFields) {
			return false
		}
	}
	return true
}

func hasAny(obj map[string]interface{}, keys []string) bool {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return true
		}
	}
	return false
}

// Parse decodes a raw response into a generic value. Undecodable input
// yields nil, which every extractor treats as an empty response.
func Parse(raw []byte) interface{} {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		log.WithError(err).Warn("Response is not valid JSON, treating as empty")
		return nil
	}
	return v
}

// Decode converts the elements found for shape into T, skipping elements
// that do not decode.
func Decode[T any](raw []byte, shape Shape) []T {
	v := Parse(raw)
	items := List(v, shape)
	out := make([]T, 0, len(items))
	for i, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			continue
		}
		var t T
		if err := json.Unmarshal(data, &t); err != nil {
			log.WithFields(log.Fields{"shape": shape.Key, "index": i}).WithError(err).Warn("Skipping malformed list element")
			continue
		}
		out = append(out, t)
	}
	if len(items) == 0 && len(raw) > 0 && !hasList(v, shape) {
		log.WithField("shape", shape.Key).Warn("No list found in response")
	}
	return out
}

// Users extracts platform users from any users-endpoint response.
func Users(raw []byte) []models.User {
	return Decode[models.User](raw, UserShape)
}

// Bookings extracts driver bookings.
func Bookings(raw []byte) []models.ApiBooking {
	return Decode[models.ApiBooking](raw, BookingShape)
}

// Drivers extracts driver profiles.
func Drivers(raw []byte) []models.Driver {
	return Decode[models.Driver](raw, DriverShape)
}

// Vehicles extracts rental vehicles.
func Vehicles(raw []byte) []models.Vehicle {
	return Decode[models.Vehicle](raw, VehicleShape)
}

// Reservations extracts vehicle reservations.
func Reservations(raw []byte) []models.Reservation {
	return Decode[models.Reservation](raw, ReservationShape)
}

// CreatedID returns the id of a freshly created resource, which the API
// puts either under data._id or at the top level.
func CreatedID(raw []byte) string {
	root, _ := Parse(raw).(map[string]interface{})
	if data, ok := field(root, "data").(map[string]interface{}); ok {
		if id, ok := data["_id"].(string); ok && id != "" {
			return id
		}
	}
	if id, ok := field(root, "_id").(string); ok {
		return id
	}
	return ""
}

// Object returns the single resource in raw, unwrapping a data envelope.
func Object[T any](raw []byte) (T, bool) {
	var zero T
	v := Parse(raw)
	root, ok := v.(map[string]interface{})
	if !ok {
		return zero, false
	}
	target := interface{}(root)
	if data, ok := root["data"].(map[string]interface{}); ok {
		target = data
	}
	data, err := json.Marshal(target)
	if err != nil {
		return zero, false
	}
	var t T
	if err := json.Unmarshal(data, &t); err != nil {
		log.WithError(err).Warn("Response object did not decode")
		return zero, false
	}
	return t, true
}
