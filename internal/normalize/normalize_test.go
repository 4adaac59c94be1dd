package normalize

import (
	"encoding/json"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, s string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func ids(t *testing.T, items []interface{}) []string {
	t.Helper()
	out := make([]string, 0, len(items))
	for _, it := range items {
		obj, ok := it.(map[string]interface{})
		require.True(t, ok)
		out = append(out, obj["_id"].(string))
	}
	return out
}

func TestList_PriorityOrder(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected []string
	}{
		{
			name:     "data.users wins over everything",
			body:     `{"data":{"users":[{"_id":"a","full_name":"A"}]},"users":[{"_id":"z","full_name":"Z"}]}`,
			expected: []string{"a"},
		},
		{
			name:     "data as direct array",
			body:     `{"data":[{"_id":"b","full_name":"B"}],"users":[{"_id":"z","full_name":"Z"}]}`,
			expected: []string{"b"},
		},
		{
			name:     "response as direct array",
			body:     `[{"_id":"c","full_name":"C"}]`,
			expected: []string{"c"},
		},
		{
			name:     "top-level users",
			body:     `{"users":[{"_id":"d","full_name":"D"}],"items":[{"_id":"z","full_name":"Z"}]}`,
			expected: []string{"d"},
		},
		{
			name:     "top-level items",
			body:     `{"items":[{"_id":"e","full_name":"E"}]}`,
			expected: []string{"e"},
		},
		{
			name:     "empty data.users falls through",
			body:     `{"data":{"users":[]},"items":[{"_id":"f","full_name":"F"}]}`,
			expected: []string{"f"},
		},
		{
			name:     "recursive search",
			body:     `{"result":{"page":1,"payload":{"rows":[{"_id":"g","email":"g@example.com"}]}}}`,
			expected: []string{"g"},
		},
		{
			name:     "recursive search skips arrays without identity",
			body:     `{"a":{"tags":[{"full_name":"no id"}]},"b":{"people":[{"_id":"h","name":"H"}]}}`,
			expected: []string{"h"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := List(parse(t, tt.body), UserShape)
			assert.Equal(t, tt.expected, ids(t, got))
		})
	}
}

func TestList_IsTotal(t *testing.T) {
	inputs := []string{
		`null`,
		`{}`,
		`[]`,
		`"text"`,
		`42`,
		`true`,
		`{"data":null}`,
		`{"data":{"users":null}}`,
		`{"a":{"b":{"c":{"d":{"e":"deep"}}}}}`,
		`{"a":[1,2,3]}`,
		`{"a":[[],[{}]]}`,
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			var got []interface{}
			assert.NotPanics(t, func() { got = List(parse(t, in), UserShape) })
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestList_DoesNotMutateInput(t *testing.T) {
	body := `{"wrapper":{"list":[{"_id":"x","full_name":"X"}]},"data":{"users":[]}}`
	v := parse(t, body)
	before, err := json.Marshal(v)
	require.NoError(t, err)

	List(v, UserShape)

	after, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestList_Deterministic(t *testing.T) {
	body := `{"zeta":{"rows":[{"_id":"z","full_name":"Z"}]},"alpha":{"rows":[{"_id":"a","full_name":"A"}]},"mid":[{"_id":"m","name":"M"}]}`
	v := parse(t, body)
	first := ids(t, List(v, UserShape))
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, ids(t, List(v, UserShape)))
	}
	assert.Equal(t, []string{"a"}, first)
}

func TestUsers_DecodesAndSkipsMalformed(t *testing.T) {
	raw := []byte(`{"data":{"users":[
		{"_id":"u1","full_name":"Amina","phone_number":"123","roles":["customer"]},
		{"_id":"u2","full_name":"Ben","roles":"not-a-list"},
		{"_id":"u3","full_name":"Cleo","roles":[]}
	]}}`)
	users := Users(raw)
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].ID)
	assert.Equal(t, "123", users[0].ContactPhone())
	assert.Equal(t, "u3", users[1].ID)
}

func TestExtractors_EmptyOnGarbage(t *testing.T) {
	for _, raw := range [][]byte{nil, []byte(""), []byte("not json"), []byte("null"), []byte("{}")} {
		assert.Empty(t, Users(raw))
		assert.Empty(t, Bookings(raw))
		assert.Empty(t, Drivers(raw))
		assert.Empty(t, Vehicles(raw))
		assert.Empty(t, Reservations(raw))
	}
}

func TestDecode_WarnsOnlyWhenNoListFound(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	assert.Empty(t, Drivers([]byte(`{"ok":true,"count":0}`)))
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, log.WarnLevel, entry.Level)
	assert.Equal(t, "No list found in response", entry.Message)
	assert.Equal(t, "drivers", entry.Data["shape"])

	hook.Reset()
	assert.Empty(t, Bookings([]byte(`{"data":[]}`)))
	assert.Empty(t, Vehicles([]byte(`{"data":{"vehicles":[]}}`)))
	assert.Nil(t, hook.LastEntry(), "an empty list is not a shape anomaly")
}

func TestBookings_NestedEnvelope(t *testing.T) {
	raw := []byte(`{"success":true,"data":{"bookings":[{"_id":"b1","status":"pending","payment_status":"pending"}]}}`)
	bookings := Bookings(raw)
	require.Len(t, bookings, 1)
	assert.Equal(t, "b1", bookings[0].ID)
}

func TestBookings_RecursiveSearchNeedsStatus(t *testing.T) {
	raw := []byte(`{"meta":{"owners":[{"_id":"u1","full_name":"A"}]},"result":{"rows":[{"_id":"b9","status":"paid"}]}}`)
	bookings := Bookings(raw)
	require.Len(t, bookings, 1)
	assert.Equal(t, "b9", bookings[0].ID)
}

func TestCreatedID(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"data envelope", `{"data":{"_id":"b1"}}`, "b1"},
		{"top level", `{"_id":"b2","status":"pending"}`, "b2"},
		{"data wins", `{"data":{"_id":"b3"},"_id":"b4"}`, "b3"},
		{"missing", `{"ok":true}`, ""},
		{"garbage", `nope`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CreatedID([]byte(tt.body)))
		})
	}
}

func TestObject(t *testing.T) {
	type profile struct {
		ID string `json:"_id"`
	}
	p, ok := Object[profile]([]byte(`{"data":{"_id":"p1"}}`))
	require.True(t, ok)
	assert.Equal(t, "p1", p.ID)

	p, ok = Object[profile]([]byte(`{"_id":"p2"}`))
	require.True(t, ok)
	assert.Equal(t, "p2", p.ID)

	_, ok = Object[profile]([]byte(`[]`))
	assert.False(t, ok)
}
