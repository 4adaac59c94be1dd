package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-rental-console/internal/models"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func writeSessionFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSessionStore_MissingFile(t *testing.T) {
	store := NewSessionStore(filepath.Join(t.TempDir(), "absent.json"))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Equal(t, "", store.GetAuthToken())
}

func TestSessionStore_UnparseableFile(t *testing.T) {
	store := NewSessionStore(writeSessionFile(t, "{not json"))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrInvalidSession)
	assert.Equal(t, "", store.GetAuthToken())
}

func TestSessionStore_MissingKey(t *testing.T) {
	store := NewSessionStore(writeSessionFile(t, `{"theme":"dark"}`))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionStore_ObjectValue(t *testing.T) {
	store := NewSessionStore(writeSessionFile(t,
		`{"fleet_rental_auth":{"token":"opaque-token","user":{"_id":"u1","full_name":"Amina"}}}`))

	session, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", session.Token)
	assert.Equal(t, "Amina", session.User.FullName)
	assert.Equal(t, "opaque-token", store.GetAuthToken())
}

func TestSessionStore_StringEncodedValue(t *testing.T) {
	store := NewSessionStore(writeSessionFile(t,
		`{"fleet_rental_auth":"{\"token\":\"abc\",\"user\":{\"_id\":\"u2\"}}"}`))

	user, err := store.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
	assert.Equal(t, "abc", store.GetAuthToken())
}

func TestSessionStore_ExpiredJWTIsIgnored(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"user_id": "u1",
		"role":    "customer",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	store := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Save(models.Session{Token: token}))

	assert.Equal(t, "", store.GetAuthToken())
}

func TestSessionStore_ValidJWT(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"sub":  "u42",
		"role": "agent",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	store := NewSessionStore(filepath.Join(t.TempDir(), "nested", "session.json"))
	require.NoError(t, store.Save(models.Session{Token: token}))

	assert.Equal(t, token, store.GetAuthToken())

	user, err := store.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, "u42", user.ID)
}

func TestSessionStore_SaveKeepsOtherKeys(t *testing.T) {
	path := writeSessionFile(t, `{"theme":"\"dark\""}`)
	store := NewSessionStore(path)
	require.NoError(t, store.Save(models.Session{Token: "t"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "theme")
	assert.Contains(t, string(data), StorageKey)
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{
		"user_id": "u1",
		"role":    "admin",
		"exp":     exp.Unix(),
	})

	claims, err := ParseClaims("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.True(t, exp.Equal(claims.Exp))

	_, err = ParseClaims("invalid-token")
	assert.Equal(t, ErrInvalidToken, err)
}
