package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-rental-console/internal/models"
)

// StorageKey is the fixed key the session is stored under.
const StorageKey = "fleet_rental_auth"

var (
	ErrNoSession      = errors.New("no stored session")
	ErrInvalidSession = errors.New("stored session is unreadable")
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token expired")
)

// SessionStore reads the persisted {token, user} session from a key/value
// JSON file, the same layout a browser keeps in local storage.
type SessionStore struct {
	path string
	now  func() time.Time
}

// NewSessionStore creates a store backed by the file at path.
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path, now: time.Now}
}

// Load returns the stored session.
func (s *SessionStore) Load() (*models.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, ErrInvalidSession
	}
	raw, ok := entries[StorageKey]
	if !ok {
		return nil, ErrNoSession
	}

	// local storage keeps strings, so the value may be JSON encoded twice
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		raw = json.RawMessage(encoded)
	}

	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, ErrInvalidSession
	}
	if session.Token == "" {
		return nil, ErrNoSession
	}
	return &session, nil
}

// Save writes session under StorageKey, keeping any other keys in the file.
func (s *SessionStore) Save(session models.Session) error {
	entries := map[string]json.RawMessage{}
	if data, err := os.ReadFile(s.path); err == nil {
		if err := json.Unmarshal(data, &entries); err != nil {
			entries = map[string]json.RawMessage{}
		}
	}

	value, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	entries[StorageKey] = value

	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	return os.WriteFile(s.path, out, 0o600)
}

// GetAuthToken returns the bearer token, or "" when there is no usable
// session. Requests then go out unauthenticated and the server decides.
func (s *SessionStore) GetAuthToken() string {
	session, err := s.Load()
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			log.WithError(err).Warn("Ignoring stored session")
		}
		return ""
	}

	claims, err := ParseClaims(session.Token)
	if err == nil && claims.Expired(s.now()) {
		log.WithField("expired_at", claims.Exp).Warn("Stored session token has expired")
		return ""
	}
	// opaque tokens are passed through untouched
	return session.Token
}

// CurrentUser returns the user of the stored session.
func (s *SessionStore) CurrentUser() (models.User, error) {
	session, err := s.Load()
	if err != nil {
		return models.User{}, err
	}
	user := session.User
	if user.ID == "" {
		if claims, err := ParseClaims(session.Token); err == nil {
			user.ID = claims.UserID
		}
	}
	return user, nil
}

// ParseClaims decodes the claims of a JWT without verifying its signature.
// Verification is the server's job; the client only needs the expiry and
// the identity to prefill forms.
func ParseClaims(tokenString string) (*models.Claims, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrInvalidToken
	}

	out := &models.Claims{}
	for _, key := range []string{"user_id", "id", "_id", "sub"} {
		if v, ok := claims[key].(string); ok && v != "" {
			out.UserID = v
			break
		}
	}
	if role, ok := claims["role"].(string); ok {
		out.Role = models.Role(role)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, ErrInvalidToken
	}
	if exp != nil {
		out.Exp = exp.Time
	}
	return out, nil
}
