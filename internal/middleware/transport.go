package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// RequestIDHeader is the header used to correlate client requests with server logs.
const RequestIDHeader = "X-Request-ID"

// TokenSource yields the bearer token for outgoing requests. An empty
// token means the request goes out unauthenticated.
type TokenSource interface {
	GetAuthToken() string
}

// TokenFunc adapts a plain function to TokenSource.
type TokenFunc func() string

// GetAuthToken calls f.
func (f TokenFunc) GetAuthToken() string { return f() }

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls f.
func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Middleware decorates a transport.
type Middleware func(http.RoundTripper) http.RoundTripper

// Chain wraps base with the middlewares, the first one being outermost.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

// BearerAuth attaches the session token as an Authorization header when one exists
func BearerAuth(tokens TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if tokens == nil {
				return next.RoundTrip(r)
			}
			token := tokens.GetAuthToken()
			if token == "" {
				return next.RoundTrip(r)
			}
			// a RoundTripper must not modify the caller's request
			r = r.Clone(r.Context())
			r.Header.Set("Authorization", "Bearer "+token)
			return next.RoundTrip(r)
		})
	}
}

// RequestID sets X-Request-ID on requests that do not already carry one.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get(RequestIDHeader) != "" {
				return next.RoundTrip(r)
			}
			r = r.Clone(r.Context())
			r.Header.Set(RequestIDHeader, uuid.NewString())
			return next.RoundTrip(r)
		})
	}
}

// Logging logs every request with its outcome and duration.
func Logging(logger log.FieldLogger) Middleware {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)
			fields := log.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"request_id": r.Header.Get(RequestIDHeader),
				"duration":   time.Since(start),
			}
			if err != nil {
				logger.WithFields(fields).WithError(err).Warn("API request failed")
				return nil, err
			}
			fields["status"] = resp.StatusCode
			logger.WithFields(fields).Debug("API request completed")
			return resp, nil
		})
	}
}
