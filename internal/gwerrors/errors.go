// Package gwerrors contains all common errors used by the gateway.
package gwerrors

import (
	"fmt"
	"net/http"
)

var ErrSessionParse = fmt.Errorf("cannot parse session from context")
var ErrSessionNotFound = fmt.Errorf("cannot find the session")
var ErrSessionExpired = fmt.Errorf("the session is expired")
var ErrTokenNotFound = fmt.Errorf("the token cannot be found")
var ErrNoRefreshToken = fmt.Errorf("no refresh token is available")
var ErrRefreshFailed = fmt.Errorf("the token refresh failed")
var ErrUnauthorized = fmt.Errorf("the request was not authorized")
var ErrNotFound = fmt.Errorf("the requested resource cannot be found")
var ErrMissingDBResource = fmt.Errorf("the requested resource cannot be found in the DB")

// APIError is returned for every non-2xx response of the backend. The body is
// kept as received so callers can interpret validation errors themselves.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend responded with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend responded with status %d", e.StatusCode)
}

// Unwrap maps authentication failures onto ErrUnauthorized and missing
// resources onto ErrNotFound so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return nil
	}
}
