// Package sessions ties browser cookies to server side sessions. Each session
// owns a namespace of the key-value store where its credentials and
// preferences live.
package sessions

import (
	"github.com/labstack/echo/v4"
	"github.com/zephapay/onboarding-gateway/internal/gwerrors"
)

// FromContext returns the session the middleware attached to the request.
func FromContext(c echo.Context) (*Session, error) {
	sessionRaw := c.Get(SessionCtxKey)
	if sessionRaw == nil {
		return nil, gwerrors.ErrSessionNotFound
	}
	session, ok := sessionRaw.(*Session)
	if !ok {
		return nil, gwerrors.ErrSessionParse
	}
	if session == nil {
		return nil, gwerrors.ErrSessionNotFound
	}
	if session.Expired() {
		return nil, gwerrors.ErrSessionExpired
	}
	return session, nil
}
