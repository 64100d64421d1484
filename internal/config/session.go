package config

import "fmt"

type SessionConfig struct {
	IdleSessionTTLSeconds int
	MaxSessionTTLSeconds  int
	CookieHashKey         RedactedString
	CookieEncodingKey     RedactedString
	// NOTE: UnsafeNoCookieHandler should only be used for testing, in production this has to be false/unset
	// without this the session cookie is neither signed nor encrypted
	UnsafeNoCookieHandler bool
}

func (c *SessionConfig) Validate(e RunningEnvironment) error {
	if c.IdleSessionTTLSeconds <= 0 {
		return fmt.Errorf("idle session TTL seconds (%d) needs to be greater than 0", c.IdleSessionTTLSeconds)
	}
	if c.MaxSessionTTLSeconds > 0 && c.IdleSessionTTLSeconds > c.MaxSessionTTLSeconds {
		return fmt.Errorf("max session TTL seconds (%d) cannot be less than idle session TTL seconds (%d)", c.MaxSessionTTLSeconds, c.IdleSessionTTLSeconds)
	}
	if e != Development && c.UnsafeNoCookieHandler {
		return fmt.Errorf("sessions cannot be configured without a cookie handler in production")
	}
	if c.UnsafeNoCookieHandler {
		return nil
	}
	if len(c.CookieHashKey) != 32 && len(c.CookieHashKey) != 64 {
		return fmt.Errorf("the cookie hash key has to be 32 or 64 bytes long, the provided one is %d long", len(c.CookieHashKey))
	}
	switch len(c.CookieEncodingKey) {
	case 16, 24, 32:
		return nil
	default:
		return fmt.Errorf("the cookie encoding key has to be 16, 24 or 32 bytes long, the provided one is %d long", len(c.CookieEncodingKey))
	}
}
