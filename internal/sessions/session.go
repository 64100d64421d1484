package sessions

import (
	"time"

	"github.com/zephapay/onboarding-gateway/internal/models"
)

var randomIDGenerator models.IDGenerator = models.RandomGenerator{Length: 24}

// nowFunc is replaced in tests.
var nowFunc = time.Now

// Session represents a persistent session between a browser and the gateway
type Session struct {
	ID string `json:"id"`
	// UTC timestamp for when the session was created
	CreatedAt time.Time `json:"createdAt"`
	// UTC timestamp for when the session will expire
	ExpiresAt      time.Time `json:"expiresAt"`
	IdleTTLSeconds int       `json:"idleTTLSeconds"`
	MaxTTLSeconds  int       `json:"maxTTLSeconds"`
}

func (s *Session) Expired() bool {
	return nowFunc().UTC().After(s.ExpiresAt)
}

// Touch() moves ExpiresAt one idle TTL into the future, but never past the max TTL
func (s *Session) Touch() {
	expiresAt := nowFunc().UTC().Add(s.IdleTTL())
	if s.MaxTTLSeconds > 0 {
		maxExpiresAt := s.CreatedAt.Add(s.MaxTTL())
		if expiresAt.After(maxExpiresAt) {
			expiresAt = maxExpiresAt
		}
	}
	s.ExpiresAt = expiresAt
}

func (s *Session) IdleTTL() time.Duration {
	return time.Duration(s.IdleTTLSeconds) * time.Second
}

func (s *Session) MaxTTL() time.Duration {
	return time.Duration(s.MaxTTLSeconds) * time.Second
}

// TTL is the time left until the session expires.
func (s *Session) TTL() time.Duration {
	return s.ExpiresAt.Sub(nowFunc().UTC())
}

// dataTTL bounds the values stored for the session. With a max TTL they vanish
// together with the session, otherwise they live for one idle period per write.
func (s *Session) dataTTL() time.Duration {
	if s.MaxTTLSeconds > 0 {
		return s.CreatedAt.Add(s.MaxTTL()).Sub(nowFunc().UTC())
	}
	return s.IdleTTL()
}

func (s *Session) namespace() string {
	return sessionNamespacePrefix + ":" + s.ID
}
