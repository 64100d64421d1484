package sessions

import (
	"fmt"
	"log/slog"

	"github.com/zephapay/onboarding-gateway/internal/models"
)

// SessionMaker hands out fresh browser sessions.
type SessionMaker interface {
	NewSession() (Session, error)
}

type ttlSessionMaker struct {
	ids            models.IDGenerator
	idleTTLSeconds int
	maxTTLSeconds  int
}

func (m ttlSessionMaker) NewSession() (Session, error) {
	id, err := m.ids.ID()
	if err != nil {
		return Session{}, fmt.Errorf("cannot generate a session ID: %w", err)
	}
	session := Session{
		ID:             id,
		CreatedAt:      nowFunc().UTC(),
		IdleTTLSeconds: m.idleTTLSeconds,
		MaxTTLSeconds:  m.maxTTLSeconds,
	}
	session.Touch()
	slog.Debug("SESSION MAKER", "message", "new session", "expiresAt", session.ExpiresAt)
	return session, nil
}

// NewSessionMaker returns a maker of sessions that expire after idleTTLSeconds
// without activity and, when maxTTLSeconds is positive, maxTTLSeconds after
// they were created.
func NewSessionMaker(idleTTLSeconds int, maxTTLSeconds int) SessionMaker {
	return ttlSessionMaker{ids: randomIDGenerator, idleTTLSeconds: idleTTLSeconds, maxTTLSeconds: maxTTLSeconds}
}
