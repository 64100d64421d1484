package sessions

import (
	"context"

	"github.com/zephapay/onboarding-gateway/internal/gwerrors"
	"github.com/zephapay/onboarding-gateway/internal/kvstore"
)

// sessionData resolves the namespace on every call so the TTL of each write
// follows the remaining lifetime of the session.
type sessionData struct {
	backend kvstore.ExpiringStore
	session Session
}

func (d sessionData) namespace() kvstore.NamespacedStore {
	return kvstore.Namespace(d.backend, d.session.namespace(), d.session.dataTTL())
}

func (d sessionData) Get(ctx context.Context, key string) (string, error) {
	return d.namespace().Get(ctx, key)
}

// Set refuses writes once the session has run out of lifetime, a non-positive
// TTL would store the value without expiry.
func (d sessionData) Set(ctx context.Context, key string, value string) error {
	if d.session.dataTTL() <= 0 {
		return gwerrors.ErrSessionExpired
	}
	return d.namespace().Set(ctx, key, value)
}

func (d sessionData) Delete(ctx context.Context, keys ...string) error {
	return d.namespace().Delete(ctx, keys...)
}
