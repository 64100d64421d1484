package metrics

import (
	"crypto/md5"
	"encoding/hex"
	"log/slog"

	"github.com/posthog/posthog-go"
)

// LimitedPosthogClient is the part of the posthog client used here.
type LimitedPosthogClient interface {
	Enqueue(posthog.Message) error
	Close() error
}

// PosthogMetricsClient reports product events. User IDs are hashed before they
// leave the gateway.
type PosthogMetricsClient struct {
	posthogClient LimitedPosthogClient
}

func (p *PosthogMetricsClient) anonymizeUser(userID string) string {
	hash := md5.Sum([]byte(userID))
	return hex.EncodeToString(hash[:])
}

// UserLoggedIn records a successful login of the customer or back-office scope.
func (p *PosthogMetricsClient) UserLoggedIn(userID string, scope string) error {
	return p.posthogClient.Enqueue(posthog.Capture{
		DistinctId: p.anonymizeUser(userID),
		Event:      "user_logged_in",
		Properties: posthog.NewProperties().Set("scope", scope),
	})
}

// SessionExpired records a forced logout.
func (p *PosthogMetricsClient) SessionExpired(userID string, scope string) error {
	return p.posthogClient.Enqueue(posthog.Capture{
		DistinctId: p.anonymizeUser(userID),
		Event:      "session_expired",
		Properties: posthog.NewProperties().Set("scope", scope),
	})
}

func (p *PosthogMetricsClient) Close() {
	err := p.posthogClient.Close()
	if err != nil {
		slog.Error("POSTHOG", "message", "could not flush events", "error", err)
	}
}

func NewPosthogClient(apiKey string, host string, environment string) (*PosthogMetricsClient, error) {
	client, err := posthog.NewWithConfig(
		apiKey,
		posthog.Config{
			Endpoint:               host,
			DefaultEventProperties: posthog.NewProperties().Set("environment", environment),
		},
	)
	if err != nil {
		return &PosthogMetricsClient{}, err
	}

	return &PosthogMetricsClient{posthogClient: client}, nil
}
