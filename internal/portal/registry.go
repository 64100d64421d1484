package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/zephapay/onboarding-gateway/internal/apiclient"
	"github.com/zephapay/onboarding-gateway/internal/config"
	"github.com/zephapay/onboarding-gateway/internal/gwerrors"
	"github.com/zephapay/onboarding-gateway/internal/kvstore"
	"github.com/zephapay/onboarding-gateway/internal/tokenstore"
	"github.com/zephapay/onboarding-gateway/internal/watcher"
)

const pendingRedirectKey string = "pendingRedirect"

// loginEmailKey holds the email the scope was last logged in with.
func loginEmailKey(scope apiclient.Scope) string {
	return scope.Name + "LoginEmail"
}

// LoginEvents receives product analytics events.
type LoginEvents interface {
	UserLoggedIn(userID string, scope string) error
	SessionExpired(userID string, scope string) error
}

// ScopedClient is everything one browser session needs for one credential scope.
type ScopedClient struct {
	Client  *apiclient.Client
	Tokens  *tokenstore.TokenStore
	Watcher *watcher.ExpiryWatcher
	data    kvstore.Store
}

type registryEntry struct {
	clients   map[string]*ScopedClient
	expiresAt time.Time
}

// ClientRegistry keeps one authenticated client per browser session and credential
// scope, so concurrent requests of a session share a single refresh.
type ClientRegistry struct {
	lock          sync.Mutex
	entries       map[string]*registryEntry
	upstream      config.UpstreamConfig
	scheduler     *gocron.Scheduler
	watchInterval time.Duration
	metrics       apiclient.SessionMetrics
	events        LoginEvents
	httpClient    *http.Client
}

// Client returns the client of the session for scope, creating it on first use.
// expiresAt is the current expiry of the browser session.
func (r *ClientRegistry) Client(ctx context.Context, sessionID string, expiresAt time.Time, data kvstore.Store, scope apiclient.Scope) (*ScopedClient, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	entry, found := r.entries[sessionID]
	if !found {
		entry = &registryEntry{clients: map[string]*ScopedClient{}}
		r.entries[sessionID] = entry
	}
	entry.expiresAt = expiresAt
	if scoped, found := entry.clients[scope.Name]; found {
		return scoped, nil
	}
	scoped, err := r.newScopedClient(ctx, sessionID, data, scope)
	if err != nil {
		return nil, err
	}
	entry.clients[scope.Name] = scoped
	return scoped, nil
}

func (r *ClientRegistry) newScopedClient(ctx context.Context, sessionID string, data kvstore.Store, scope apiclient.Scope) (*ScopedClient, error) {
	tokens, err := tokenstore.NewTokenStore(tokenstore.WithKeys(scope.Keys), tokenstore.WithStore(data))
	if err != nil {
		return nil, err
	}
	options := []apiclient.ClientOption{
		apiclient.WithBaseURL(r.upstream.BaseURL.String()),
		apiclient.WithScope(scope),
		apiclient.WithTokenStore(tokens),
		apiclient.WithRedirector(pendingRedirector(data)),
		apiclient.WithTimeout(r.upstream.RequestTimeout),
		apiclient.WithRetries(r.upstream.RetryMax),
	}
	if r.upstream.RefreshTimeout > 0 {
		options = append(options, apiclient.WithRefreshTimeout(r.upstream.RefreshTimeout))
	}
	if r.metrics != nil {
		options = append(options, apiclient.WithMetrics(r.metrics))
	}
	if r.httpClient != nil {
		options = append(options, apiclient.WithHTTPClient(r.httpClient))
	}
	client, err := apiclient.NewClient(options...)
	if err != nil {
		return nil, err
	}
	onExpired := func(ctx context.Context) {
		userID := sessionID
		email, err := data.Get(ctx, loginEmailKey(scope))
		if err == nil && email != "" {
			userID = email
		}
		client.ForceLogout(ctx)
		if r.events != nil {
			err := r.events.SessionExpired(userID, scope.Name)
			if err != nil {
				slog.Error("CLIENT REGISTRY", "message", "could not report the expired session", "error", err)
			}
		}
	}
	expiryWatcher, err := watcher.NewExpiryWatcher(
		watcher.WithName(scope.Name),
		watcher.WithTokenStore(tokens),
		watcher.WithInterval(r.watchInterval),
		watcher.WithScheduler(r.scheduler),
		watcher.WithOnExpired(onExpired),
	)
	if err != nil {
		return nil, err
	}
	err = expiryWatcher.StartIfLoggedIn(ctx)
	if err != nil {
		return nil, err
	}
	return &ScopedClient{Client: client, Tokens: tokens, Watcher: expiryWatcher, data: data}, nil
}

// Evict drops the client of one scope of the session and stops its watcher.
func (r *ClientRegistry) Evict(sessionID string, scopeName string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	entry, found := r.entries[sessionID]
	if !found {
		return
	}
	if scoped, found := entry.clients[scopeName]; found {
		scoped.Watcher.Stop()
		delete(entry.clients, scopeName)
	}
	if len(entry.clients) == 0 {
		delete(r.entries, sessionID)
	}
}

// EvictSession drops all the clients of the session.
func (r *ClientRegistry) EvictSession(sessionID string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.evictSession(sessionID)
}

func (r *ClientRegistry) evictSession(sessionID string) {
	entry, found := r.entries[sessionID]
	if !found {
		return
	}
	for _, scoped := range entry.clients {
		scoped.Watcher.Stop()
	}
	delete(r.entries, sessionID)
}

// Purge drops the clients of sessions that expired and returns how many sessions
// were dropped.
func (r *ClientRegistry) Purge() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	now := time.Now().UTC()
	purged := 0
	for sessionID, entry := range r.entries {
		if now.After(entry.expiresAt) {
			r.evictSession(sessionID)
			purged++
		}
	}
	return purged
}

func (r *ClientRegistry) Len() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.entries)
}

// Close stops every watcher.
func (r *ClientRegistry) Close() {
	r.lock.Lock()
	defer r.lock.Unlock()
	for sessionID := range r.entries {
		r.evictSession(sessionID)
	}
}

func pendingRedirector(data kvstore.Store) apiclient.Redirector {
	return apiclient.RedirectFunc(func(ctx context.Context, location string) {
		err := data.Set(ctx, pendingRedirectKey, location)
		if err != nil {
			slog.Error("CLIENT REGISTRY", "message", "could not record the redirect", "location", location, "error", err)
		}
	})
}

// popRedirect returns and forgets the redirect recorded for the session.
func popRedirect(ctx context.Context, data kvstore.Store) string {
	location, err := data.Get(ctx, pendingRedirectKey)
	if errors.Is(err, gwerrors.ErrMissingDBResource) {
		return ""
	}
	if err != nil {
		slog.Error("CLIENT REGISTRY", "message", "could not read the pending redirect", "error", err)
		return ""
	}
	err = data.Delete(ctx, pendingRedirectKey)
	if err != nil {
		slog.Error("CLIENT REGISTRY", "message", "could not clear the pending redirect", "error", err)
	}
	return location
}

type ClientRegistryOption func(*ClientRegistry) error

func WithUpstreamConfig(upstream config.UpstreamConfig) ClientRegistryOption {
	return func(r *ClientRegistry) error {
		err := upstream.Validate()
		if err != nil {
			return err
		}
		r.upstream = upstream
		return nil
	}
}

// WithScheduler sets the scheduler the expiry watchers of all sessions run on.
func WithScheduler(scheduler *gocron.Scheduler) ClientRegistryOption {
	return func(r *ClientRegistry) error {
		r.scheduler = scheduler
		return nil
	}
}

func WithWatchInterval(interval time.Duration) ClientRegistryOption {
	return func(r *ClientRegistry) error {
		r.watchInterval = interval
		return nil
	}
}

func WithSessionMetrics(metrics apiclient.SessionMetrics) ClientRegistryOption {
	return func(r *ClientRegistry) error {
		r.metrics = metrics
		return nil
	}
}

func WithLoginEvents(events LoginEvents) ClientRegistryOption {
	return func(r *ClientRegistry) error {
		r.events = events
		return nil
	}
}

// WithUpstreamHTTPClient replaces the retrying transport of every client.
func WithUpstreamHTTPClient(client *http.Client) ClientRegistryOption {
	return func(r *ClientRegistry) error {
		r.httpClient = client
		return nil
	}
}

func NewClientRegistry(options ...ClientRegistryOption) (*ClientRegistry, error) {
	registry := ClientRegistry{entries: map[string]*registryEntry{}, watchInterval: time.Minute}
	for _, opt := range options {
		err := opt(&registry)
		if err != nil {
			return &ClientRegistry{}, err
		}
	}
	if registry.upstream.BaseURL == nil {
		return &ClientRegistry{}, fmt.Errorf("upstream config not initialized")
	}
	if registry.scheduler == nil {
		return &ClientRegistry{}, fmt.Errorf("scheduler not initialized")
	}
	return &registry, nil
}
