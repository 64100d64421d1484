// Package apiclient is the authenticated client of the onboarding backend. It
// injects the bearer token of its scope, recovers from expired access tokens
// with a single shared refresh and replays the requests that were waiting on it.
package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// LimitedTokenStore is the part of the token store the client needs.
type LimitedTokenStore interface {
	GetAccessToken(ctx context.Context) (string, error)
	GetRefreshToken(ctx context.Context) (string, error)
	SetTokens(ctx context.Context, accessToken, refreshToken string) error
	ClearTokens(ctx context.Context) error
}

// SessionMetrics is notified about refreshes and logouts.
type SessionMetrics interface {
	RefreshCompleted(scope string, err error)
	LoggedOut(scope string, reason string)
}

type noopMetrics struct{}

func (noopMetrics) RefreshCompleted(string, error) {}
func (noopMetrics) LoggedOut(string, string) {}

const defaultRefreshTimeout = 15 * time.Second

type Client struct {
	baseURL        *url.URL
	scope          Scope
	tokens         LimitedTokenStore
	redirector     Redirector
	metrics        SessionMetrics
	httpClient     *http.Client
	noRetryClient  *http.Client
	refreshClient  *http.Client
	timeout        time.Duration
	refreshTimeout time.Duration
	retries        int
	coordinator    *coordinator
}

func (c *Client) Scope() Scope {
	return c.scope
}

type ClientOption func(*Client) error

func WithBaseURL(rawURL string) ClientOption {
	return func(c *Client) error {
		u, err := url.Parse(rawURL)
		if err != nil {
			return err
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("the base url %q has to be an http or https url", rawURL)
		}
		u.Path = strings.TrimRight(u.Path, "/")
		c.baseURL = u
		return nil
	}
}

func WithScope(scope Scope) ClientOption {
	return func(c *Client) error {
		if scope.Name == "" || scope.RefreshPath == "" {
			return fmt.Errorf("the scope needs a name and a refresh path")
		}
		c.scope = scope
		return nil
	}
}

func WithTokenStore(tokens LimitedTokenStore) ClientOption {
	return func(c *Client) error {
		c.tokens = tokens
		return nil
	}
}

func WithRedirector(redirector Redirector) ClientOption {
	return func(c *Client) error {
		c.redirector = redirector
		return nil
	}
}

func WithMetrics(metrics SessionMetrics) ClientOption {
	return func(c *Client) error {
		c.metrics = metrics
		return nil
	}
}

// WithHTTPClient replaces the retrying transport used for all regular requests.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) error {
		c.httpClient = client
		c.noRetryClient = client
		return nil
	}
}

// WithRefreshClient sets the client used for the refresh call. It must not be
// the client of another Client so that refreshes never go through a refresh.
func WithRefreshClient(client *http.Client) ClientOption {
	return func(c *Client) error {
		c.refreshClient = client
		return nil
	}
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) error {
		if timeout < 0 {
			return fmt.Errorf("the request timeout cannot be negative")
		}
		c.timeout = timeout
		return nil
	}
}

func WithRefreshTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) error {
		if timeout <= 0 {
			return fmt.Errorf("the refresh timeout has to be positive")
		}
		c.refreshTimeout = timeout
		return nil
	}
}

// WithRetries sets how often idempotent requests are retried on transport errors.
func WithRetries(retries int) ClientOption {
	return func(c *Client) error {
		if retries < 0 {
			return fmt.Errorf("the number of retries cannot be negative")
		}
		c.retries = retries
		return nil
	}
}

func NewClient(options ...ClientOption) (*Client, error) {
	client := Client{
		scope:          CustomerScope,
		refreshTimeout: defaultRefreshTimeout,
		coordinator:    &coordinator{},
	}
	for _, opt := range options {
		err := opt(&client)
		if err != nil {
			return &Client{}, err
		}
	}
	if client.baseURL == nil {
		return &Client{}, fmt.Errorf("base url not initialized")
	}
	if client.tokens == nil {
		return &Client{}, fmt.Errorf("token store not initialized")
	}
	if client.redirector == nil {
		client.redirector = logRedirector
	}
	if client.metrics == nil {
		client.metrics = noopMetrics{}
	}
	if client.httpClient == nil {
		client.httpClient = newRetryingClient(client.retries)
		client.noRetryClient = &http.Client{}
	}
	if client.refreshClient == nil {
		client.refreshClient = &http.Client{}
	}
	return &client, nil
}
