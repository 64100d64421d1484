package config

import (
	"fmt"
	"net/url"
	"time"
)

// UpstreamConfig describes the backend REST API the gateway talks to.
type UpstreamConfig struct {
	// Origin plus versioned path prefix, e.g. https://onboarding.example.com/api/v1
	BaseURL        *url.URL
	RequestTimeout time.Duration
	RefreshTimeout time.Duration
	RetryMax       int
}

func (c *UpstreamConfig) Validate() error {
	if c.BaseURL == nil {
		return fmt.Errorf("the upstream config is missing the base url of the API")
	}
	if c.BaseURL.Scheme != "http" && c.BaseURL.Scheme != "https" {
		return fmt.Errorf("the upstream base url has an unsupported scheme %q", c.BaseURL.Scheme)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("the upstream request timeout (%s) cannot be negative", c.RequestTimeout)
	}
	if c.RefreshTimeout <= 0 {
		return fmt.Errorf("the upstream refresh timeout (%s) needs to be greater than 0", c.RefreshTimeout)
	}
	if c.RetryMax < 0 {
		return fmt.Errorf("the upstream retry max (%d) cannot be negative", c.RetryMax)
	}
	return nil
}
