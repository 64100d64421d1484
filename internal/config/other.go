package config

import (
	"fmt"
	"strings"
	"time"
)

type ServerConfig struct {
	Host        string
	Port        int
	BasePath    string
	RateLimits  RateLimits
	AllowOrigin []string
}

func (c ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Port)
	}
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("the server base path %q has to start with a slash", c.BasePath)
	}
	if c.RateLimits.Enabled && (c.RateLimits.Rate <= 0 || c.RateLimits.Burst <= 0) {
		return fmt.Errorf("rate limits are enabled but the rate (%v) or burst (%d) are not positive", c.RateLimits.Rate, c.RateLimits.Burst)
	}
	return nil
}

type RateLimits struct {
	Enabled bool
	Rate    float64
	Burst   int
}

type WatcherConfig struct {
	Interval time.Duration
}

func (c WatcherConfig) Validate() error {
	if c.Interval < time.Second {
		return fmt.Errorf("the token expiry check interval (%s) has to be at least one second", c.Interval)
	}
	return nil
}

type SentryConfig struct {
	Enabled     bool
	Dsn         RedactedString
	Environment string
	SampleRate  float64
}

type PrometheusConfig struct {
	Enabled bool
	Port    int
}

type PosthogConfig struct {
	Enabled     bool
	ApiKey      RedactedString
	Host        string
	Environment string
}

type MonitoringConfig struct {
	Sentry     SentryConfig
	Prometheus PrometheusConfig
	Posthog    PosthogConfig
}

func (c MonitoringConfig) Validate() error {
	if c.Sentry.Enabled && c.Sentry.Dsn == "" {
		return fmt.Errorf("sentry is enabled but the DSN is empty")
	}
	if c.Prometheus.Enabled && c.Prometheus.Port <= 0 {
		return fmt.Errorf("prometheus is enabled but the port %d is invalid", c.Prometheus.Port)
	}
	if c.Posthog.Enabled && c.Posthog.ApiKey == "" {
		return fmt.Errorf("posthog is enabled but the API key is empty")
	}
	return nil
}
