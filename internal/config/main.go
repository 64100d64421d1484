// Package config defines the configuration of the onboarding gateway and the handler
// that loads it from files and environment variables.
package config

import "fmt"

type RunningEnvironment string

const Production RunningEnvironment = "production"
const Development RunningEnvironment = "development"

type Config struct {
	RunningEnvironment RunningEnvironment
	DebugMode          bool
	Server             ServerConfig
	Upstream           UpstreamConfig
	Sessions           SessionConfig
	Store              StoreConfig
	Watcher            WatcherConfig
	Monitoring         MonitoringConfig
}

func (c *Config) Validate() error {
	if c.RunningEnvironment != Production && c.RunningEnvironment != Development {
		return fmt.Errorf("unknown running environment %q (must be one of production, development)", c.RunningEnvironment)
	}
	err := c.Server.Validate()
	if err != nil {
		return err
	}
	err = c.Upstream.Validate()
	if err != nil {
		return err
	}
	err = c.Sessions.Validate(c.RunningEnvironment)
	if err != nil {
		return err
	}
	err = c.Store.Validate(c.RunningEnvironment)
	if err != nil {
		return err
	}
	err = c.Watcher.Validate()
	if err != nil {
		return err
	}
	return c.Monitoring.Validate()
}
