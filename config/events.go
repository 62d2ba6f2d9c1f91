package config

import (
	"fmt"
	"time"
)

const defaultKeepAliveInterval = 15 * time.Second

// EventsConfig contains event subscription stream settings.
type EventsConfig struct {
	// KeepAliveInterval is how often an idle stream receives a comment line.
	KeepAliveInterval time.Duration `yaml:"keep_alive_interval"`
}

func (c *EventsConfig) hydrateEventsDefaults() {
	if c.KeepAliveInterval == 0 {
		c.KeepAliveInterval = defaultKeepAliveInterval
	}
}

// Validate ensures the events configuration is valid
func (c EventsConfig) Validate() error {
	if c.KeepAliveInterval < 0 {
		return fmt.Errorf("events keep alive interval must not be negative: %v", c.KeepAliveInterval)
	}
	return nil
}
