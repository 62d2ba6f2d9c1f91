package config

import (
	"fmt"
	"time"
)

/* --------------------------------- Hub Config Defaults -------------------------------- */

const (
	defaultHubBufferSize   = 2
	defaultHubIdleEntryTTL = 10 * time.Minute
)

/* --------------------------------- Hub Config Struct -------------------------------- */

// HubConfig contains fan-out hub settings.
type HubConfig struct {
	// BufferSize is the number of messages a subscriber may have outstanding before it lags.
	BufferSize int `yaml:"buffer_size"`
	// IdleEntryTTL reclaims entries with no subscribers and no publish for this long.
	// An explicit 0 disables reclamation.
	IdleEntryTTL *time.Duration `yaml:"idle_entry_ttl"`
}

/* --------------------------------- Hub Config Private Helpers -------------------------------- */

func (c *HubConfig) hydrateHubDefaults() {
	if c.BufferSize == 0 {
		c.BufferSize = defaultHubBufferSize
	}
	if c.IdleEntryTTL == nil {
		ttl := defaultHubIdleEntryTTL
		c.IdleEntryTTL = &ttl
	}
}

// Validate ensures the hub configuration is valid
func (c HubConfig) Validate() error {
	if c.BufferSize < 1 {
		return fmt.Errorf("invalid hub buffer size: %d", c.BufferSize)
	}
	if c.IdleEntryTTL != nil && *c.IdleEntryTTL < 0 {
		return fmt.Errorf("hub idle entry TTL must not be negative: %v", *c.IdleEntryTTL)
	}
	return nil
}

// GetIdleEntryTTL returns the reclamation TTL, 0 meaning disabled.
func (c HubConfig) GetIdleEntryTTL() time.Duration {
	if c.IdleEntryTTL == nil {
		return defaultHubIdleEntryTTL
	}
	return *c.IdleEntryTTL
}
