package config

import (
	"fmt"
	"time"
)

/* --------------------------------- Relay Config Defaults -------------------------------- */

const (
	defaultHTTPRequestTimeout   = 30 * time.Second
	defaultMaxResponseBodyBytes = 16 * 1024 * 1024 // 16 MB
	defaultWSHandshakeTimeout   = 10 * time.Second
	defaultWSIdleTimeout        = 60 * time.Second
	defaultMaxConcurrentRelays  = 1000
	defaultWSMaxMessageBytes    = 1024 * 1024 // 1 MB
)

/* --------------------------------- Relay Config Struct -------------------------------- */

// RelayConfig contains settings for the HTTP and websocket relays.
type RelayConfig struct {
	// HTTPRequestTimeout bounds a whole upstream HTTP round trip.
	HTTPRequestTimeout time.Duration `yaml:"http_request_timeout"`
	// MaxResponseBodyBytes bounds a single upstream HTTP response body.
	MaxResponseBodyBytes int64 `yaml:"max_response_body_bytes"`
	// MaxConcurrentRequests bounds in-flight upstream HTTP requests across all endpoints.
	MaxConcurrentRequests int `yaml:"max_concurrent_requests"`
	// WSHandshakeTimeout bounds the upstream websocket handshake.
	WSHandshakeTimeout time.Duration `yaml:"ws_handshake_timeout"`
	// WSPingPeriod defaults to 90% of WSIdleTimeout and must be shorter than it.
	WSPingPeriod time.Duration `yaml:"ws_ping_period"`
	// WSIdleTimeout closes client sessions with no traffic and no pong for this long.
	WSIdleTimeout time.Duration `yaml:"ws_idle_timeout"`
	// WSMaxMessageBytes bounds a single frame sent by a websocket client.
	WSMaxMessageBytes int64 `yaml:"ws_max_message_bytes"`
	// EnforceEnabled rejects traffic for endpoints whose enabled flag is false. Defaults to true.
	EnforceEnabled *bool `yaml:"enforce_enabled"`
}

/* --------------------------------- Relay Config Private Helpers -------------------------------- */

func (c *RelayConfig) hydrateRelayDefaults() {
	if c.HTTPRequestTimeout == 0 {
		c.HTTPRequestTimeout = defaultHTTPRequestTimeout
	}
	if c.MaxResponseBodyBytes == 0 {
		c.MaxResponseBodyBytes = defaultMaxResponseBodyBytes
	}
	if c.MaxConcurrentRequests == 0 {
		c.MaxConcurrentRequests = defaultMaxConcurrentRelays
	}
	if c.WSHandshakeTimeout == 0 {
		c.WSHandshakeTimeout = defaultWSHandshakeTimeout
	}
	if c.WSIdleTimeout == 0 {
		c.WSIdleTimeout = defaultWSIdleTimeout
	}
	if c.WSMaxMessageBytes == 0 {
		c.WSMaxMessageBytes = defaultWSMaxMessageBytes
	}
	if c.WSPingPeriod == 0 {
		c.WSPingPeriod = (c.WSIdleTimeout * 9) / 10
	}
	if c.EnforceEnabled == nil {
		enforce := true
		c.EnforceEnabled = &enforce
	}
}

// Validate ensures the relay configuration is valid
func (c RelayConfig) Validate() error {
	if c.HTTPRequestTimeout < 0 || c.WSHandshakeTimeout < 0 || c.WSIdleTimeout < 0 || c.WSPingPeriod < 0 {
		return fmt.Errorf("relay timeouts must not be negative")
	}
	if c.MaxResponseBodyBytes < 0 {
		return fmt.Errorf("invalid max response body bytes: %d", c.MaxResponseBodyBytes)
	}
	if c.WSMaxMessageBytes < 0 {
		return fmt.Errorf("invalid ws max message bytes: %d", c.WSMaxMessageBytes)
	}
	if c.MaxConcurrentRequests < 0 {
		return fmt.Errorf("invalid max concurrent requests: %d", c.MaxConcurrentRequests)
	}
	if c.WSPingPeriod >= c.WSIdleTimeout {
		return fmt.Errorf("ws ping period %v must be less than ws idle timeout %v", c.WSPingPeriod, c.WSIdleTimeout)
	}
	return nil
}

// ShouldEnforceEnabled returns true if disabled endpoints must be rejected.
func (c RelayConfig) ShouldEnforceEnabled() bool {
	return c.EnforceEnabled == nil || *c.EnforceEnabled
}
