package config

import (
	"fmt"
	"time"
)

/* --------------------------------- Router Config Defaults -------------------------------- */

const (
	// default zeth port
	defaultPort = 3000

	// defaultMaxRequestHeaderBytes is the default maximum size of the HTTP request header.
	defaultMaxRequestHeaderBytes = 2 * 1e6 // 2 MB

	// https://pkg.go.dev/net/http#Server
	// HTTP server's default timeout values. There is no write timeout by default:
	// event streams and websocket sessions are long lived.
	defaultHTTPServerReadHeaderTimeout = 10 * time.Second
	defaultHTTPServerReadTimeout       = 60 * time.Second
	defaultHTTPServerIdleTimeout       = 180 * time.Second

	// defaultShutdownTimeout bounds graceful shutdown of in-flight requests.
	defaultShutdownTimeout = 10 * time.Second
)

/* --------------------------------- Router Config Struct -------------------------------- */

// RouterConfig contains server configuration settings.
// See default values above.
type RouterConfig struct {
	Port                  int           `yaml:"port"`
	MaxRequestHeaderBytes int           `yaml:"max_request_header_bytes"`
	ReadHeaderTimeout     time.Duration `yaml:"read_header_timeout"`
	ReadTimeout           time.Duration `yaml:"read_timeout"`
	// WriteTimeout of 0 means no timeout.
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

/* --------------------------------- Router Config Private Helpers -------------------------------- */

// hydrateRouterDefaults assigns default values to RouterConfig fields if they are not set.
func (c *RouterConfig) hydrateRouterDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.MaxRequestHeaderBytes == 0 {
		c.MaxRequestHeaderBytes = defaultMaxRequestHeaderBytes
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = defaultHTTPServerReadHeaderTimeout
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = defaultHTTPServerReadTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = defaultHTTPServerIdleTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
}

// Validate ensures the router configuration is valid
func (c RouterConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid router port: %d", c.Port)
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("router write timeout must not be negative: %v", c.WriteTimeout)
	}
	return nil
}
