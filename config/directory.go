package config

import (
	"fmt"
	"time"

	"github.com/zees-dev/zeth/config/utils"
	"github.com/zees-dev/zeth/endpoint"
)

/* --------------------------------- Directory Config Defaults -------------------------------- */

const (
	DirectoryDriverMemory   = "memory"
	DirectoryDriverPostgres = "postgres"

	defaultDirectoryCacheTTL = 30 * time.Second
)

/* --------------------------------- Directory Config Struct -------------------------------- */

// DirectoryConfig selects and configures the endpoint registry store.
type DirectoryConfig struct {
	// Driver is either "memory" (default) or "postgres".
	Driver string `yaml:"driver"`
	// DBConnectionString is required by the postgres driver.
	DBConnectionString string `yaml:"db_connection_string"`
	// CacheTTL bounds how long a looked up endpoint is served from cache. An explicit negative value disables the cache.
	CacheTTL time.Duration `yaml:"cache_ttl"`
	// Endpoints are registered at startup unless an endpoint with the same ID already exists.
	Endpoints []endpoint.Endpoint `yaml:"endpoints"`
}

/* --------------------------------- Directory Config Private Helpers -------------------------------- */

func (c *DirectoryConfig) hydrateDirectoryDefaults() {
	if c.Driver == "" {
		c.Driver = DirectoryDriverMemory
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = defaultDirectoryCacheTTL
	}
}

// Validate ensures the directory configuration is valid
func (c DirectoryConfig) Validate() error {
	switch c.Driver {
	case DirectoryDriverMemory:
	case DirectoryDriverPostgres:
		if !utils.IsValidDBConnectionString(c.DBConnectionString) {
			return fmt.Errorf("invalid DB connection string for the postgres directory driver")
		}
	default:
		return fmt.Errorf("invalid directory driver: %q", c.Driver)
	}

	ids := make(map[endpoint.ID]struct{}, len(c.Endpoints))
	for _, e := range c.Endpoints {
		if e.ID == "" {
			return fmt.Errorf("seed endpoint %q has no id", e.Name)
		}
		if _, ok := ids[e.ID]; ok {
			return fmt.Errorf("duplicate seed endpoint id: %s", e.ID)
		}
		ids[e.ID] = struct{}{}
		if err := e.Validate(); err != nil {
			return fmt.Errorf("seed endpoint %s: %w", e.ID, err)
		}
	}
	return nil
}

// GetCacheTTL returns the directory cache TTL, 0 meaning disabled.
func (c DirectoryConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL < 0 {
		return 0
	}
	return c.CacheTTL
}
