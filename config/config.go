package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

/* ---------------------------------  Zeth Config Struct -------------------------------- */

// ZethConfig is the top level struct that contains configuration details
// parsed from a YAML config file. Every section is optional: missing values
// are hydrated with defaults before the config is validated.
type ZethConfig struct {
	Router    RouterConfig    `yaml:"router_config"`
	Logger    LoggerConfig    `yaml:"logger_config"`
	Relay     RelayConfig     `yaml:"relay_config"`
	Hub       HubConfig       `yaml:"hub_config"`
	Events    EventsConfig    `yaml:"events_config"`
	Directory DirectoryConfig `yaml:"directory_config"`
	Metrics   MetricsConfig   `yaml:"metrics_config"`
}

// LoadZethConfigFromYAML reads a YAML configuration file from the specified path
// and unmarshals its content into a ZethConfig instance.
func LoadZethConfigFromYAML(path string) (ZethConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ZethConfig{}, err
	}

	var config ZethConfig
	if err = yaml.Unmarshal(data, &config); err != nil {
		return ZethConfig{}, err
	}

	// hydrate required fields and set defaults for optional fields
	config.hydrateDefaults()

	return config, config.validate()
}

// DefaultZethConfig returns the configuration used when no config file is given.
func DefaultZethConfig() ZethConfig {
	var config ZethConfig
	config.hydrateDefaults()
	return config
}

/* --------------------------------- Zeth Config Hydration Helpers -------------------------------- */

func (c *ZethConfig) hydrateDefaults() {
	c.Router.hydrateRouterDefaults()
	c.Logger.hydrateLoggerDefaults()
	c.Relay.hydrateRelayDefaults()
	c.Hub.hydrateHubDefaults()
	c.Events.hydrateEventsDefaults()
	c.Directory.hydrateDirectoryDefaults()
}

/* --------------------------------- Zeth Config Validation Helpers -------------------------------- */

func (c ZethConfig) validate() error {
	for _, section := range []interface{ Validate() error }{
		c.Router,
		c.Logger,
		c.Relay,
		c.Hub,
		c.Events,
		c.Directory,
		c.Metrics,
	} {
		if err := section.Validate(); err != nil {
			return err
		}
	}
	return nil
}
