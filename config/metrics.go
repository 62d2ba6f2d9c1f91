package config

import (
	"fmt"

	"github.com/zees-dev/zeth/config/utils"
)

// MetricsConfig contains the listen addresses of the observability servers.
// Either server is disabled when its address is empty.
type MetricsConfig struct {
	PrometheusAddr string `yaml:"prometheus_addr"`
	PprofAddr      string `yaml:"pprof_addr"`
}

// Validate ensures the metrics configuration is valid
func (c MetricsConfig) Validate() error {
	if c.PrometheusAddr != "" && !utils.IsValidListenAddr(c.PrometheusAddr) {
		return fmt.Errorf("invalid prometheus address: %s", c.PrometheusAddr)
	}
	if c.PprofAddr != "" && !utils.IsValidListenAddr(c.PprofAddr) {
		return fmt.Errorf("invalid pprof address: %s", c.PprofAddr)
	}
	return nil
}
