package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zees-dev/zeth/endpoint"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zeth.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func Test_LoadZethConfigFromYAML(t *testing.T) {
	c := require.New(t)

	cfg, err := LoadZethConfigFromYAML("./testdata/zeth.example.yaml")
	c.NoError(err)

	c.Equal(3000, cfg.Router.Port)
	c.Equal(30*time.Second, cfg.Router.ReadTimeout)
	c.Equal(defaultHTTPServerIdleTimeout, cfg.Router.IdleTimeout)
	c.True(cfg.Logger.IsDebug())

	c.Equal(20*time.Second, cfg.Relay.HTTPRequestTimeout)
	c.Equal(30*time.Second, cfg.Relay.WSIdleTimeout)
	c.Equal(27*time.Second, cfg.Relay.WSPingPeriod)
	c.Equal(int64(65536), cfg.Relay.WSMaxMessageBytes)
	c.False(cfg.Relay.ShouldEnforceEnabled())

	c.Equal(8, cfg.Hub.BufferSize)
	c.Equal(time.Duration(0), cfg.Hub.GetIdleEntryTTL())
	c.Equal(5*time.Second, cfg.Events.KeepAliveInterval)

	c.Equal(DirectoryDriverMemory, cfg.Directory.Driver)
	c.Len(cfg.Directory.Endpoints, 2)
	c.Equal(endpoint.ID("sepolia"), cfg.Directory.Endpoints[0].ID)
	c.True(cfg.Directory.Endpoints[0].SupportsWS())
	c.True(cfg.Directory.Endpoints[1].IsDev)

	c.Equal(":9090", cfg.Metrics.PrometheusAddr)
	c.Empty(cfg.Metrics.PprofAddr)
}

func Test_LoadZethConfigFromYAML_Defaults(t *testing.T) {
	c := require.New(t)

	cfg, err := LoadZethConfigFromYAML(writeConfig(t, "{}\n"))
	c.NoError(err)
	c.Equal(DefaultZethConfig(), cfg)

	c.Equal(defaultPort, cfg.Router.Port)
	c.Equal(defaultLogLevel, cfg.Logger.Level)
	c.True(cfg.Relay.ShouldEnforceEnabled())
	c.Equal(int64(defaultWSMaxMessageBytes), cfg.Relay.WSMaxMessageBytes)
	c.Equal(defaultHubBufferSize, cfg.Hub.BufferSize)
	c.Equal(defaultHubIdleEntryTTL, cfg.Hub.GetIdleEntryTTL())
	c.Equal(defaultKeepAliveInterval, cfg.Events.KeepAliveInterval)
	c.Equal(defaultDirectoryCacheTTL, cfg.Directory.GetCacheTTL())
}

func Test_LoadZethConfigFromYAML_Errors(t *testing.T) {
	tests := []struct {
		name     string
		yamlData string
	}{
		{
			name:     "invalid yaml",
			yamlData: "router_config: [",
		},
		{
			name: "invalid log level",
			yamlData: `
logger_config:
  level: verbose
`,
		},
		{
			name: "ping period not below idle timeout",
			yamlData: `
relay_config:
  ws_ping_period: 60s
  ws_idle_timeout: 60s
`,
		},
		{
			name: "negative ws max message bytes",
			yamlData: `
relay_config:
  ws_max_message_bytes: -1
`,
		},
		{
			name: "negative hub buffer",
			yamlData: `
hub_config:
  buffer_size: -1
`,
		},
		{
			name: "postgres driver without connection string",
			yamlData: `
directory_config:
  driver: postgres
`,
		},
		{
			name: "unknown directory driver",
			yamlData: `
directory_config:
  driver: sqlite
`,
		},
		{
			name: "seed endpoint with invalid url scheme",
			yamlData: `
directory_config:
  endpoints:
    - id: bad
      name: Bad
      rpc_http: "ftp://example.com"
`,
		},
		{
			name: "duplicate seed endpoint id",
			yamlData: `
directory_config:
  endpoints:
    - id: one
      name: One
      rpc_http: "http://127.0.0.1:8545"
    - id: one
      name: Two
      rpc_http: "http://127.0.0.1:8546"
`,
		},
		{
			name: "invalid metrics address",
			yamlData: `
metrics_config:
  prometheus_addr: "localhost"
`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := LoadZethConfigFromYAML(writeConfig(t, test.yamlData))
			require.Error(t, err)
		})
	}
}

func Test_LoadZethConfigFromYAML_MissingFile(t *testing.T) {
	_, err := LoadZethConfigFromYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func Test_DirectoryConfig_GetCacheTTL(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
		want time.Duration
	}{
		{name: "positive", ttl: time.Minute, want: time.Minute},
		{name: "negative disables", ttl: -1, want: 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.want, DirectoryConfig{CacheTTL: test.ttl}.GetCacheTTL())
		})
	}
}
