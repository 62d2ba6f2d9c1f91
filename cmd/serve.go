package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pokt-network/poktroll/pkg/polylog"
	"github.com/pokt-network/poktroll/pkg/polylog/polyzero"
	"github.com/spf13/cobra"

	configpkg "github.com/zees-dev/zeth/config"
	"github.com/zees-dev/zeth/events"
	"github.com/zees-dev/zeth/health"
	"github.com/zees-dev/zeth/hub"
	"github.com/zees-dev/zeth/relay"
	"github.com/zees-dev/zeth/router"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the relay server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, serveConfigPath)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "path to the zeth YAML config file")
}

func loadConfig(flagValue string) (configpkg.ZethConfig, string, error) {
	configPath, err := getConfigPath(flagValue)
	if err != nil {
		return configpkg.ZethConfig{}, "", err
	}
	if configPath == "" {
		return configpkg.DefaultZethConfig(), "", nil
	}

	config, err := configpkg.LoadZethConfigFromYAML(configPath)
	if err != nil {
		return configpkg.ZethConfig{}, "", fmt.Errorf("failed to load config %s: %w", configPath, err)
	}
	return config, configPath, nil
}

// runServe wires every component and blocks until ctx is done.
func runServe(ctx context.Context, configFlag string) error {
	config, configPath, err := loadConfig(configFlag)
	if err != nil {
		return err
	}

	log.Printf("Initializing zeth logger with level: %s", config.Logger.Level)

	loggerOpts := []polylog.LoggerOption{
		polyzero.WithLevel(polyzero.ParseLevel(config.Logger.Level)),
	}
	logger := polyzero.NewLogger(loggerOpts...)

	if configPath == "" {
		logger.Info().Msg("Starting zeth with the default config")
	} else {
		logger.Info().Msgf("Starting zeth using config file: %s", configPath)
	}

	dir, closeStore, err := setupDirectory(ctx, logger, config.Directory)
	if err != nil {
		return fmt.Errorf("failed to setup endpoint directory: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error().Err(err).Msg("failed to close endpoint store")
		}
	}()

	fanout := hub.NewHub(logger, hub.Config{
		BufferSize:   config.Hub.BufferSize,
		IdleEntryTTL: config.Hub.GetIdleEntryTTL(),
	})
	fanout.Start(ctx)

	enforceEnabled := config.Relay.ShouldEnforceEnabled()

	httpRelay := relay.NewHTTPRelay(logger, dir, fanout, relay.HTTPConfig{
		RequestTimeout:        config.Relay.HTTPRequestTimeout,
		MaxResponseBodyBytes:  config.Relay.MaxResponseBodyBytes,
		MaxConcurrentRequests: config.Relay.MaxConcurrentRequests,
		EnforceEnabled:        enforceEnabled,
	})

	duplexRelay := relay.NewDuplexRelay(logger, dir, fanout, relay.DuplexConfig{
		HandshakeTimeout: config.Relay.WSHandshakeTimeout,
		PingPeriod:       config.Relay.WSPingPeriod,
		IdleTimeout:      config.Relay.WSIdleTimeout,
		MaxMessageBytes:  config.Relay.WSMaxMessageBytes,
		EnforceEnabled:   enforceEnabled,
	})

	eventService := events.NewService(logger, dir, fanout, events.Config{
		KeepAliveInterval: config.Events.KeepAliveInterval,
		EnforceEnabled:    enforceEnabled,
	})

	setupMetricsServer(ctx, logger, config.Metrics.PrometheusAddr)
	setupPprofServer(ctx, logger, config.Metrics.PprofAddr)

	// Until every component is ready, the `/healthz` endpoint will return a 503 Service
	// Unavailable status; once all components are ready, it will return a 200 OK status.
	healthChecker := &health.Checker{
		Logger:     logger,
		Components: []health.Check{dir},
		Hub:        fanout,
		Sessions:   duplexRelay,
	}

	apiRouter := router.NewRouter(router.RouterParams{
		Logger:         logger,
		Config:         config.Router,
		HTTPRelay:      httpRelay,
		DuplexRelay:    duplexRelay,
		Events:         eventService,
		Directory:      dir,
		HealthChecker:  healthChecker,
		LogAPIRequests: config.Logger.IsDebug(),
	})

	// log.Printf is used here to ensure this info is printed to the console regardless of the log level.
	log.Printf("zeth %s started.\n  Port: %d\n  Directory: %s\n  Seeded endpoints: %d",
		health.GetVersion(), config.Router.Port, config.Directory.Driver, len(config.Directory.Endpoints))

	// This will block until ctx is done and the router has shut down.
	return apiRouter.Start(ctx)
}
