package main

import (
	"context"
	"fmt"

	"github.com/pokt-network/poktroll/pkg/polylog"

	configpkg "github.com/zees-dev/zeth/config"
	"github.com/zees-dev/zeth/directory"
	"github.com/zees-dev/zeth/directory/postgres"
)

// setupDirectory builds the configured endpoint store and seeds it with the config file's endpoints.
// The returned func releases the store.
func setupDirectory(
	ctx context.Context,
	logger polylog.Logger,
	config configpkg.DirectoryConfig,
) (*directory.Service, func() error, error) {
	var (
		store   directory.Store
		cleanup = func() error { return nil }
	)

	switch config.Driver {
	case configpkg.DirectoryDriverPostgres:
		driver, closeDriver, err := postgres.NewPostgresDriver(ctx, config.DBConnectionString)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		store, cleanup = driver, closeDriver
	default:
		store = directory.NewMemoryStore()
	}

	dir := directory.NewService(logger, store, config.GetCacheTTL())
	if err := dir.Seed(ctx, config.Endpoints); err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("failed to seed endpoints: %w", err)
	}

	logger.Info().
		Str("driver", config.Driver).
		Int("seeded", len(config.Endpoints)).
		Msg("endpoint directory ready")
	return dir, cleanup, nil
}
