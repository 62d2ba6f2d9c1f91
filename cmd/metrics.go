package main

import (
	"context"

	"github.com/pokt-network/poktroll/pkg/polylog"

	"github.com/zees-dev/zeth/metrics"
)

// setupMetricsServer starts the Prometheus metrics server at the supplied address, if any.
func setupMetricsServer(ctx context.Context, logger polylog.Logger, addr string) {
	if addr == "" {
		logger.Info().Msg("prometheus metrics server disabled")
		return
	}
	metrics.ServeMetrics(ctx, logger, addr)
}

// setupPprofServer starts the metric package's pprof server at the supplied address, if any.
func setupPprofServer(ctx context.Context, logger polylog.Logger, addr string) {
	if addr == "" {
		return
	}
	metrics.ServePprof(ctx, logger, addr)
}
