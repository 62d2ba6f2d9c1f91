// Package metrics exports relay, hub, session and subscription activity to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/pokt-network/poktroll/pkg/polylog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const endpointMetrics = "/metrics"

// ServeMetrics starts a Prometheus metrics server on addr, stopped when ctx is done.
func ServeMetrics(ctx context.Context, logger polylog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle(endpointMetrics, promhttp.Handler())

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info().Str("endpoint_addr", addr).Msg("serving Prometheus metrics")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("endpoint_addr", addr).Msg("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		logger.Info().Str("endpoint_addr", addr).Msg("stopping metrics server")
		_ = server.Shutdown(context.Background())
	}()
}
