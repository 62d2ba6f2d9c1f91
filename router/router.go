// Package router exposes the relays, the event streams and the endpoint API over HTTP.
package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jpillora/requestlog"
	"github.com/pokt-network/poktroll/pkg/polylog"

	"github.com/zees-dev/zeth/config"
	"github.com/zees-dev/zeth/endpoint"
	"github.com/zees-dev/zeth/health"
	"github.com/zees-dev/zeth/relay"
)

//go:generate mockgen -source=router.go -destination=router_mock_test.go -package=router

const endpointIDPathParam = "endpoint_id"

type (
	router struct {
		mux       *http.ServeMux
		config    config.RouterConfig
		logger    polylog.Logger
		httpRelay httpRelay
		duplex    duplexRelay
		events    eventStreamer
		directory endpoint.Directory
		checker   *health.Checker
	}

	httpRelay interface {
		Forward(ctx context.Context, endpointID endpoint.ID, inbound *http.Request) (*relay.Response, error)
	}

	duplexRelay interface {
		Open(ctx context.Context, endpointID endpoint.ID, w http.ResponseWriter, r *http.Request) error
		CloseAll()
	}

	eventStreamer interface {
		ServeSSE(w http.ResponseWriter, r *http.Request, endpointID endpoint.ID) error
	}
)

type RouterParams struct {
	Logger        polylog.Logger
	Config        config.RouterConfig
	HTTPRelay     httpRelay
	DuplexRelay   duplexRelay
	Events        eventStreamer
	Directory     endpoint.Directory
	HealthChecker *health.Checker
	// LogAPIRequests wraps the endpoint API with an access log.
	LogAPIRequests bool
}

/* --------------------------------- Init -------------------------------- */

// NewRouter creates a new router instance
func NewRouter(params RouterParams) *router {
	r := &router{
		mux:       http.NewServeMux(),
		config:    params.Config,
		logger:    params.Logger.With("package", "router"),
		httpRelay: params.HTTPRelay,
		duplex:    params.DuplexRelay,
		events:    params.Events,
		directory: params.Directory,
		checker:   params.HealthChecker,
	}
	r.handleRoutes(params.LogAPIRequests)
	return r
}

func (r *router) handleRoutes(logAPIRequests bool) {
	// GET /healthz - readiness of every component
	r.mux.HandleFunc("GET /healthz", r.checker.HealthzHandler)
	// GET /health - liveness only
	r.mux.HandleFunc("GET /health", r.checker.LivenessHandler)
	// GET /version - running zeth version
	r.mux.HandleFunc("GET /version", r.checker.VersionHandler)

	// POST /{endpoint_id}/rpc - one-shot HTTP relay
	r.mux.HandleFunc(fmt.Sprintf("POST /{%s}/rpc", endpointIDPathParam), r.corsMiddleware(r.handleHTTPRelay))
	// GET /{endpoint_id}/rpc - duplex websocket relay
	r.mux.HandleFunc(fmt.Sprintf("GET /{%s}/rpc", endpointIDPathParam), r.handleDuplexRelay)
	// GET /{endpoint_id}/rpc/events - server-sent events of everything relayed from the endpoint
	r.mux.HandleFunc(fmt.Sprintf("GET /{%s}/rpc/events", endpointIDPathParam), r.corsMiddleware(r.handleEvents))
	// OPTIONS preflight for the browser facing routes
	r.mux.HandleFunc(fmt.Sprintf("OPTIONS /{%s}/rpc", endpointIDPathParam), r.corsMiddleware(nil))
	r.mux.HandleFunc(fmt.Sprintf("OPTIONS /{%s}/rpc/events", endpointIDPathParam), r.corsMiddleware(nil))

	// /api/v1/endpoints - endpoint directory management
	api := http.NewServeMux()
	api.HandleFunc("GET /api/v1/endpoints", r.handleListEndpoints)
	api.HandleFunc("POST /api/v1/endpoints", r.handleCreateEndpoint)
	api.HandleFunc(fmt.Sprintf("GET /api/v1/endpoints/{%s}", endpointIDPathParam), r.handleGetEndpoint)
	api.HandleFunc(fmt.Sprintf("PUT /api/v1/endpoints/{%s}", endpointIDPathParam), r.handleUpdateEndpoint)
	api.HandleFunc(fmt.Sprintf("DELETE /api/v1/endpoints/{%s}", endpointIDPathParam), r.handleDeleteEndpoint)

	var apiHandler http.Handler = api
	if logAPIRequests {
		apiHandler = requestlog.Wrap(apiHandler)
	}
	r.mux.Handle("/api/v1/endpoints", apiHandler)
	r.mux.Handle("/api/v1/endpoints/", apiHandler)
}

// Start serves the router on the configured port until ctx is done, then shuts down gracefully.
// Open duplex sessions are closed on shutdown since hijacked connections are not tracked by the server.
func (r *router) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", r.config.Port),
		Handler:           r.mux,
		ReadHeaderTimeout: r.config.ReadHeaderTimeout,
		ReadTimeout:       r.config.ReadTimeout,
		WriteTimeout:      r.config.WriteTimeout,
		IdleTimeout:       r.config.IdleTimeout,
		MaxHeaderBytes:    r.config.MaxRequestHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info().Msgf("zeth running on port %d", r.config.Port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	r.logger.Info().Msg("shutting down zeth router")
	r.duplex.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), r.config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("router shutdown: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ServeHTTP allows the router to be mounted directly, eg. by httptest.
func (r *router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

/* --------------------------------- Middleware -------------------------------- */

// corsMiddleware allows browser clients of any origin to relay and subscribe.
// A nil next only answers preflight requests.
func (r *router) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if req.Method == http.MethodOptions || next == nil {
			// Handle preflight request, which is necessary for CORS to work.
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, req)
	}
}
