package router

import (
	"errors"
	"net/http"

	"github.com/zees-dev/zeth/endpoint"
	"github.com/zees-dev/zeth/relay"
)

// POST /{endpoint_id}/rpc - handleHTTPRelay forwards the body to the endpoint and
// writes the upstream status, headers and body back unchanged.
func (r *router) handleHTTPRelay(w http.ResponseWriter, req *http.Request) {
	endpointID := endpoint.ID(req.PathValue(endpointIDPathParam))

	resp, err := r.httpRelay.Forward(req.Context(), endpointID, req)
	if err != nil {
		r.writeError(w, err)
		return
	}

	for key, values := range resp.Header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(resp.Body); err != nil {
		r.logger.Info().Err(err).Str("endpoint_id", string(endpointID)).Msg("error writing relay response")
	}
}

// GET /{endpoint_id}/rpc - handleDuplexRelay upgrades the request and relays frames until either side closes.
// A plain GET is answered with 426.
func (r *router) handleDuplexRelay(w http.ResponseWriter, req *http.Request) {
	endpointID := endpoint.ID(req.PathValue(endpointIDPathParam))

	if !relay.IsUpgradeRequest(req) {
		w.Header().Set("Upgrade", "websocket")
		r.writeJSON(w, http.StatusUpgradeRequired, errorJSON{Error: "websocket upgrade required"})
		return
	}

	err := r.duplex.Open(req.Context(), endpointID, w, req)
	switch {
	case err == nil:
	case errors.Is(err, relay.ErrUpgradeFailed):
		// The upgrader has already written the response.
		r.logger.Info().Err(err).Str("endpoint_id", string(endpointID)).Msg("client upgrade failed")
	case errors.Is(err, relay.ErrSessionEnded):
		// The connection is hijacked; only log why it ended.
		r.logger.Debug().Err(err).Str("endpoint_id", string(endpointID)).Msg("duplex session ended")
	default:
		r.writeError(w, err)
	}
}

// GET /{endpoint_id}/rpc/events - handleEvents streams every message relayed from the endpoint.
func (r *router) handleEvents(w http.ResponseWriter, req *http.Request) {
	endpointID := endpoint.ID(req.PathValue(endpointIDPathParam))

	if err := r.events.ServeSSE(w, req, endpointID); err != nil {
		r.writeError(w, err)
	}
}
