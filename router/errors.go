package router

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zees-dev/zeth/endpoint"
	"github.com/zees-dev/zeth/hub"
	"github.com/zees-dev/zeth/relay"
)

type errorJSON struct {
	Error string `json:"error"`
}

// statusForError maps domain errors to HTTP status codes. Unknown errors are internal.
func statusForError(err error) int {
	switch {
	case errors.Is(err, endpoint.ErrEndpointNotFound):
		return http.StatusNotFound
	case errors.Is(err, endpoint.ErrEndpointDisabled):
		return http.StatusForbidden
	case errors.Is(err, endpoint.ErrDuplicateName),
		errors.Is(err, endpoint.ErrInvalidEndpoint),
		errors.Is(err, relay.ErrUnsupportedTransport):
		return http.StatusBadRequest
	case errors.Is(err, hub.ErrEndpointNotPublishing):
		return http.StatusConflict
	case errors.Is(err, relay.ErrUpstreamUnreachable),
		errors.Is(err, relay.ErrResponseTooLarge):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as a JSON body with its mapped status code.
// Internal errors are not echoed to the caller.
func (r *router) writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		r.logger.Error().Err(err).Msg("internal error serving request")
		message = http.StatusText(status)
	}
	r.writeJSON(w, status, errorJSON{Error: message})
}

func (r *router) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		r.logger.Error().Err(err).Msg("error writing JSON response")
	}
}
