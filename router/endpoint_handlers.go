package router

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/zees-dev/zeth/endpoint"
)

// maxEndpointBodyBytes bounds endpoint descriptors accepted by the API.
const maxEndpointBodyBytes = 64 * 1024

type createdJSON struct {
	ID endpoint.ID `json:"id"`
}

// GET /api/v1/endpoints
func (r *router) handleListEndpoints(w http.ResponseWriter, req *http.Request) {
	endpoints, err := r.directory.List(req.Context())
	if err != nil {
		r.writeError(w, err)
		return
	}
	if endpoints == nil {
		endpoints = []endpoint.Endpoint{}
	}
	r.writeJSON(w, http.StatusOK, endpoints)
}

// POST /api/v1/endpoints
func (r *router) handleCreateEndpoint(w http.ResponseWriter, req *http.Request) {
	e, err := decodeEndpoint(req.Body)
	if err != nil {
		r.writeError(w, err)
		return
	}

	id, err := r.directory.Create(req.Context(), e)
	if err != nil {
		r.writeError(w, err)
		return
	}

	r.writeJSON(w, http.StatusCreated, createdJSON{ID: id})
}

// GET /api/v1/endpoints/{endpoint_id}
func (r *router) handleGetEndpoint(w http.ResponseWriter, req *http.Request) {
	e, err := r.directory.Get(req.Context(), endpoint.ID(req.PathValue(endpointIDPathParam)))
	if err != nil {
		r.writeError(w, err)
		return
	}
	r.writeJSON(w, http.StatusOK, e)
}

// PUT /api/v1/endpoints/{endpoint_id}
func (r *router) handleUpdateEndpoint(w http.ResponseWriter, req *http.Request) {
	id := endpoint.ID(req.PathValue(endpointIDPathParam))

	e, err := decodeEndpoint(req.Body)
	if err != nil {
		r.writeError(w, err)
		return
	}

	updated, err := r.directory.Update(req.Context(), id, e)
	if err != nil {
		r.writeError(w, err)
		return
	}

	r.logger.Info().Str("endpoint_id", string(id)).Msg("endpoint updated")
	r.writeJSON(w, http.StatusOK, updated)
}

// DELETE /api/v1/endpoints/{endpoint_id}
func (r *router) handleDeleteEndpoint(w http.ResponseWriter, req *http.Request) {
	id := endpoint.ID(req.PathValue(endpointIDPathParam))

	if err := r.directory.Delete(req.Context(), id); err != nil {
		r.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeEndpoint reads a JSON endpoint descriptor. Malformed bodies are reported as invalid endpoints.
func decodeEndpoint(body io.Reader) (endpoint.Endpoint, error) {
	var e endpoint.Endpoint
	decoder := json.NewDecoder(io.LimitReader(body, maxEndpointBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&e); err != nil {
		return endpoint.Endpoint{}, fmt.Errorf("%w: %s", endpoint.ErrInvalidEndpoint, err.Error())
	}
	return e, nil
}
