package endpoint

import (
	"strings"
	"time"
)

// A unique identifier for a registered endpoint. It is passed as the first path segment of
// every relay request URL, eg `/{endpoint_id}/rpc`.
type ID string

// Transport is a relay shape an Endpoint can serve.
type Transport string

const (
	// TransportHTTP is the one-shot request/response relay against Endpoint.RPCHTTP.
	TransportHTTP Transport = "http"
	// TransportWS is the duplex websocket relay against Endpoint.RPCWS.
	TransportWS Transport = "ws"
)

// An Endpoint represents a remote blockchain node registered with zeth.
//
// An Endpoint is only ever addressed by its ID; Name is a human label whose
// uniqueness is enforced by the directory when endpoints are created or updated.
type Endpoint struct {
	// The unique identifier assigned by the directory on create.
	ID ID `json:"id" yaml:"id"`
	// Human readable label, unique among endpoints (case-insensitive, trimmed).
	Name string `json:"name" yaml:"name" validate:"required,max=128"`
	// Whether the endpoint is a local development node.
	IsDev bool `json:"is_dev" yaml:"is_dev"`
	// Whether relay and subscription traffic is accepted for the endpoint.
	Enabled bool `json:"enabled" yaml:"enabled"`
	// Time the endpoint was first registered.
	DateAdded time.Time `json:"date_added" yaml:"date_added"`
	// Optional block explorer URL, descriptive only.
	ExplorerURL string `json:"explorer_url,omitempty" yaml:"explorer_url,omitempty" validate:"omitempty,url"`
	// Required URL for request/response JSON-RPC calls.
	RPCHTTP string `json:"rpc_http" yaml:"rpc_http" validate:"required,url"`
	// Optional URL for duplex JSON-RPC calls. Empty means the duplex relay is unsupported.
	RPCWS string `json:"rpc_ws,omitempty" yaml:"rpc_ws,omitempty" validate:"omitempty,url"`
}

// Transports reports the relay shapes the endpoint can serve.
// HTTP is always present; WS only when an RPCWS URL is set.
func (e Endpoint) Transports() []Transport {
	transports := []Transport{TransportHTTP}
	if e.SupportsWS() {
		transports = append(transports, TransportWS)
	}
	return transports
}

// SupportsWS returns true if the endpoint has a duplex RPC URL.
func (e Endpoint) SupportsWS() bool {
	return strings.TrimSpace(e.RPCWS) != ""
}

// NormalizedName returns the name used for uniqueness comparisons.
func (e Endpoint) NormalizedName() string {
	return NormalizeName(e.Name)
}

// NormalizeName trims and lower-cases an endpoint name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
