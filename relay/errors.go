package relay

import "errors"

var (
	// ErrUnsupportedTransport is returned when a duplex session is requested for an endpoint without a websocket URL.
	ErrUnsupportedTransport = errors.New("endpoint does not support websocket relays")

	// ErrUpstreamUnreachable is returned when the endpoint's node cannot be reached or fails mid-response.
	ErrUpstreamUnreachable = errors.New("upstream unreachable")

	// ErrResponseTooLarge is returned when an upstream response body exceeds the configured limit.
	ErrResponseTooLarge = errors.New("upstream response too large")
)
