package endpoint

import "errors"

var (
	// no endpoint is registered under the requested ID.
	ErrEndpointNotFound = errors.New("endpoint not found")

	// the endpoint exists but has been disabled by an operator.
	ErrEndpointDisabled = errors.New("endpoint disabled")

	// another endpoint already uses the same (case-insensitive, trimmed) name.
	ErrDuplicateName = errors.New("endpoint with that name already exists")

	// the endpoint descriptor failed validation, eg a missing or malformed RPC URL.
	ErrInvalidEndpoint = errors.New("invalid endpoint")
)
