package hub

import "errors"

var (
	// ErrEndpointNotPublishing is returned by Subscribe when no relay has published for the endpoint yet.
	// A subscriber can only attach to an entry, never create one.
	ErrEndpointNotPublishing = errors.New("endpoint is not publishing")

	// ErrConsumerLagged is returned once a consumer has drained every message buffered before it missed one.
	ErrConsumerLagged = errors.New("consumer lagged behind publisher")

	// ErrEntryClosed is returned once a consumer has drained its buffer after its entry was reclaimed.
	ErrEntryClosed = errors.New("hub entry closed")

	// ErrConsumerClosed is returned by Receive after Close.
	ErrConsumerClosed = errors.New("consumer closed")
)
