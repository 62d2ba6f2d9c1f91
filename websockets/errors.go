package websockets

import "errors"

// Session shutdown causes, used to pick the close code sent to the surviving side.
var (
	// ErrClientDisconnected indicates the client closed its socket or its connection dropped.
	ErrClientDisconnected = errors.New("client disconnected")

	// ErrEndpointDisconnected indicates the endpoint closed its socket or its connection dropped.
	ErrEndpointDisconnected = errors.New("endpoint disconnected")

	// ErrClientIdle indicates the client sent no data and answered no ping within the idle timeout.
	ErrClientIdle = errors.New("client idle timeout")

	// ErrClientMessageTooLarge indicates the client sent a frame larger than the configured read limit.
	ErrClientMessageTooLarge = errors.New("client message too large")

	// ErrSessionCancelled indicates the session was shut down from the server side,
	// e.g. during graceful shutdown.
	ErrSessionCancelled = errors.New("session cancelled")
)
