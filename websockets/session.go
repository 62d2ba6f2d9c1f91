package websockets

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jpillora/sizestr"
	"github.com/pokt-network/poktroll/pkg/polylog"

	"github.com/zees-dev/zeth/endpoint"
	"github.com/zees-dev/zeth/metrics"
)

// SessionState is the lifecycle stage of a session.
// A session only moves forward: Connecting -> Active -> Closing -> Closed.
type SessionState int32

const (
	StateConnecting SessionState = iota
	StateActive
	StateClosing
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

// Publisher receives every data frame sent by the endpoint.
type Publisher interface {
	Publish(endpointID endpoint.ID, msg []byte)
}

// SessionConfig controls the client keep-alive and frame size limit.
type SessionConfig struct {
	// PingPeriod must be less than IdleTimeout. 0 disables pings.
	PingPeriod time.Duration
	// IdleTimeout is how long the client may stay silent. 0 disables the idle check.
	IdleTimeout time.Duration
	// MaxMessageBytes bounds a single client frame. 0 means no limit.
	MaxMessageBytes int64
}

// Session pairs one client socket with one endpoint socket for the lifetime of the client connection.
// Either side closing or failing ends the whole session. There is no reconnect.
//
// Full data flow: Client <------> Session <------> Endpoint
//
//	                                  |
//	                                  +------> Publisher
type Session struct {
	id         uuid.UUID
	endpointID endpoint.ID
	logger     polylog.Logger
	config     SessionConfig

	clientConn   *connection
	endpointConn *connection
	publisher    Publisher

	state atomic.Int32

	// done is closed by the first call to terminate. closedBy and closeErr record its cause.
	done          chan struct{}
	terminateOnce sync.Once
	closedBy      messageSource
	closeErr      error
}

// NewSession wraps an upgraded client socket and a dialed endpoint socket.
// The session is in the Connecting state until Run is called.
func NewSession(
	logger polylog.Logger,
	endpointID endpoint.ID,
	clientWSSConn *websocket.Conn,
	endpointWSSConn *websocket.Conn,
	publisher Publisher,
	config SessionConfig,
) *Session {
	id := uuid.New()

	logger = logger.With(
		"component", "ws_session",
		"session_id", id.String(),
		"endpoint_id", string(endpointID),
	)

	return &Session{
		id:         id,
		endpointID: endpointID,
		logger:     logger,
		config:     config,

		clientConn:   newConnection(logger, clientWSSConn, messageSourceClient, config.IdleTimeout, config.MaxMessageBytes),
		endpointConn: newConnection(logger, endpointWSSConn, messageSourceEndpoint, 0, 0),
		publisher:    publisher,

		done: make(chan struct{}),
	}
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id.String() }

// State returns the current lifecycle stage.
func (s *Session) State() SessionState { return SessionState(s.state.Load()) }

func (s *Session) setState(state SessionState) { s.state.Store(int32(state)) }

// Run pumps frames in both directions until either side closes, fails, or ctx is done.
// It releases both sockets before returning the cause of the shutdown.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancelCtx := context.WithCancel(ctx)
	defer cancelCtx()

	startedAt := time.Now()
	s.setState(StateActive)
	metrics.SessionOpened()
	s.logger.Info().Msg("websocket session started")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.pump(s.clientConn, s.endpointConn)
	}()
	go func() {
		defer wg.Done()
		s.pump(s.endpointConn, s.clientConn)
	}()
	go s.clientConn.pingLoop(ctx, s.config.PingPeriod)

	select {
	case <-s.done:
	case <-ctx.Done():
		s.terminate(messageSourceServer, ErrSessionCancelled)
	}
	cancelCtx()

	s.setState(StateClosing)
	s.closeConnections()
	wg.Wait()
	s.setState(StateClosed)

	metrics.SessionClosed(string(s.endpointID), string(s.closedBy))
	s.logger.Info().
		Str("closed_by", string(s.closedBy)).
		Str("duration", time.Since(startedAt).Round(time.Millisecond).String()).
		Str("client_bytes", sizestr.ToString(s.clientConn.bytesRead.Load())).
		Str("endpoint_bytes", sizestr.ToString(s.endpointConn.bytesRead.Load())).
		Int64("client_frames", s.clientConn.framesRead.Load()).
		Int64("endpoint_frames", s.endpointConn.framesRead.Load()).
		Err(s.closeErr).
		Msg("websocket session closed")

	return s.closeErr
}

// Close ends the session from the server side. Run returns ErrSessionCancelled.
func (s *Session) Close() {
	s.terminate(messageSourceServer, ErrSessionCancelled)
}

// pump forwards data frames from src to dst until either fails.
// Frames from the endpoint are also handed to the publisher.
func (s *Session) pump(src, dst *connection) {
	for {
		messageType, data, err := src.readMessage()
		if err != nil {
			s.terminate(src.source, s.readError(src, err))
			return
		}

		if err := dst.writeMessage(messageType, data); err != nil {
			s.terminate(dst.source, fmt.Errorf("%w: write: %v", disconnectError(dst.source), err))
			return
		}

		if src.source == messageSourceEndpoint {
			metrics.FrameRelayed(string(s.endpointID), "downstream")
			s.publisher.Publish(s.endpointID, data)
		} else {
			metrics.FrameRelayed(string(s.endpointID), "upstream")
		}
	}
}

func (s *Session) readError(src *connection, err error) error {
	if src.source == messageSourceClient {
		switch {
		case isTimeout(err):
			return fmt.Errorf("%w: %v", ErrClientIdle, err)
		case errors.Is(err, websocket.ErrReadLimit):
			return fmt.Errorf("%w: %w", ErrClientMessageTooLarge, err)
		}
	}
	return fmt.Errorf("%w: %w", disconnectError(src.source), err)
}

func disconnectError(source messageSource) error {
	if source == messageSourceClient {
		return ErrClientDisconnected
	}
	return ErrEndpointDisconnected
}

// terminate records the first cause of shutdown and wakes Run, which stops the other leg.
func (s *Session) terminate(source messageSource, err error) {
	s.terminateOnce.Do(func() {
		s.closedBy = source
		s.closeErr = err
		close(s.done)
	})
}

// closeConnections sends a best-effort close frame to both sides and releases both sockets.
// Closing the sockets unblocks any pending read in either leg.
func (s *Session) closeConnections() {
	code, reason := closeCode(s.closeErr)
	s.clientConn.writeClose(code, reason)
	s.endpointConn.writeClose(code, reason)

	if err := s.clientConn.Close(); err != nil {
		s.logger.Debug().Err(err).Msg("error closing client connection")
	}
	if err := s.endpointConn.Close(); err != nil {
		s.logger.Debug().Err(err).Msg("error closing endpoint connection")
	}
}

// closeCode mirrors a peer's close code to the other side, and otherwise maps the shutdown cause.
func closeCode(err error) (int, string) {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		switch closeErr.Code {
		case websocket.CloseNoStatusReceived, websocket.CloseAbnormalClosure, websocket.CloseTLSHandshake:
			// Reserved codes that must not be sent on the wire.
		default:
			return closeErr.Code, closeErr.Text
		}
	}

	switch {
	case errors.Is(err, ErrSessionCancelled):
		return websocket.CloseGoingAway, "server shutting down"
	case errors.Is(err, ErrClientIdle):
		return websocket.CloseGoingAway, "idle timeout"
	case errors.Is(err, ErrClientMessageTooLarge):
		return websocket.CloseMessageTooBig, "message too large"
	case errors.Is(err, ErrEndpointDisconnected):
		return websocket.CloseGoingAway, "endpoint disconnected"
	default:
		return websocket.CloseNormalClosure, ""
	}
}
