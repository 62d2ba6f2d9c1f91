package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pokt-network/poktroll/pkg/polylog"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/zees-dev/zeth/endpoint"
	"github.com/zees-dev/zeth/websockets"
)

// ErrUpgradeFailed is returned when the client handshake fails after the upstream was dialed.
// The upgrader has already written an HTTP error response.
var ErrUpgradeFailed = errors.New("client websocket upgrade failed")

// ErrSessionEnded wraps the cause returned by Open once a session has run.
// The client connection has been hijacked by then, so nothing more can be written to it.
var ErrSessionEnded = errors.New("duplex session ended")

// DuplexConfig controls the upstream handshake, the client keep-alive and the client frame size limit.
type DuplexConfig struct {
	HandshakeTimeout time.Duration
	PingPeriod       time.Duration
	IdleTimeout      time.Duration
	MaxMessageBytes  int64
	EnforceEnabled   bool
}

// DuplexRelay pairs client websockets with a fresh socket to the endpoint's rpc_ws URL.
// There is no pooling: every client session dials its own upstream socket.
type DuplexRelay struct {
	logger    polylog.Logger
	resolver  resolver
	publisher Publisher
	config    DuplexConfig

	upgrader websocket.Upgrader

	// sessions tracks open sessions by ID so they can be closed on shutdown.
	sessions *xsync.Map[string, *websockets.Session]
}

// NewDuplexRelay returns a relay that resolves targets through directory and publishes endpoint frames to publisher.
func NewDuplexRelay(
	logger polylog.Logger,
	directory endpoint.Getter,
	publisher Publisher,
	config DuplexConfig,
) *DuplexRelay {
	if config.HandshakeTimeout <= 0 {
		config.HandshakeTimeout = websockets.DefaultHandshakeTimeout
	}

	return &DuplexRelay{
		logger:    logger.With("component", "duplex_relay"),
		resolver:  resolver{directory: directory, enforceEnabled: config.EnforceEnabled},
		publisher: publisher,
		config:    config,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		sessions: xsync.NewMap[string, *websockets.Session](),
	}
}

// Open relays the websocket upgrade request r to the endpoint and blocks until the session ends.
//
// The upstream is dialed before the client is upgraded, so resolution and dial failures are
// returned without writing anything to w and can be reported as plain HTTP errors.
// After a successful upgrade, Open returns the cause that ended the session wrapped in ErrSessionEnded.
func (d *DuplexRelay) Open(ctx context.Context, endpointID endpoint.ID, w http.ResponseWriter, r *http.Request) error {
	e, err := d.resolver.resolve(ctx, endpointID)
	if err != nil {
		return err
	}

	if !e.SupportsWS() {
		return fmt.Errorf("%w: %s", ErrUnsupportedTransport, endpointID)
	}

	endpointConn, err := websockets.ConnectWebsocketEndpoint(ctx, d.logger, e.RPCWS, dialHeaders(r.Header), d.config.HandshakeTimeout)
	if err != nil {
		d.logger.Info().Err(err).Str("endpoint_id", string(endpointID)).Msg("failed to dial upstream websocket")
		return fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}

	// The subprotocol chosen upstream is the one offered to the client.
	var responseHeader http.Header
	if subprotocol := endpointConn.Subprotocol(); subprotocol != "" {
		responseHeader = http.Header{"Sec-Websocket-Protocol": {subprotocol}}
	}

	clientConn, err := d.upgrader.Upgrade(w, r, responseHeader)
	if err != nil {
		endpointConn.Close()
		return fmt.Errorf("%w: %v", ErrUpgradeFailed, err)
	}

	session := websockets.NewSession(
		d.logger,
		endpointID,
		clientConn,
		endpointConn,
		d.publisher,
		websockets.SessionConfig{
			PingPeriod:      d.config.PingPeriod,
			IdleTimeout:     d.config.IdleTimeout,
			MaxMessageBytes: d.config.MaxMessageBytes,
		},
	)

	d.sessions.Store(session.ID(), session)
	defer d.sessions.Delete(session.ID())

	if err := session.Run(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrSessionEnded, err)
	}
	return nil
}

// ActiveSessions returns the number of open sessions.
func (d *DuplexRelay) ActiveSessions() int {
	return d.sessions.Size()
}

// CloseAll ends every open session. Hijacked connections are not tracked by http.Server.Shutdown.
func (d *DuplexRelay) CloseAll() {
	d.sessions.Range(func(_ string, session *websockets.Session) bool {
		session.Close()
		return true
	})
}

// dialHeaders selects the client handshake headers forwarded to the upstream handshake.
func dialHeaders(h http.Header) http.Header {
	out := http.Header{}
	if protocols := h.Values("Sec-Websocket-Protocol"); len(protocols) > 0 {
		out["Sec-Websocket-Protocol"] = protocols
	}
	return out
}

// IsUpgradeRequest reports whether r asks for a websocket upgrade.
func IsUpgradeRequest(r *http.Request) bool {
	return websocket.IsWebSocketUpgrade(r)
}
