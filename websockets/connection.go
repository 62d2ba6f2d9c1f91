package websockets

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pokt-network/poktroll/pkg/polylog"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// DefaultIdleTimeout is how long a client may go without sending data or answering a ping.
	DefaultIdleTimeout = 60 * time.Second

	// DefaultPingPeriod must be less than DefaultIdleTimeout.
	DefaultPingPeriod = (DefaultIdleTimeout * 9) / 10

	// DefaultHandshakeTimeout bounds the upstream websocket handshake.
	DefaultHandshakeTimeout = 10 * time.Second
)

// messageSource identifies a side of a session.
//
// Full data flow: Client <------> zeth <------> Endpoint
type messageSource string

const (
	messageSourceClient   messageSource = "client"
	messageSourceEndpoint messageSource = "endpoint"
	messageSourceServer   messageSource = "server"
)

// connection is one leg of a session: the socket to either the client or the endpoint.
type connection struct {
	logger polylog.Logger

	*websocket.Conn

	source messageSource

	// writeMu serializes data frame writes. Control frames go through WriteControl which is already safe.
	writeMu sync.Mutex

	// idleTimeout extends the read deadline on every frame and pong. 0 means no deadline.
	idleTimeout time.Duration

	bytesRead  atomic.Int64
	framesRead atomic.Int64
}

// ConnectWebsocketEndpoint dials the endpoint's websocket URL.
// The handshake is bounded by both ctx and handshakeTimeout.
func ConnectWebsocketEndpoint(
	ctx context.Context,
	logger polylog.Logger,
	websocketURL string,
	headers http.Header,
	handshakeTimeout time.Duration,
) (*websocket.Conn, error) {
	if handshakeTimeout <= 0 {
		handshakeTimeout = DefaultHandshakeTimeout
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
	}

	conn, resp, err := dialer.DialContext(ctx, websocketURL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("ConnectWebsocketEndpoint: handshake with %s failed with status %d: %w", websocketURL, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("ConnectWebsocketEndpoint: dial %s: %w", websocketURL, err)
	}

	logger.Debug().Str("websocket_url", websocketURL).Msg("connected to websocket endpoint")
	return conn, nil
}

func newConnection(
	logger polylog.Logger,
	conn *websocket.Conn,
	source messageSource,
	idleTimeout time.Duration,
	readLimit int64,
) *connection {
	c := &connection{
		logger:      logger.With("conn", source),
		Conn:        conn,
		source:      source,
		idleTimeout: idleTimeout,
	}

	// Oversized frames fail the read and are answered with a 1009 close by gorilla.
	if readLimit > 0 {
		c.SetReadLimit(readLimit)
	}

	// Set before any read starts: handlers run on the reading goroutine.
	if idleTimeout > 0 {
		c.extendReadDeadline()
		c.SetPongHandler(func(string) error {
			c.extendReadDeadline()
			return nil
		})
	}

	return c
}

// readMessage returns the next data frame. Pings are answered and pongs consumed by the
// gorilla handlers while it blocks, so only text and binary frames are returned.
func (c *connection) readMessage() (int, []byte, error) {
	messageType, data, err := c.ReadMessage()
	if err != nil {
		return 0, nil, err
	}

	c.bytesRead.Add(int64(len(data)))
	c.framesRead.Add(1)
	c.extendReadDeadline()
	return messageType, data, nil
}

func (c *connection) writeMessage(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.WriteMessage(messageType, data)
}

// writeClose sends a close frame without waiting for the peer's reply.
func (c *connection) writeClose(code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	if err := c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		c.logger.Debug().Err(err).Msg("failed to send close frame")
	}
}

func (c *connection) extendReadDeadline() {
	if c.idleTimeout <= 0 {
		return
	}
	if err := c.SetReadDeadline(time.Now().Add(c.idleTimeout)); err != nil {
		c.logger.Error().Err(err).Msg("failed to extend read deadline")
	}
}

// pingLoop sends keep-alive pings until ctx is done. A missing pong lets the read deadline
// expire, which ends the leg reading from this connection.
// See: https://pkg.go.dev/github.com/gorilla/websocket#hdr-Control_Messages
func (c *connection) pingLoop(ctx context.Context, pingPeriod time.Duration) {
	if pingPeriod <= 0 {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.logger.Debug().Err(err).Msg("failed to send ping")
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// isTimeout reports whether err is a read deadline expiry.
func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
