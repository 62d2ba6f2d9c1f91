package events

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/zees-dev/zeth/endpoint"
	"github.com/zees-dev/zeth/hub"
	"github.com/zees-dev/zeth/metrics"
)

// next is one result of Stream.Next, handed from the reading goroutine to the writer.
type next struct {
	msg []byte
	err error
}

// ServeSSE subscribes to the endpoint and writes its messages to w as server-sent events
// until the stream ends or the client goes away.
//
// Errors from Subscribe are returned before anything is written, so the caller can still
// choose a status code. Once streaming has started ServeSSE returns nil.
func (s *Service) ServeSSE(w http.ResponseWriter, r *http.Request, endpointID endpoint.ID) error {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	stream, err := s.Subscribe(ctx, endpointID)
	if err != nil {
		return err
	}
	defer stream.Close()

	logger := s.logger.With(
		"endpoint_id", string(endpointID),
		"consumer_id", stream.ID(),
	)

	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		logger.Error().Err(err).Msg("response writer does not support flushing")
		return nil
	}

	results := make(chan next)
	go func() {
		for {
			msg, err := stream.Next(ctx)
			select {
			case results <- next{msg: msg, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	keepAlive := time.NewTicker(s.config.KeepAliveInterval)
	defer keepAlive.Stop()

	logger.Debug().Msg("event stream opened")
	for {
		var frame []byte
		select {
		case <-ctx.Done():
			logger.Debug().Msg("event stream closed by client")
			return nil

		case <-keepAlive.C:
			frame = []byte(": keep-alive\n\n")

		case res := <-results:
			if res.err != nil {
				switch {
				case errors.Is(res.err, hub.ErrConsumerLagged):
					logger.Info().Msg("event stream ended: subscriber lagged behind")
				case errors.Is(res.err, hub.ErrEntryClosed):
					logger.Info().Msg("event stream ended: hub entry closed")
				default:
					logger.Debug().Err(res.err).Msg("event stream ended")
				}
				return nil
			}
			frame = encodeEvent(res.msg)
			metrics.EventSent(string(endpointID))
		}

		if _, err := w.Write(frame); err != nil {
			logger.Debug().Err(err).Msg("failed to write event")
			return nil
		}
		if err := rc.Flush(); err != nil {
			logger.Debug().Err(err).Msg("failed to flush event")
			return nil
		}
	}
}

// encodeEvent frames msg as one event. The payload is decoded as UTF-8 with invalid
// sequences replaced by U+FFFD, and every line becomes its own data field.
func encodeEvent(msg []byte) []byte {
	data := strings.ToValidUTF8(string(msg), "\uFFFD")
	data = strings.ReplaceAll(data, "\r\n", "\n")
	data = strings.ReplaceAll(data, "\r", "\n")

	var buf bytes.Buffer
	for _, line := range strings.Split(data, "\n") {
		buf.WriteString("data: ")
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}
