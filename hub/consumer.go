package hub

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/zees-dev/zeth/endpoint"
)

// Consumer is one independent subscription to an endpoint's broadcast stream.
// It must be closed once the caller stops reading.
type Consumer struct {
	id    uuid.UUID
	entry *entry

	// msgs is written only while holding entry.mu, and closed by the entry when it is reclaimed.
	msgs chan []byte

	// lagged is set the first time a message could not be buffered. A lagged consumer receives nothing further.
	lagged atomic.Bool

	done      chan struct{}
	closeOnce sync.Once
}

func newConsumer(e *entry, bufferSize int) *Consumer {
	return &Consumer{
		id:    uuid.New(),
		entry: e,
		msgs:  make(chan []byte, bufferSize),
		done:  make(chan struct{}),
	}
}

// ID identifies the consumer in logs.
func (c *Consumer) ID() string { return c.id.String() }

// EndpointID returns the endpoint whose stream the consumer is attached to.
func (c *Consumer) EndpointID() endpoint.ID { return c.entry.endpointID }

// deliver is a non-blocking send; it returns false if the message was dropped.
func (c *Consumer) deliver(msg []byte) bool {
	if c.lagged.Load() {
		return false
	}

	select {
	case c.msgs <- msg:
		return true
	default:
		c.lagged.Store(true)
		return false
	}
}

// Receive blocks until the next message is available.
//
// Messages buffered before a gap are returned first. Once the buffer is empty:
//   - a consumer that missed a message returns ErrConsumerLagged
//   - a consumer whose entry was reclaimed returns ErrEntryClosed
//   - a closed consumer returns ErrConsumerClosed
func (c *Consumer) Receive(ctx context.Context) ([]byte, error) {
	// Nothing is delivered after the lag flag is set, so the buffer is final once it is observed.
	if c.lagged.Load() {
		select {
		case msg, ok := <-c.msgs:
			return receiveResult(msg, ok)
		default:
			return nil, ErrConsumerLagged
		}
	}

	select {
	case msg, ok := <-c.msgs:
		return receiveResult(msg, ok)
	case <-c.done:
		return nil, ErrConsumerClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func receiveResult(msg []byte, ok bool) ([]byte, error) {
	if !ok {
		return nil, ErrEntryClosed
	}
	return msg, nil
}

// Close unsubscribes the consumer. It is safe to call more than once and never affects other consumers.
func (c *Consumer) Close() {
	c.closeOnce.Do(func() {
		c.entry.unsubscribe(c.id)
		close(c.done)
	})
}
