package hub

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zees-dev/zeth/endpoint"
)

// entry is the broadcast state of a single endpoint: one publisher, zero or more consumers.
// Its own lock guards the consumer set, so once an entry exists publish and subscribe never touch the hub's map lock.
type entry struct {
	endpointID endpoint.ID
	bufferSize int

	// mu is held for the whole of a publish so every consumer observes the same message order.
	mu          sync.Mutex
	consumers   map[uuid.UUID]*Consumer
	lastPublish time.Time
	closed      bool
}

func newEntry(endpointID endpoint.ID, bufferSize int, now time.Time) *entry {
	return &entry{
		endpointID:  endpointID,
		bufferSize:  bufferSize,
		consumers:   make(map[uuid.UUID]*Consumer),
		lastPublish: now,
	}
}

// publish delivers msg to every consumer without blocking.
// It reports the number of consumers that missed the message, and false if the entry was already reclaimed.
func (e *entry) publish(msg []byte, now time.Time) (dropped int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return 0, false
	}

	for _, c := range e.consumers {
		if !c.deliver(msg) {
			dropped++
		}
	}

	e.lastPublish = now
	return dropped, true
}

func (e *entry) subscribe() (*Consumer, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, false
	}

	c := newConsumer(e, e.bufferSize)
	e.consumers[c.id] = c
	return c, true
}

func (e *entry) unsubscribe(id uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.consumers, id)
}

// closeIfIdle marks the entry closed when it has no consumers and no publish since the cutoff.
func (e *entry) closeIfIdle(cutoff time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.consumers) > 0 || e.lastPublish.After(cutoff) {
		return false
	}
	e.closed = true
	return true
}

// close ends every consumer's stream. Messages already buffered stay readable.
func (e *entry) close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed = true
	for id, c := range e.consumers {
		close(c.msgs)
		delete(e.consumers, id)
	}
}

func (e *entry) consumerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.consumers)
}
