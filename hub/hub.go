// Package hub fans out relayed messages to independent subscribers.
//
// Every endpoint that has been relayed to owns one entry. Publishing never
// blocks: a consumer that cannot keep up misses messages and is told so once
// it has drained what it already buffered.
package hub

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pokt-network/poktroll/pkg/polylog"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/zees-dev/zeth/endpoint"
	"github.com/zees-dev/zeth/metrics"
)

const (
	// DefaultBufferSize is the number of messages a consumer may have outstanding before it lags.
	DefaultBufferSize = 2

	// DefaultIdleEntryTTL is how long an entry with no consumers survives without a publish.
	DefaultIdleEntryTTL = 10 * time.Minute

	// reclaimIntervalMax caps how often the janitor scans for idle entries.
	reclaimIntervalMax = time.Minute
)

// Config controls buffering and reclamation of hub entries.
type Config struct {
	BufferSize int
	// IdleEntryTTL of 0 disables reclamation.
	IdleEntryTTL time.Duration
}

// Stats is a point-in-time view of the hub.
type Stats struct {
	Entries   int `json:"entries"`
	Consumers int `json:"consumers"`
}

// Hub maps endpoint IDs to broadcast entries.
type Hub struct {
	logger polylog.Logger
	config Config

	entries *xsync.Map[endpoint.ID, *entry]

	// closed is set on shutdown. Publishes after it are dropped.
	closed atomic.Bool

	// now is overridden in tests.
	now func() time.Time
}

// NewHub returns an empty hub. Call Start to enable reclamation of idle entries.
func NewHub(logger polylog.Logger, config Config) *Hub {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultBufferSize
	}

	h := &Hub{
		logger:  logger.With("component", "hub"),
		config:  config,
		entries: xsync.NewMap[endpoint.ID, *entry](),
		now:     time.Now,
	}
	metrics.RegisterHubStats(func() (int, int) {
		stats := h.Stats()
		return stats.Entries, stats.Consumers
	})
	return h
}

// Publish delivers msg to every current consumer of the endpoint, creating its entry on first use.
// It never blocks on consumers. Publishing to a shut down hub is a no-op.
func (h *Hub) Publish(endpointID endpoint.ID, msg []byte) {
	for {
		e, ok := h.loadOrCreate(endpointID)
		if !ok {
			return
		}

		dropped, ok := e.publish(msg, h.now())
		if !ok {
			// Reclaimed between lookup and publish: the janitor has already removed it from the map.
			continue
		}

		metrics.HubMessagePublished(string(endpointID), dropped)
		if dropped > 0 {
			h.logger.Debug().
				Str("endpoint_id", string(endpointID)).
				Int("dropped", dropped).
				Msg("consumers missed a message")
		}
		return
	}
}

// loadOrCreate returns the endpoint's entry. Concurrent first touches agree on a single entry.
// It returns false once the hub is shut down.
func (h *Hub) loadOrCreate(endpointID endpoint.ID) (*entry, bool) {
	if h.closed.Load() {
		return nil, false
	}

	e, loaded := h.entries.LoadOrCompute(endpointID, func() (*entry, bool) {
		if h.closed.Load() {
			return nil, true
		}
		return newEntry(endpointID, h.config.BufferSize, h.now()), false
	})
	if e == nil {
		return nil, false
	}
	if !loaded {
		h.logger.Info().Str("endpoint_id", string(endpointID)).Msg("created hub entry")
	}
	return e, true
}

// Subscribe attaches a new consumer to the endpoint's entry.
// It returns ErrEndpointNotPublishing if nothing has been published for the endpoint.
func (h *Hub) Subscribe(endpointID endpoint.ID) (*Consumer, error) {
	e, ok := h.entries.Load(endpointID)
	if !ok {
		return nil, ErrEndpointNotPublishing
	}

	c, ok := e.subscribe()
	if !ok {
		return nil, ErrEndpointNotPublishing
	}

	h.logger.Debug().
		Str("endpoint_id", string(endpointID)).
		Str("consumer_id", c.ID()).
		Msg("consumer subscribed")
	return c, nil
}

// Stats counts entries and attached consumers.
func (h *Hub) Stats() Stats {
	var stats Stats
	h.entries.Range(func(_ endpoint.ID, e *entry) bool {
		stats.Entries++
		stats.Consumers += e.consumerCount()
		return true
	})
	return stats
}

// Start runs the idle-entry janitor until ctx is done, after which every entry is closed.
// It returns immediately.
func (h *Hub) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		h.closeAll()
	}()

	if h.config.IdleEntryTTL <= 0 {
		h.logger.Info().Msg("hub entry reclamation disabled")
		return
	}

	go h.reclaimLoop(ctx)
}

func (h *Hub) reclaimLoop(ctx context.Context) {
	interval := min(h.config.IdleEntryTTL/2, reclaimIntervalMax)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.reclaimIdle()
		}
	}
}

// reclaimIdle removes entries that have no consumers and no publish within IdleEntryTTL.
func (h *Hub) reclaimIdle() int {
	cutoff := h.now().Add(-h.config.IdleEntryTTL)

	var reclaimed int
	h.entries.Range(func(endpointID endpoint.ID, _ *entry) bool {
		h.entries.Compute(endpointID, func(e *entry, loaded bool) (*entry, xsync.ComputeOp) {
			if !loaded || !e.closeIfIdle(cutoff) {
				return e, xsync.CancelOp
			}
			reclaimed++
			return nil, xsync.DeleteOp
		})
		return true
	})

	if reclaimed > 0 {
		h.logger.Info().Int("reclaimed", reclaimed).Msg("reclaimed idle hub entries")
	}
	return reclaimed
}

// closeAll shuts the hub down. Each entry is closed and removed in one step so a
// concurrent Publish either sees the open entry or none at all.
func (h *Hub) closeAll() {
	h.closed.Store(true)

	h.entries.Range(func(endpointID endpoint.ID, _ *entry) bool {
		h.entries.Compute(endpointID, func(e *entry, loaded bool) (*entry, xsync.ComputeOp) {
			if !loaded {
				return e, xsync.CancelOp
			}
			e.close()
			return nil, xsync.DeleteOp
		})
		return true
	})
}
