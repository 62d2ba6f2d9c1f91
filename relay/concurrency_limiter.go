package relay

import (
	"context"
	"sync/atomic"

	"github.com/zees-dev/zeth/metrics"
)

// DefaultMaxConcurrentRequests bounds in-flight upstream HTTP requests across all endpoints.
const DefaultMaxConcurrentRequests = 1000

// concurrencyLimiter bounds concurrent upstream requests via semaphore pattern.
type concurrencyLimiter struct {
	semaphore chan struct{}
	active    atomic.Int64
}

func newConcurrencyLimiter(maxConcurrent int) *concurrencyLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentRequests
	}
	return &concurrencyLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
	}
}

// acquire blocks until a slot is available or ctx is done.
func (cl *concurrencyLimiter) acquire(ctx context.Context) error {
	select {
	case cl.semaphore <- struct{}{}:
		metrics.SetHTTPRelaysInFlight(cl.active.Add(1))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// release returns a slot. Releasing more than was acquired is a no-op.
func (cl *concurrencyLimiter) release() {
	select {
	case <-cl.semaphore:
		metrics.SetHTTPRelaysInFlight(cl.active.Add(-1))
	default:
	}
}

func (cl *concurrencyLimiter) activeRequests() int64 {
	return cl.active.Load()
}
