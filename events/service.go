// Package events exposes an endpoint's fan-out stream to passive subscribers.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pokt-network/poktroll/pkg/polylog"

	"github.com/zees-dev/zeth/endpoint"
	"github.com/zees-dev/zeth/hub"
	"github.com/zees-dev/zeth/metrics"
)

// DefaultKeepAliveInterval is how often an idle event stream receives a comment line.
const DefaultKeepAliveInterval = 15 * time.Second

// Subscriber attaches consumers to an endpoint's hub entry.
type Subscriber interface {
	Subscribe(endpointID endpoint.ID) (*hub.Consumer, error)
}

// Config controls event streams.
type Config struct {
	KeepAliveInterval time.Duration
	EnforceEnabled    bool
}

// Service turns hub subscriptions into streams.
type Service struct {
	logger     polylog.Logger
	directory  endpoint.Getter
	subscriber Subscriber
	config     Config
}

// NewService returns a Service that verifies endpoints through directory before subscribing.
func NewService(logger polylog.Logger, directory endpoint.Getter, subscriber Subscriber, config Config) *Service {
	if config.KeepAliveInterval <= 0 {
		config.KeepAliveInterval = DefaultKeepAliveInterval
	}

	return &Service{
		logger:     logger.With("component", "events"),
		directory:  directory,
		subscriber: subscriber,
		config:     config,
	}
}

// Subscribe opens a stream of every message published for the endpoint from now on.
//
// It fails with endpoint.ErrEndpointNotFound for unknown endpoints and with
// hub.ErrEndpointNotPublishing when nothing has been relayed for the endpoint yet.
func (s *Service) Subscribe(ctx context.Context, endpointID endpoint.ID) (*Stream, error) {
	e, err := s.directory.Get(ctx, endpointID)
	if err != nil {
		return nil, err
	}
	if s.config.EnforceEnabled && !e.Enabled {
		return nil, fmt.Errorf("%w: %s", endpoint.ErrEndpointDisabled, endpointID)
	}

	consumer, err := s.subscriber.Subscribe(endpointID)
	if err != nil {
		return nil, err
	}

	metrics.SubscriptionOpened()
	return &Stream{consumer: consumer}, nil
}

// Stream is an infinite, non-restartable sequence of messages for one subscriber.
// The caller resubscribes after it ends and only sees messages published after that.
type Stream struct {
	consumer *hub.Consumer

	mu  sync.Mutex
	err error

	closeOnce sync.Once
}

// Next blocks until the next message. Once it returns an error other than a ctx error
// the stream is over and every later call returns the same error.
func (s *Stream) Next(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	if s.err != nil {
		defer s.mu.Unlock()
		return nil, s.err
	}
	s.mu.Unlock()

	msg, err := s.consumer.Receive(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.mu.Lock()
			if s.err == nil {
				s.err = err
			}
			s.mu.Unlock()
		}
		return nil, err
	}
	return msg, nil
}

// ID identifies the stream's consumer in logs.
func (s *Stream) ID() string { return s.consumer.ID() }

// Close unsubscribes without affecting the publisher or other streams.
func (s *Stream) Close() {
	s.closeOnce.Do(func() {
		s.consumer.Close()
		metrics.SubscriptionClosed()
	})
}
