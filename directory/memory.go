package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/zees-dev/zeth/endpoint"
)

// memoryStore keeps endpoints in process memory.
// Contents are lost on restart and are not shared across zeth instances.
type memoryStore struct {
	endpoints map[endpoint.ID]endpoint.Endpoint
	mu        sync.RWMutex
}

var _ Store = &memoryStore{}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() *memoryStore {
	return &memoryStore{
		endpoints: make(map[endpoint.ID]endpoint.Endpoint),
	}
}

func (s *memoryStore) GetEndpoint(_ context.Context, id endpoint.ID) (endpoint.Endpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.endpoints[id]
	if !ok {
		return endpoint.Endpoint{}, fmt.Errorf("%w: %s", endpoint.ErrEndpointNotFound, id)
	}
	return e, nil
}

func (s *memoryStore) ListEndpoints(_ context.Context) ([]endpoint.Endpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	endpoints := make([]endpoint.Endpoint, 0, len(s.endpoints))
	for _, e := range s.endpoints {
		endpoints = append(endpoints, e)
	}
	return endpoints, nil
}

func (s *memoryStore) InsertEndpoint(_ context.Context, e endpoint.Endpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.endpoints[e.ID]; ok {
		return fmt.Errorf("endpoint %s already stored", e.ID)
	}
	s.endpoints[e.ID] = e
	return nil
}

func (s *memoryStore) UpdateEndpoint(_ context.Context, e endpoint.Endpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.endpoints[e.ID]; !ok {
		return fmt.Errorf("%w: %s", endpoint.ErrEndpointNotFound, e.ID)
	}
	s.endpoints[e.ID] = e
	return nil
}

func (s *memoryStore) DeleteEndpoint(_ context.Context, id endpoint.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.endpoints[id]; !ok {
		return fmt.Errorf("%w: %s", endpoint.ErrEndpointNotFound, id)
	}
	delete(s.endpoints, id)
	return nil
}

func (s *memoryStore) Ping(context.Context) error {
	return nil
}
