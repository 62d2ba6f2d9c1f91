package directory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pokt-network/poktroll/pkg/polylog"
	"github.com/viccon/sturdyc"

	"github.com/zees-dev/zeth/endpoint"
)

// SturdyC cache configuration
// Docs: https://github.com/viccon/sturdyc
const (
	cacheCapacity      = 10_000 // Max entries across all shards
	numShards          = 10     // Number of cache shards for concurrency
	evictionPercentage = 10     // Percentage of LRU entries evicted when full

	// pingTimeout bounds the store health probe.
	pingTimeout = 2 * time.Second
)

// Service satisfies the endpoint.Directory interface.
var _ endpoint.Directory = &Service{}

// Service is the endpoint registry.
//
// It validates descriptors, enforces name uniqueness, assigns IDs and
// fronts the Store with a read-through cache for Get, which sits on the
// hot path of every relay and subscription request.
type Service struct {
	logger polylog.Logger
	store  Store

	// endpointCache holds endpoints by ID.
	// Entries are dropped on Update/Delete made through this Service; changes made
	// by other zeth instances sharing the same store become visible after cacheTTL.
	endpointCache *sturdyc.Client[endpoint.Endpoint]

	now func() time.Time
}

// NewService returns a Service backed by store.
// A cacheTTL of zero disables caching of Get lookups.
func NewService(logger polylog.Logger, store Store, cacheTTL time.Duration) *Service {
	s := &Service{
		logger: logger.With("component", "directory"),
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
	}
	if cacheTTL > 0 {
		s.endpointCache = sturdyc.New[endpoint.Endpoint](
			cacheCapacity,
			numShards,
			cacheTTL,
			evictionPercentage,
		)
	}
	return s
}

// Get returns the endpoint registered under id.
// SturdyC GetOrFetch provides stampede protection for concurrent lookups of the same ID.
func (s *Service) Get(ctx context.Context, id endpoint.ID) (endpoint.Endpoint, error) {
	if s.endpointCache == nil {
		return s.store.GetEndpoint(ctx, id)
	}

	return s.endpointCache.GetOrFetch(ctx, cacheKey(id), func(fetchCtx context.Context) (endpoint.Endpoint, error) {
		s.logger.Debug().Str("endpoint_id", string(id)).Msg("cache miss - fetching endpoint from store")
		return s.store.GetEndpoint(fetchCtx, id)
	})
}

// List returns all registered endpoints, oldest first.
func (s *Service) List(ctx context.Context) ([]endpoint.Endpoint, error) {
	endpoints, err := s.store.ListEndpoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("list endpoints: %w", err)
	}

	slices.SortFunc(endpoints, func(a, b endpoint.Endpoint) int {
		if c := a.DateAdded.Compare(b.DateAdded); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return endpoints, nil
}

// Create registers a new endpoint and returns its assigned ID.
// Any ID set on e is ignored.
func (s *Service) Create(ctx context.Context, e endpoint.Endpoint) (endpoint.ID, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}

	if err := s.ensureUniqueName(ctx, e.Name, ""); err != nil {
		return "", err
	}

	e.ID = endpoint.ID(uuid.NewString())
	if e.DateAdded.IsZero() {
		e.DateAdded = s.now()
	}

	if err := s.store.InsertEndpoint(ctx, e); err != nil {
		return "", fmt.Errorf("create endpoint: %w", err)
	}

	s.logger.Info().
		Str("endpoint_id", string(e.ID)).
		Str("name", e.Name).
		Msg("endpoint registered")

	return e.ID, nil
}

// Update replaces the descriptor of an existing endpoint and returns the stored result.
// The ID and the original registration date are preserved.
func (s *Service) Update(ctx context.Context, id endpoint.ID, e endpoint.Endpoint) (endpoint.Endpoint, error) {
	if err := e.Validate(); err != nil {
		return endpoint.Endpoint{}, err
	}

	existing, err := s.store.GetEndpoint(ctx, id)
	if err != nil {
		return endpoint.Endpoint{}, err
	}

	if err := s.ensureUniqueName(ctx, e.Name, id); err != nil {
		return endpoint.Endpoint{}, err
	}

	e.ID = existing.ID
	e.DateAdded = existing.DateAdded

	if err := s.store.UpdateEndpoint(ctx, e); err != nil {
		return endpoint.Endpoint{}, fmt.Errorf("update endpoint: %w", err)
	}
	s.invalidate(id)

	return e, nil
}

// Delete removes an endpoint from the registry.
func (s *Service) Delete(ctx context.Context, id endpoint.ID) error {
	if err := s.store.DeleteEndpoint(ctx, id); err != nil {
		return err
	}
	s.invalidate(id)

	s.logger.Info().Str("endpoint_id", string(id)).Msg("endpoint removed")
	return nil
}

// Seed inserts endpoints with caller-chosen IDs, eg the static endpoints listed in the config file.
// Endpoints whose ID is already stored are left untouched.
func (s *Service) Seed(ctx context.Context, endpoints []endpoint.Endpoint) error {
	for _, e := range endpoints {
		if e.ID == "" {
			return fmt.Errorf("seed endpoint %q: %w: id is required", e.Name, endpoint.ErrInvalidEndpoint)
		}
		if err := e.Validate(); err != nil {
			return fmt.Errorf("seed endpoint %s: %w", e.ID, err)
		}

		_, err := s.store.GetEndpoint(ctx, e.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, endpoint.ErrEndpointNotFound) {
			return fmt.Errorf("seed endpoint %s: %w", e.ID, err)
		}

		if err := s.ensureUniqueName(ctx, e.Name, e.ID); err != nil {
			return fmt.Errorf("seed endpoint %s: %w", e.ID, err)
		}
		if e.DateAdded.IsZero() {
			e.DateAdded = s.now()
		}
		if err := s.store.InsertEndpoint(ctx, e); err != nil {
			return fmt.Errorf("seed endpoint %s: %w", e.ID, err)
		}
		s.logger.Info().Str("endpoint_id", string(e.ID)).Msg("seeded endpoint from config")
	}
	return nil
}

// Name returns the health check component name.
func (s *Service) Name() string {
	return "directory"
}

// IsAlive returns true if the backing store answers a ping.
func (s *Service) IsAlive() bool {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("directory store ping failed")
		return false
	}
	return true
}

// ensureUniqueName checks the name against every stored endpoint other than self.
// The postgres store also enforces this with a unique index; the memory store relies on this check alone.
func (s *Service) ensureUniqueName(ctx context.Context, name string, self endpoint.ID) error {
	endpoints, err := s.store.ListEndpoints(ctx)
	if err != nil {
		return fmt.Errorf("check endpoint name: %w", err)
	}

	normalized := endpoint.NormalizeName(name)
	for _, e := range endpoints {
		if e.ID != self && e.NormalizedName() == normalized {
			return fmt.Errorf("%w: %s", endpoint.ErrDuplicateName, strings.TrimSpace(name))
		}
	}
	return nil
}

func (s *Service) invalidate(id endpoint.ID) {
	if s.endpointCache != nil {
		s.endpointCache.Delete(cacheKey(id))
	}
}

// cacheKey creates a unique cache key: "endpoint:<id>"
func cacheKey(id endpoint.ID) string {
	return "endpoint:" + string(id)
}
