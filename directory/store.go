package directory

import (
	"context"

	"github.com/zees-dev/zeth/endpoint"
)

//go:generate mockgen -source=store.go -destination=store_mock_test.go -package=directory

// Store is a general purpose interface that is expected to be implemented by
// each specific endpoint storage backend (e.g. in-memory, postgres).
//
// Stores perform no validation and no name uniqueness checks; both belong to the Service.
// Lookups of unknown IDs must return endpoint.ErrEndpointNotFound.
type Store interface {
	GetEndpoint(ctx context.Context, id endpoint.ID) (endpoint.Endpoint, error)
	ListEndpoints(ctx context.Context) ([]endpoint.Endpoint, error)
	InsertEndpoint(ctx context.Context, e endpoint.Endpoint) error
	UpdateEndpoint(ctx context.Context, e endpoint.Endpoint) error
	DeleteEndpoint(ctx context.Context, id endpoint.ID) error
	Ping(ctx context.Context) error
}
