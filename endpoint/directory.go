package endpoint

import "context"

// Getter resolves an endpoint by ID. It is the only directory operation the
// relay and subscription paths depend on.
type Getter interface {
	Get(ctx context.Context, id ID) (Endpoint, error)
}

// Directory is the full endpoint registry.
// Implementations return ErrEndpointNotFound (possibly wrapped) for unknown IDs.
type Directory interface {
	Getter
	List(ctx context.Context) ([]Endpoint, error)
	Create(ctx context.Context, e Endpoint) (ID, error)
	Update(ctx context.Context, id ID, e Endpoint) (Endpoint, error)
	Delete(ctx context.Context, id ID) error
}
