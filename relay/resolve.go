// Package relay forwards client traffic to an endpoint's node and republishes what the node sends back.
package relay

import (
	"context"
	"fmt"

	"github.com/zees-dev/zeth/endpoint"
)

// Publisher receives every message relayed back from an endpoint.
// It must not block: publishing is a side effect of a relay, never part of it.
type Publisher interface {
	Publish(endpointID endpoint.ID, msg []byte)
}

// resolver looks up relay targets. Endpoints are only ever resolved by ID.
type resolver struct {
	directory      endpoint.Getter
	enforceEnabled bool
}

func (r resolver) resolve(ctx context.Context, endpointID endpoint.ID) (endpoint.Endpoint, error) {
	e, err := r.directory.Get(ctx, endpointID)
	if err != nil {
		return endpoint.Endpoint{}, err
	}

	if r.enforceEnabled && !e.Enabled {
		return endpoint.Endpoint{}, fmt.Errorf("%w: %s", endpoint.ErrEndpointDisabled, endpointID)
	}
	return e, nil
}
