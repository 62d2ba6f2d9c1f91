package relay

import (
	"context"
	"fmt"
	"sync"

	"github.com/zees-dev/zeth/endpoint"
)

// staticDirectory resolves endpoints from a fixed map.
type staticDirectory map[endpoint.ID]endpoint.Endpoint

func (d staticDirectory) Get(_ context.Context, id endpoint.ID) (endpoint.Endpoint, error) {
	e, ok := d[id]
	if !ok {
		return endpoint.Endpoint{}, fmt.Errorf("%w: %s", endpoint.ErrEndpointNotFound, id)
	}
	return e, nil
}

// recordingPublisher captures every published message per endpoint.
type recordingPublisher struct {
	mu   sync.Mutex
	msgs map[endpoint.ID][]string
}

func (p *recordingPublisher) Publish(endpointID endpoint.ID, msg []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.msgs == nil {
		p.msgs = make(map[endpoint.ID][]string)
	}
	p.msgs[endpointID] = append(p.msgs[endpointID], string(msg))
}

func (p *recordingPublisher) published(endpointID endpoint.ID) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.msgs[endpointID]...)
}
