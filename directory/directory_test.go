package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pokt-network/poktroll/pkg/polylog/polyzero"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/zees-dev/zeth/endpoint"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(polyzero.NewLogger(), NewMemoryStore(), time.Minute)
}

func Test_Service_Create(t *testing.T) {
	tests := []struct {
		name        string
		existing    []endpoint.Endpoint
		endpoint    endpoint.Endpoint
		expectedErr error
	}{
		{
			name: "should register a valid endpoint",
			endpoint: endpoint.Endpoint{
				Name:    "eth-mainnet",
				Enabled: true,
				RPCHTTP: "https://eth.example.com",
			},
		},
		{
			name: "should reject a name that differs only by case and whitespace",
			existing: []endpoint.Endpoint{
				{Name: "eth-mainnet", RPCHTTP: "https://eth.example.com"},
			},
			endpoint: endpoint.Endpoint{
				Name:    "  ETH-Mainnet ",
				RPCHTTP: "https://other.example.com",
			},
			expectedErr: endpoint.ErrDuplicateName,
		},
		{
			name:        "should reject an invalid descriptor",
			endpoint:    endpoint.Endpoint{Name: "no-rpc"},
			expectedErr: endpoint.ErrInvalidEndpoint,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := require.New(t)
			ctx := context.Background()
			s := newTestService(t)

			for _, e := range test.existing {
				_, err := s.Create(ctx, e)
				c.NoError(err)
			}

			id, err := s.Create(ctx, test.endpoint)
			if test.expectedErr != nil {
				c.True(errors.Is(err, test.expectedErr), "unexpected error: %v", err)
				return
			}
			c.NoError(err)
			c.NotEmpty(id)

			stored, err := s.Get(ctx, id)
			c.NoError(err)
			c.Equal(id, stored.ID)
			c.Equal(test.endpoint.Name, stored.Name)
			c.False(stored.DateAdded.IsZero())
		})
	}
}

func Test_Service_Get_NotFound(t *testing.T) {
	c := require.New(t)

	_, err := newTestService(t).Get(context.Background(), "missing")
	c.True(errors.Is(err, endpoint.ErrEndpointNotFound))
}

func Test_Service_Update(t *testing.T) {
	c := require.New(t)
	ctx := context.Background()
	s := newTestService(t)

	id, err := s.Create(ctx, endpoint.Endpoint{Name: "first", RPCHTTP: "http://localhost:8545"})
	c.NoError(err)
	_, err = s.Create(ctx, endpoint.Endpoint{Name: "second", RPCHTTP: "http://localhost:8546"})
	c.NoError(err)

	// Warm the cache so the update has to invalidate it.
	before, err := s.Get(ctx, id)
	c.NoError(err)

	updated, err := s.Update(ctx, id, endpoint.Endpoint{
		Name:    "first-updated",
		RPCHTTP: "http://localhost:8545",
		RPCWS:   "ws://localhost:8547",
	})
	c.NoError(err)
	c.Equal(id, updated.ID)
	c.Equal(before.DateAdded, updated.DateAdded)

	got, err := s.Get(ctx, id)
	c.NoError(err)
	c.Equal("first-updated", got.Name)
	c.True(got.SupportsWS())

	// Keeping its own name is not a duplicate; taking another endpoint's name is.
	_, err = s.Update(ctx, id, endpoint.Endpoint{Name: "first-updated", RPCHTTP: "http://localhost:8545"})
	c.NoError(err)
	_, err = s.Update(ctx, id, endpoint.Endpoint{Name: "Second", RPCHTTP: "http://localhost:8545"})
	c.True(errors.Is(err, endpoint.ErrDuplicateName))

	_, err = s.Update(ctx, "missing", endpoint.Endpoint{Name: "x", RPCHTTP: "http://localhost:8545"})
	c.True(errors.Is(err, endpoint.ErrEndpointNotFound))
}

func Test_Service_Delete(t *testing.T) {
	c := require.New(t)
	ctx := context.Background()
	s := newTestService(t)

	id, err := s.Create(ctx, endpoint.Endpoint{Name: "test", RPCHTTP: "http://localhost:8545"})
	c.NoError(err)

	_, err = s.Get(ctx, id)
	c.NoError(err)

	c.NoError(s.Delete(ctx, id))

	_, err = s.Get(ctx, id)
	c.True(errors.Is(err, endpoint.ErrEndpointNotFound))

	endpoints, err := s.List(ctx)
	c.NoError(err)
	c.Empty(endpoints)

	c.True(errors.Is(s.Delete(ctx, id), endpoint.ErrEndpointNotFound))
}

func Test_Service_List(t *testing.T) {
	c := require.New(t)
	ctx := context.Background()
	s := newTestService(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.Create(ctx, endpoint.Endpoint{Name: "test-2", RPCHTTP: "http://localhost:8545", DateAdded: base.Add(time.Hour)})
	c.NoError(err)
	_, err = s.Create(ctx, endpoint.Endpoint{Name: "test-1", RPCHTTP: "http://localhost:8545", DateAdded: base})
	c.NoError(err)

	endpoints, err := s.List(ctx)
	c.NoError(err)
	c.Len(endpoints, 2)
	c.Equal("test-1", endpoints[0].Name)
	c.Equal("test-2", endpoints[1].Name)
}

func Test_Service_Seed(t *testing.T) {
	c := require.New(t)
	ctx := context.Background()
	s := newTestService(t)

	seed := []endpoint.Endpoint{
		{ID: "e1", Name: "local", RPCHTTP: "http://localhost:8545"},
	}
	c.NoError(s.Seed(ctx, seed))
	// Seeding again is a no-op.
	c.NoError(s.Seed(ctx, seed))

	e, err := s.Get(ctx, "e1")
	c.NoError(err)
	c.Equal("local", e.Name)

	err = s.Seed(ctx, []endpoint.Endpoint{{Name: "no-id", RPCHTTP: "http://localhost:8545"}})
	c.True(errors.Is(err, endpoint.ErrInvalidEndpoint))
}

func Test_Service_GetIsCached(t *testing.T) {
	c := require.New(t)
	ctrl := gomock.NewController(t)

	stored := endpoint.Endpoint{ID: "e1", Name: "local", RPCHTTP: "http://localhost:8545"}

	mockStore := NewMockStore(ctrl)
	mockStore.EXPECT().GetEndpoint(gomock.Any(), endpoint.ID("e1")).Return(stored, nil).Times(1)

	s := NewService(polyzero.NewLogger(), mockStore, time.Minute)

	for range 3 {
		e, err := s.Get(context.Background(), "e1")
		c.NoError(err)
		c.Equal(stored, e)
	}
}

func Test_Service_GetWithoutCache(t *testing.T) {
	c := require.New(t)
	ctrl := gomock.NewController(t)

	mockStore := NewMockStore(ctrl)
	mockStore.EXPECT().GetEndpoint(gomock.Any(), endpoint.ID("e1")).
		Return(endpoint.Endpoint{}, endpoint.ErrEndpointNotFound).Times(2)

	s := NewService(polyzero.NewLogger(), mockStore, 0)

	for range 2 {
		_, err := s.Get(context.Background(), "e1")
		c.True(errors.Is(err, endpoint.ErrEndpointNotFound))
	}
}

func Test_Service_IsAlive(t *testing.T) {
	c := require.New(t)
	ctrl := gomock.NewController(t)

	mockStore := NewMockStore(ctrl)
	gomock.InOrder(
		mockStore.EXPECT().Ping(gomock.Any()).Return(nil),
		mockStore.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused")),
	)

	s := NewService(polyzero.NewLogger(), mockStore, 0)
	c.Equal("directory", s.Name())
	c.True(s.IsAlive())
	c.False(s.IsAlive())
}
