package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"

	"github.com/zees-dev/zeth/endpoint"
)

/* -------------------- Dockertest Ephemeral DB Container Setup -------------------- */

const (
	containerRepo    = "postgres"
	containerTag     = "16"
	dbUser           = "postgres"
	password         = "pgpassword"
	dbName           = "postgres"
	connStringFormat = "postgres://%s:%s@%s/%s?sslmode=disable"
	timeOut          = 600
)

// connectionString is empty when no docker daemon is reachable, in which case the tests are skipped.
var connectionString string

func TestMain(m *testing.M) {
	pool, resource, databaseURL, err := setupPostgresDocker()
	if err != nil {
		fmt.Printf("skipping postgres driver tests: %s\n", err)
		os.Exit(m.Run())
	}
	connectionString = databaseURL

	exitCode := m.Run()

	if err := pool.Purge(resource); err != nil {
		fmt.Printf("could not purge resource: %s\n", err)
	}
	os.Exit(exitCode)
}

func setupPostgresDocker() (*dockertest.Pool, *dockertest.Resource, string, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, nil, "", fmt.Errorf("could not construct pool: %w", err)
	}
	if err := pool.Client.Ping(); err != nil {
		return nil, nil, "", fmt.Errorf("could not connect to docker: %w", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: containerRepo,
		Tag:        containerTag,
		Env: []string{
			"POSTGRES_USER=" + dbUser,
			"POSTGRES_PASSWORD=" + password,
			"POSTGRES_DB=" + dbName,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, nil, "", fmt.Errorf("could not start resource: %w", err)
	}

	if err := resource.Expire(timeOut); err != nil {
		return nil, nil, "", fmt.Errorf("failed to set expiration on docker container: %w", err)
	}

	hostAndPort := resource.GetHostPort("5432/tcp")
	databaseURL := fmt.Sprintf(connStringFormat, dbUser, password, hostAndPort, dbName)

	pool.MaxWait = 2 * time.Minute
	retryConnectFn := func() error {
		conn, err := pgx.Connect(context.Background(), databaseURL)
		if err != nil {
			return fmt.Errorf("unable to connect to database: %v", err)
		}
		return conn.Close(context.Background())
	}
	if err := pool.Retry(retryConnectFn); err != nil {
		_ = pool.Purge(resource)
		return nil, nil, "", fmt.Errorf("could not connect to postgres: %w", err)
	}

	return pool, resource, databaseURL, nil
}

func newTestDriver(t *testing.T) *postgresDriver {
	t.Helper()
	if connectionString == "" {
		t.Skip("docker is not available")
	}

	driver, cleanup, err := NewPostgresDriver(context.Background(), connectionString)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = driver.DB.Exec(context.Background(), "TRUNCATE endpoints")
		_ = cleanup()
	})
	return driver
}

func Test_PostgresDriver_CRUD(t *testing.T) {
	c := require.New(t)
	ctx := context.Background()
	d := newTestDriver(t)

	e := endpoint.Endpoint{
		ID:          "endpoint_1",
		Name:        "eth-mainnet",
		Enabled:     true,
		DateAdded:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ExplorerURL: "https://etherscan.io",
		RPCHTTP:     "https://eth.example.com",
		RPCWS:       "wss://eth.example.com",
	}
	c.NoError(d.InsertEndpoint(ctx, e))

	got, err := d.GetEndpoint(ctx, e.ID)
	c.NoError(err)
	c.Equal(e, got)

	e.Name = "eth-mainnet-updated"
	e.RPCWS = ""
	c.NoError(d.UpdateEndpoint(ctx, e))

	endpoints, err := d.ListEndpoints(ctx)
	c.NoError(err)
	c.Equal([]endpoint.Endpoint{e}, endpoints)

	c.NoError(d.DeleteEndpoint(ctx, e.ID))

	_, err = d.GetEndpoint(ctx, e.ID)
	c.True(errors.Is(err, endpoint.ErrEndpointNotFound))
	c.True(errors.Is(d.DeleteEndpoint(ctx, e.ID), endpoint.ErrEndpointNotFound))
	c.True(errors.Is(d.UpdateEndpoint(ctx, e), endpoint.ErrEndpointNotFound))
}

func Test_PostgresDriver_UniqueName(t *testing.T) {
	c := require.New(t)
	ctx := context.Background()
	d := newTestDriver(t)

	c.NoError(d.InsertEndpoint(ctx, endpoint.Endpoint{ID: "a", Name: "Sepolia", RPCHTTP: "http://localhost:8545", DateAdded: time.Now()}))

	err := d.InsertEndpoint(ctx, endpoint.Endpoint{ID: "b", Name: " sepolia ", RPCHTTP: "http://localhost:8545", DateAdded: time.Now()})
	c.True(errors.Is(err, endpoint.ErrDuplicateName), "unexpected error: %v", err)
}

func Test_PostgresDriver_Ping(t *testing.T) {
	d := newTestDriver(t)
	require.NoError(t, d.Ping(context.Background()))
}
