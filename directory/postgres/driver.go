package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zees-dev/zeth/directory"
	"github.com/zees-dev/zeth/endpoint"
)

// schema bootstraps the endpoints table. Every statement is idempotent.
//
//go:embed schema.sql
var schema string

// uniqueViolation is the SQLSTATE returned when an insert or update breaks a unique index.
const uniqueViolation = "23505"

const (
	selectEndpointColumns = `SELECT id, name, is_dev, enabled, date_added, explorer_url, rpc_http, rpc_ws FROM endpoints`

	selectEndpointByID = selectEndpointColumns + ` WHERE id = $1`
	selectEndpoints    = selectEndpointColumns + ` ORDER BY date_added, name`

	insertEndpoint = `INSERT INTO endpoints (id, name, is_dev, enabled, date_added, explorer_url, rpc_http, rpc_ws)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	updateEndpoint = `UPDATE endpoints
		SET name = $2, is_dev = $3, enabled = $4, explorer_url = $5, rpc_http = $6, rpc_ws = $7
		WHERE id = $1`

	deleteEndpoint = `DELETE FROM endpoints WHERE id = $1`
)

// The postgresDriver struct satisfies the directory.Store interface defined in the directory package.
type postgresDriver struct {
	DB *pgxpool.Pool
}

var _ directory.Store = &postgresDriver{}

/* ---------- Postgres Connection Funcs ---------- */

/*
NewPostgresDriver
- Creates a pool of connections to a PostgreSQL database using the provided connection string.
- Applies the embedded endpoints schema.
- Returns the driver and a cleanup func that closes the pool.
*/
func NewPostgresDriver(ctx context.Context, connectionString string) (*postgresDriver, func() error, error) {
	config, err := pgxpool.ParseConfig(connectionString)
	if err != nil {
		return nil, nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool.NewWithConfig: %v", err)
	}

	cleanup := func() error {
		pool.Close()
		return nil
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("apply endpoints schema: %w", err)
	}

	return &postgresDriver{DB: pool}, cleanup, nil
}

/* ---------- Query Funcs ---------- */

func (d *postgresDriver) GetEndpoint(ctx context.Context, id endpoint.ID) (endpoint.Endpoint, error) {
	e, err := scanEndpoint(d.DB.QueryRow(ctx, selectEndpointByID, string(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return endpoint.Endpoint{}, fmt.Errorf("%w: %s", endpoint.ErrEndpointNotFound, id)
	}
	if err != nil {
		return endpoint.Endpoint{}, err
	}
	return e, nil
}

func (d *postgresDriver) ListEndpoints(ctx context.Context) ([]endpoint.Endpoint, error) {
	rows, err := d.DB.Query(ctx, selectEndpoints)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var endpoints []endpoint.Endpoint
	for rows.Next() {
		e, err := scanEndpoint(rows)
		if err != nil {
			return nil, err
		}
		endpoints = append(endpoints, e)
	}
	return endpoints, rows.Err()
}

func (d *postgresDriver) InsertEndpoint(ctx context.Context, e endpoint.Endpoint) error {
	_, err := d.DB.Exec(ctx, insertEndpoint,
		string(e.ID), e.Name, e.IsDev, e.Enabled, e.DateAdded, e.ExplorerURL, e.RPCHTTP, e.RPCWS,
	)
	return convertError(err)
}

func (d *postgresDriver) UpdateEndpoint(ctx context.Context, e endpoint.Endpoint) error {
	tag, err := d.DB.Exec(ctx, updateEndpoint,
		string(e.ID), e.Name, e.IsDev, e.Enabled, e.ExplorerURL, e.RPCHTTP, e.RPCWS,
	)
	if err != nil {
		return convertError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", endpoint.ErrEndpointNotFound, e.ID)
	}
	return nil
}

func (d *postgresDriver) DeleteEndpoint(ctx context.Context, id endpoint.ID) error {
	tag, err := d.DB.Exec(ctx, deleteEndpoint, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", endpoint.ErrEndpointNotFound, id)
	}
	return nil
}

func (d *postgresDriver) Ping(ctx context.Context) error {
	return d.DB.Ping(ctx)
}

/* ---------- Helpers ---------- */

func scanEndpoint(row pgx.Row) (endpoint.Endpoint, error) {
	var (
		e  endpoint.Endpoint
		id string
	)
	err := row.Scan(&id, &e.Name, &e.IsDev, &e.Enabled, &e.DateAdded, &e.ExplorerURL, &e.RPCHTTP, &e.RPCWS)
	if err != nil {
		return endpoint.Endpoint{}, err
	}
	e.ID = endpoint.ID(id)
	e.DateAdded = e.DateAdded.UTC()
	return e, nil
}

// convertError maps a unique index violation on the endpoint name to endpoint.ErrDuplicateName.
func convertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", endpoint.ErrDuplicateName, pgErr.Detail)
	}
	return err
}
