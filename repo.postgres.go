package bookstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Connection pool settings of the relational storage.
const (
	PoolSize     = 10
	PoolOverflow = 20
	PoolTimeout  = 30 * time.Second
	PoolRecycle  = 1800 * time.Second
)

// uniqueViolation is the postgres error code raised on duplicate keys.
const uniqueViolation = pq.ErrorCode("23505")

// GetPostgresClient provides a pooled database handle. It does not
// connect, so callers decide what to do on an unreachable server.
func GetPostgresClient(config *Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", config.Storage.Postgres.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open the database: %w", err)
	}
	db.SetMaxOpenConns(PoolSize + PoolOverflow)
	db.SetMaxIdleConns(PoolSize)
	db.SetConnMaxLifetime(PoolRecycle)
	return db, nil
}

// PingPostgres runs a trivial query to check the database is reachable.
func PingPostgres(ctx context.Context, db *sql.DB) error {
	_, err := withConn(ctx, db, func(conn *sql.Conn) (struct{}, error) {
		var one int
		return struct{}{}, conn.QueryRowContext(ctx, "SELECT 1").Scan(&one)
	})
	return err
}

// withConn acquires a connection from the pool, waiting at most
// PoolTimeout, then runs fn with it and releases it afterwards.
func withConn[T any](ctx context.Context, db *sql.DB, fn func(conn *sql.Conn) (T, error)) (T, error) {
	var zero T
	wctx, cancel := context.WithTimeout(ctx, PoolTimeout)
	conn, err := db.Conn(wctx)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return zero, fmt.Errorf("%w after %s", ErrPoolTimeout, PoolTimeout)
		}
		return zero, err
	}
	defer conn.Close()
	return fn(conn)
}

// mapPostgresError normalizes driver errors into the storage errors.
func mapPostgresError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrConflict, pqErr.Constraint)
	}
	return err
}
