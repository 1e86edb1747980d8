// Package dbpool opens the shared *sql.DB handle used by cmd/workers and
// cmd/facade, following api-gateway's db.NewClient: lib/pq driver, pool
// sizing tuned per caller, ping-on-startup so a bad DATABASE_URL fails
// fast instead of surfacing on the first query.
package dbpool

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Options configures the pool. Workers and the façade pass different
// values: workers run few long-lived queries per tick, the façade serves
// bursty request traffic.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
}

// WorkersOptions returns pool sizing for cmd/workers (spec.md §6): a small
// pool since the five tasks issue a handful of queries per tick, not
// per-request traffic.
func WorkersOptions() Options {
	return Options{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		PingTimeout:     5 * time.Second,
	}
}

// FacadeOptions returns pool sizing for cmd/facade: a larger pool to
// absorb concurrent HTTP requests.
func FacadeOptions() Options {
	return Options{
		MaxOpenConns:    20,
		MaxIdleConns:    10,
		ConnMaxLifetime: 5 * time.Minute,
		PingTimeout:     5 * time.Second,
	}
}

// Open opens a Postgres connection pool and verifies connectivity before
// returning.
func Open(dsn string, opts Options) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), opts.PingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
