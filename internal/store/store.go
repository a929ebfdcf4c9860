// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

// Package store provides PostgreSQL persistence for profiles, clubs, and
// memberships, plus schema migration management.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
)

// poolIface abstracts the pgx pool operations the repositories use, so
// tests can substitute pgxmock for a live pool.
type poolIface interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// txPoolIface extends poolIface with transactions for multi-row writes.
type txPoolIface interface {
	poolIface
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Connect opens a pgx connection pool against the given DSN and verifies
// it with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, oops.In("store").
			Code("STORE_CONNECT_FAILED").
			With("operation", "create connection pool").
			Wrap(err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, oops.In("store").
			Code("STORE_PING_FAILED").
			With("operation", "verify database connection").
			Wrap(err)
	}
	return pool, nil
}
