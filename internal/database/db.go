package database

import (
	"context"
	"database/sql"
)

// DB is the query surface the repositories depend on. The pgxpool
// adapter in database/postgres is the only production implementation.
type DB interface {
	Ping(ctx context.Context) error
	Close() error

	// Exec returns the number of rows affected.
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row

	Begin(ctx context.Context) (Tx, error)

	// SQLDB exposes the stdlib bridge over the same pool. The migration
	// runner needs *sql.DB for pinned-connection advisory locking.
	SQLDB() *sql.DB
}

// Tx mirrors the DB query surface inside a transaction.
type Tx interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Rows interface {
	Close()
	Next() bool
	Scan(dest ...any) error
	Err() error
}

type Row interface {
	Scan(dest ...any) error
}
