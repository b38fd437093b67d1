// Package repository contains the data access layer.
//
// Queries are hand-written SQL over database/sql. The repository returns
// plain errors (including sql.ErrNoRows); translation into domain errors is
// the responsibility of the service layer.
package repository

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sql.DB used by queries. It allows queries to run
// against either a pool or a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries provides access to all persisted state.
type Queries struct {
	db DBTX
}

// New creates a Queries instance backed by the given database handle.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}
