// Package dbx holds the minimal database/sql surface shared by stores.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql the metadata store needs. Both *sql.DB
// and *sql.Tx satisfy it, so a store can run standalone or inside a caller's
// transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
