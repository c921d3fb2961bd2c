package db

import (
	"context"
	"database/sql"

	"github.com/vvka-141/starload/pkg/starload"
)

// SQLAdapter adapts *sql.DB to starload.DBConnection. It backs the DuckDB
// dialect, whose driver only speaks database/sql.
type SQLAdapter struct {
	db *sql.DB
}

// NewSQLAdapter wraps db. Close closes db.
func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db}
}

// Exec returns 0 rows when the driver cannot report a count.
func (a *SQLAdapter) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// QueryRow runs a single-row query.
func (a *SQLAdapter) QueryRow(ctx context.Context, query string, args ...any) starload.Row {
	return a.db.QueryRowContext(ctx, query, args...)
}

// Close closes the underlying database.
func (a *SQLAdapter) Close() error {
	return a.db.Close()
}

var _ starload.DBConnection = (*SQLAdapter)(nil)
