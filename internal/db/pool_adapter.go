package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/starload/pkg/starload"
)

// PoolAdapter adapts *pgxpool.Pool to starload.DBConnection so pgx types
// stay out of the public API.
//
// Thread-Safety: Safe for concurrent use (pgxpool.Pool is thread-safe).
type PoolAdapter struct {
	pool *pgxpool.Pool
}

// NewPoolAdapter wraps pool. Close closes the pool.
func NewPoolAdapter(pool *pgxpool.Pool) *PoolAdapter {
	return &PoolAdapter{pool: pool}
}

// Exec runs sql outside any explicit transaction, so the warehouse commits
// it before returning.
func (p *PoolAdapter) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := p.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// QueryRow runs a single-row query.
func (p *PoolAdapter) QueryRow(ctx context.Context, sql string, args ...any) starload.Row {
	return p.pool.QueryRow(ctx, sql, args...)
}

// Close releases every pooled connection.
func (p *PoolAdapter) Close() error {
	p.pool.Close()
	return nil
}

var _ starload.DBConnection = (*PoolAdapter)(nil)
