package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/vvka-141/starload/pkg/starload"
)

// DuckDBConnector opens a local DuckDB database for the duckdb dialect.
// No retry is needed: the database lives in-process.
type DuckDBConnector struct {
	path string
}

// NewDuckDBConnector creates a connector for the DuckDB file at path
// (or :memory:).
func NewDuckDBConnector(path string) *DuckDBConnector {
	return &DuckDBConnector{path: path}
}

// Connect opens the database and verifies it answers.
func (c *DuckDBConnector) Connect(ctx context.Context) (starload.DBConnection, error) {
	dsn := c.path
	if dsn == DuckDBMemory {
		dsn = ""
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb %s: %w", c.path, err)
	}
	// One connection keeps an in-memory database alive between statements.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open duckdb %s: %w", c.path, err)
	}
	return NewSQLAdapter(db), nil
}
