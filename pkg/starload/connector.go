package starload

import "context"

// Connector establishes a warehouse connection.
// Each authentication method and engine provides its own implementation.
type Connector interface {
	// Connect opens a connection to the warehouse.
	// The returned connection must be closed by the caller when done.
	Connect(ctx context.Context) (DBConnection, error)
}

// ConnectorFactory builds the Connector matching a resolved connection config.
type ConnectorFactory func(*ConnectionConfig) (Connector, error)

// DBConnection abstracts the warehouse operations the pipeline needs.
// It hides whether the statements travel over pgx (Redshift, PostgreSQL)
// or database/sql (DuckDB).
//
// Every Exec runs in autocommit mode: a statement is committed before
// the next one starts.
type DBConnection interface {
	// Exec executes a statement and returns the number of rows it affected.
	// Engines that do not report a count return 0.
	Exec(ctx context.Context, sql string, args ...any) (int64, error)

	// QueryRow executes a query that is expected to return at most one row.
	// Errors are deferred until Row's Scan method is called.
	QueryRow(ctx context.Context, sql string, args ...any) Row

	// Close releases the connection and any pool behind it.
	Close() error
}

// Row represents a single row returned by QueryRow.
type Row interface {
	// Scan reads the values from the row into dest values.
	Scan(dest ...any) error
}
