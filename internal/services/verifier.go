package services

import (
	"context"
	"fmt"

	"github.com/vvka-141/starload/pkg/starload"
)

// Verifier counts the rows of the star-schema tables after a load.
type Verifier struct {
	logger starload.Logger
}

// NewVerifier creates a Verifier that logs each count in verbose mode.
func NewVerifier(logger starload.Logger) *Verifier {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Verifier{logger: logger}
}

// Count returns the row count of each table, in the given order.
// A missing table is an error.
func (v *Verifier) Count(ctx context.Context, conn starload.DBConnection, tables []string) ([]starload.TableCount, error) {
	counts := make([]starload.TableCount, 0, len(tables))
	for _, table := range tables {
		var n int64
		if err := conn.QueryRow(ctx, countRowsQuery(table)).Scan(&n); err != nil {
			return counts, fmt.Errorf("failed to count rows in %s: %w", table, err)
		}
		v.logger.Verbose("%s: %d rows", table, n)
		counts = append(counts, starload.TableCount{Table: table, Rows: n})
	}
	return counts, nil
}
