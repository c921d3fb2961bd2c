package starload

import "context"

// Runner executes the catalog against a warehouse.
type Runner interface {
	// Run executes the configured phases in order and returns a report of
	// every statement that ran. On failure the report holds the statements
	// that completed before the failing one.
	Run(ctx context.Context, config RunConfig) (*RunReport, error)
}

// SourceChecker verifies that COPY sources hold data before a load starts.
type SourceChecker interface {
	// Check returns ErrSourceNotFound (wrapped) when location holds no objects.
	Check(ctx context.Context, location string) error
}
