// Package retry retries the warehouse connect step when it fails for a
// transient reason: the cluster is resuming, the network blipped, or the
// connection slots are exhausted.
//
// Statements are never retried. A COPY or INSERT that fails has already
// been reported by the warehouse and must abort the run.
//
//	executor := retry.NewExecutor(retry.NewWarehouseErrorClassifier(), retry.NewExponentialBackoff(3))
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return ping(ctx)
//	})
package retry
