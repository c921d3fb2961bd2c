package starload

import "context"

// Approver confirms the drop phase before any table is dropped.
//
// Implementations:
//   - ForcedApprover: Shows countdown and automatically approves
//   - InteractiveApprover: Prompts user to type the database name for confirmation
type Approver interface {
	// RequestApproval asks for confirmation before dropping the star-schema
	// tables in dbName. It returns false when the user declines.
	RequestApproval(ctx context.Context, dbName string, tables []string) (bool, error)
}
