package starload

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	_, err := runner.Run(ctx, config)
//	if errors.Is(err, starload.ErrApprovalDenied) {
//	    // Handle user declining the drop phase
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrApprovalDenied indicates the user denied approval for the drop phase.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrExecutionFailed indicates a catalog statement failed in the warehouse.
	ErrExecutionFailed = errors.New("execution failed")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrConnectionFailed indicates the warehouse connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrCopyUnsupported indicates the dialect has no bulk-load command.
	ErrCopyUnsupported = errors.New("copy not supported by dialect")

	// ErrSourceNotFound indicates a COPY source location holds no objects.
	ErrSourceNotFound = errors.New("source not found")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	case errors.Is(err, ErrExecutionFailed):
		return ExitExecutionFailed
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrSourceNotFound):
		return ExitSourceMissing
	case errors.Is(err, ErrUnsupportedAuthMethod), errors.Is(err, ErrCopyUnsupported):
		return ExitConfigError
	}

	errStr := err.Error()
	if isUsageError(errStr) {
		return ExitUsageError
	}
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}

// isUsageError recognizes the argument and flag errors cobra returns.
func isUsageError(msg string) bool {
	for _, prefix := range []string{
		"unknown flag",
		"unknown shorthand flag",
		"unknown command",
		"accepts ",
		"requires at least",
		"required flag",
		"invalid argument",
		"flag needs an argument",
	} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

// PreviewSQL shortens a statement for inclusion in error messages.
func PreviewSQL(sql string) string {
	s := strings.Join(strings.Fields(sql), " ")
	if len(s) <= MaxErrorPreviewLength {
		return s
	}
	return s[:MaxErrorPreviewLength] + "..."
}
