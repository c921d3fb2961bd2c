package starload

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Run completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitConnectionError = 11 // Failed to connect to the warehouse
	ExitApprovalDenied  = 12 // User denied the drop phase
	ExitExecutionFailed = 13 // A catalog statement failed
	ExitSourceMissing   = 14 // A COPY source prefix holds no objects
)

const (
	// DefaultForceApprovalCountdown is the countdown duration before force approval proceeds.
	DefaultForceApprovalCountdown = 5 * time.Second

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultTimeout bounds a whole run. COPY of the full song dataset
	// routinely takes several minutes on a small cluster.
	DefaultTimeout = 30 * time.Minute

	// DefaultRedshiftPort is the port Redshift clusters listen on.
	DefaultRedshiftPort = 5439

	// DefaultRegion is the region of the public source bucket.
	DefaultRegion = "us-west-2"

	// DefaultSongMaxErrors is the COPY error tolerance for the song-data load.
	DefaultSongMaxErrors = 10

	// MaxErrorPreviewLength is the maximum number of characters of a failed
	// statement shown in error messages.
	MaxErrorPreviewLength = 200

	// AppName is reported to the warehouse as application_name.
	AppName = "starload"
)
