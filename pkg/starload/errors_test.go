package starload_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vvka-141/starload/pkg/starload"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, starload.ExitSuccess},
		{"unknown flag", errors.New("unknown flag --foo"), starload.ExitUsageError},
		{"unknown shorthand flag", errors.New("unknown shorthand flag: 'x'"), starload.ExitUsageError},
		{"accepts args", errors.New("accepts 0 arg(s), received 1"), starload.ExitUsageError},
		{"invalid argument", errors.New("invalid argument \"abc\" for \"--port\""), starload.ExitUsageError},
		{"general error", errors.New("something went wrong"), starload.ExitGeneralError},
		{"invalid config", fmt.Errorf("bad: %w", starload.ErrInvalidConfig), starload.ExitConfigError},
		{"approval denied", starload.ErrApprovalDenied, starload.ExitApprovalDenied},
		{"execution failed", fmt.Errorf("%w: insert_songplays: boom", starload.ErrExecutionFailed), starload.ExitExecutionFailed},
		{"connection failed", starload.ErrConnectionFailed, starload.ExitConnectionError},
		{"source missing", fmt.Errorf("s3://b/p: %w", starload.ErrSourceNotFound), starload.ExitSourceMissing},
		{"copy unsupported", starload.ErrCopyUnsupported, starload.ExitConfigError},
		{"unsupported auth", starload.ErrUnsupportedAuthMethod, starload.ExitConfigError},
		{"connection refused text", errors.New("dial tcp: connection refused"), starload.ExitConnectionError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := starload.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestPreviewSQL(t *testing.T) {
	short := "DROP TABLE IF EXISTS users;"
	if got := starload.PreviewSQL("\n  DROP TABLE\n IF EXISTS users;\n"); got != short {
		t.Errorf("PreviewSQL collapsed whitespace = %q, want %q", got, short)
	}

	long := strings.Repeat("x", starload.MaxErrorPreviewLength+50)
	got := starload.PreviewSQL(long)
	if len(got) != starload.MaxErrorPreviewLength+3 || !strings.HasSuffix(got, "...") {
		t.Errorf("PreviewSQL did not truncate: len=%d", len(got))
	}
}
