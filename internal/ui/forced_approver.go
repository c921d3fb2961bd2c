package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vvka-141/starload/pkg/starload"
)

// ForcedApprover implements the Approver interface for forced (non-interactive)
// approval. It displays a countdown and automatically approves after the countdown,
// used when the --force flag is provided.
type ForcedApprover struct {
	verbose   bool
	countdown time.Duration
	output    io.Writer
	sleepFn   func(time.Duration)
}

// NewForcedApprover creates a new ForcedApprover writing to stderr.
func NewForcedApprover(verbose bool) starload.Approver {
	return &ForcedApprover{
		verbose:   verbose,
		countdown: starload.DefaultForceApprovalCountdown,
		output:    os.Stderr,
		sleepFn:   time.Sleep,
	}
}

// RequestApproval displays a countdown and automatically approves after the countdown.
func (a *ForcedApprover) RequestApproval(ctx context.Context, dbName string, tables []string) (bool, error) {
	fmt.Fprintln(a.output)
	fmt.Fprintln(a.output, dropBanner("DANGER: dropping star schema", dbName, tables))
	fmt.Fprintln(a.output)

	countdown := a.countdown
	if countdown == 0 {
		countdown = starload.DefaultForceApprovalCountdown
	}
	for i := int(countdown.Seconds()); i > 0; i-- {
		select {
		case <-ctx.Done():
			fmt.Fprintln(a.output)
			return false, ctx.Err()
		default:
			fmt.Fprintf(a.output, "\rDropping in: %d seconds... (Press Ctrl+C to cancel)", i)
			a.sleepFn(time.Second)
		}
	}
	if err := ctx.Err(); err != nil {
		fmt.Fprintln(a.output)
		return false, err
	}

	fmt.Fprintf(a.output, "\r%s\n", successStyle.Render("✓ Proceeding with table drop...                              "))
	return true, nil
}

var _ starload.Approver = (*ForcedApprover)(nil)
