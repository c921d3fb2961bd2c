package ui

import (
	"os"

	"golang.org/x/term"
)

// EnvNonInteractive forces non-interactive mode when set to 1.
const EnvNonInteractive = "STARLOAD_NON_INTERACTIVE"

// IsInteractive reports whether a human can answer a prompt.
//
// It returns false if:
//   - STARLOAD_NON_INTERACTIVE=1 is set
//   - CI is set (common CI/CD convention)
//   - stdin or stderr is not a terminal
func IsInteractive() bool {
	return isInteractive(os.Getenv, term.IsTerminal)
}

func isInteractive(getenv func(string) string, isTerminal func(fd int) bool) bool {
	if getenv(EnvNonInteractive) == "1" {
		return false
	}
	if getenv("CI") != "" {
		return false
	}
	return isTerminal(int(os.Stdin.Fd())) && isTerminal(int(os.Stderr.Fd()))
}
