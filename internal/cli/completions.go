package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// sslModes contains valid PostgreSQL SSL modes for shell completion.
var sslModes = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}

var (
	dialectNames    = []string{"redshift", "postgres", "duckdb"}
	phaseNames      = []string{"drop", "create", "copy", "insert"}
	authMethodNames = []string{"password", "redshift-iam", "rds-iam"}
)

func completeFrom(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var matches []string
		for _, v := range values {
			if strings.HasPrefix(v, toComplete) {
				matches = append(matches, v)
			}
		}
		return matches, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeSSLModes provides shell completion for SSL mode flag values.
var completeSSLModes = completeFrom(sslModes)
