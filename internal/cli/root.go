package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "starload",
	Short: "Star-schema ETL runner for Amazon Redshift",
	Long: `starload stages raw JSON listening events and song metadata from S3 into
Redshift staging tables, then builds the songplays fact table and the users,
songs, artists and time dimensions from them.

Every run rebuilds the schema from a fixed statement catalog, executed phase
by phase: drop, create, copy, insert. Each statement commits on its own; the
first failure stops the run.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Warehouse connection failed
  12 - User denied the drop phase
  13 - A catalog statement failed
  14 - A COPY source holds no data`,
	SilenceUsage: true,
}

type globalFlagValues struct {
	verbose bool
	config  string
}

var globalFlags globalFlagValues

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout, os.Stderr)
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	// -h is the host flag, as in psql.
	rootCmd.PersistentFlags().Bool("help", false, "Help for starload")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.verbose, "verbose", "v", false,
		"Enable verbose output for all commands")
	rootCmd.PersistentFlags().StringVar(&globalFlags.config, "config", ".",
		"Settings file or directory.\n"+
			"A directory is searched for dwh.yaml, then the legacy dwh.cfg")
}
