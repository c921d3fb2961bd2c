package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/starload/internal/db"
	"github.com/vvka-141/starload/internal/logging"
	"github.com/vvka-141/starload/internal/services"
	"github.com/vvka-141/starload/internal/storage"
	"github.com/vvka-141/starload/internal/ui"
	"github.com/vvka-141/starload/pkg/starload"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Count the rows of every table",
	Long: `Verify connects to the warehouse and prints the row count of the staging,
fact and dimension tables. Nothing is modified.

Examples:
  starload verify
  starload verify --connection duckdb://sparkify.duckdb`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

type verifyFlagValues struct {
	conn connectionFlags
}

var verifyFlags verifyFlagValues

func init() {
	rootCmd.AddCommand(verifyCmd)
	addConnectionFlags(verifyCmd, &verifyFlags.conn)
}

func runVerify(cmd *cobra.Command, args []string) error {
	verbose := globalFlags.verbose

	projectCfg, err := loadProjectConfig(globalFlags.config, verbose)
	if err != nil {
		return err
	}
	connConfig, err := resolveConnectionFromFlags(verifyFlags.conn, projectCfg)
	if err != nil {
		return err
	}

	config := starload.RunConfig{
		DatabaseName:      connConfig.Database,
		ConnectionString:  db.BuildConnectionString(connConfig),
		AuthMethod:        connConfig.AuthMethod,
		ClusterIdentifier: connConfig.ClusterIdentifier,
		AWSRegion:         connConfig.AWSRegion,
		Verbose:           verbose,
	}

	ctx, cancel := signalContext(cmd.Context(), "verify")
	defer cancel()

	logger := logging.NewConsoleLogger(verbose)
	pipeline := services.NewPipelineService(db.NewConnector, ui.NewForcedApprover(verbose),
		storage.NewRouter(nil, nil), logger)

	counts, err := pipeline.Verify(ctx, config)
	if len(counts) > 0 {
		ui.RenderCounts(cmd.OutOrStdout(), counts)
	}
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}
	return nil
}
