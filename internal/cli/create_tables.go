package cli

import (
	"github.com/spf13/cobra"

	"github.com/vvka-141/starload/pkg/starload"
)

var createTablesCmd = &cobra.Command{
	Use:   "create-tables",
	Short: "Drop and recreate all tables",
	Long: `Create-tables drops the staging, fact and dimension tables and creates them
again, empty. It is the drop and create phases of 'starload run'.

Examples:
  starload create-tables --force
  starload create-tables -h mycluster.abc.us-west-2.redshift.amazonaws.com -U awsuser -d dev`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executePipeline(cmd, &createTablesFlags,
			[]starload.Phase{starload.PhaseDrop, starload.PhaseCreate})
	},
}

var createTablesFlags pipelineFlagValues

func init() {
	rootCmd.AddCommand(createTablesCmd)
	addPipelineFlags(createTablesCmd, &createTablesFlags, false)
}
