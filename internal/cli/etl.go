package cli

import (
	"github.com/spf13/cobra"

	"github.com/vvka-141/starload/pkg/starload"
)

var etlCmd = &cobra.Command{
	Use:   "etl",
	Short: "Load staging tables and populate the star schema",
	Long: `Etl copies the event log and song data into the staging tables, then fills
songplays, users, songs, artists and time from them. It is the copy and
insert phases of 'starload run'; the tables must already exist.

Examples:
  starload etl
  starload etl --preflight --verify`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executePipeline(cmd, &etlFlags,
			[]starload.Phase{starload.PhaseCopy, starload.PhaseInsert})
	},
}

var etlFlags pipelineFlagValues

func init() {
	rootCmd.AddCommand(etlCmd)
	addPipelineFlags(etlCmd, &etlFlags, false)
}
