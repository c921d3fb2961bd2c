package cli

import (
	"github.com/spf13/cobra"

	"github.com/vvka-141/starload/internal/catalog"
	"github.com/vvka-141/starload/internal/ui"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the statements a run would execute",
	Long: `Plan prints the statement catalog for the selected phases and dialect
without connecting to the warehouse.

Examples:
  starload plan
  starload plan --phase insert --dialect postgres --sql`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

type planFlagValues struct {
	sources sourceFlags
	phases  []string
	dialect string
	withSQL bool
}

var planFlags planFlagValues

func init() {
	rootCmd.AddCommand(planCmd)

	addSourceFlags(planCmd, &planFlags.sources)
	planCmd.Flags().StringSliceVar(&planFlags.phases, "phase", nil,
		"Phases to show (drop, create, copy, insert); default all")
	_ = planCmd.RegisterFlagCompletionFunc("phase", completeFrom(phaseNames))
	planCmd.Flags().StringVar(&planFlags.dialect, "dialect", "",
		"SQL dialect: redshift|postgres|duckdb (default: dwh.yaml, then redshift)")
	_ = planCmd.RegisterFlagCompletionFunc("dialect", completeFrom(dialectNames))
	planCmd.Flags().BoolVar(&planFlags.withSQL, "sql", false,
		"Print the SQL of every statement after the table")
}

func runPlan(cmd *cobra.Command, args []string) error {
	projectCfg, err := loadProjectConfig(globalFlags.config, globalFlags.verbose)
	if err != nil {
		return err
	}

	phases, err := parsePhases(planFlags.phases)
	if err != nil {
		return err
	}
	dialect, err := resolveDialect(planFlags.dialect, projectCfg, nil)
	if err != nil {
		return err
	}

	cat, err := catalog.New(dialect, resolveSources(cmd, planFlags.sources, projectCfg))
	if err != nil {
		return err
	}
	plan, err := cat.Plan(phases...)
	if err != nil {
		return err
	}

	ui.RenderPlan(cmd.OutOrStdout(), plan, planFlags.withSQL)
	return nil
}
