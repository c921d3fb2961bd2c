package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vvka-141/starload/internal/db"
	"github.com/vvka-141/starload/internal/logging"
	"github.com/vvka-141/starload/internal/services"
	"github.com/vvka-141/starload/internal/storage"
	"github.com/vvka-141/starload/internal/ui"
	"github.com/vvka-141/starload/pkg/starload"
)

// buildRunConfig resolves flags, settings and environment into a RunConfig.
// phases overrides --phase when the command runs a fixed set.
func buildRunConfig(cmd *cobra.Command, flags *pipelineFlagValues, phases []starload.Phase, verbose bool) (starload.RunConfig, error) {
	projectCfg, err := loadProjectConfig(globalFlags.config, verbose)
	if err != nil {
		return starload.RunConfig{}, err
	}

	if phases == nil {
		phases, err = parsePhases(flags.phases)
		if err != nil {
			return starload.RunConfig{}, err
		}
	}

	config := starload.RunConfig{
		Phases:    phases,
		Sources:   resolveSources(cmd, flags.sources, projectCfg),
		Force:     flags.force,
		DryRun:    flags.dryRun,
		Preflight: flags.preflight,
		Verify:    flags.verify,
		Timeout:   resolveEffectiveTimeout(cmd, projectCfg, flags.timeout),
		Verbose:   verbose,
	}

	var connConfig *starload.ConnectionConfig
	if !flags.dryRun {
		connConfig, err = resolveConnectionFromFlags(flags.conn, projectCfg)
		if err != nil {
			return starload.RunConfig{}, err
		}
	}

	config.Dialect, err = resolveDialect(flags.dialect, projectCfg, connConfig)
	if err != nil {
		return starload.RunConfig{}, err
	}

	if connConfig != nil {
		if verbose {
			logConnectionVerbose(connConfig, config.Dialect)
		}
		config.DatabaseName = connConfig.Database
		config.ConnectionString = db.BuildConnectionString(connConfig)
		config.AuthMethod = connConfig.AuthMethod
		config.ClusterIdentifier = connConfig.ClusterIdentifier
		config.AWSRegion = connConfig.AWSRegion
	}

	return config, nil
}

// selectApprover picks the approver for the drop phase. Without a terminal
// the prompt cannot be answered, so --force becomes mandatory.
func selectApprover(config starload.RunConfig, interactive bool) (starload.Approver, error) {
	if config.Force {
		return ui.NewForcedApprover(config.Verbose), nil
	}
	if !interactive && !config.DryRun && config.HasPhase(starload.PhaseDrop) {
		return nil, fmt.Errorf("the drop phase needs confirmation but no terminal is attached; pass --force: %w",
			starload.ErrApprovalDenied)
	}
	return ui.NewInteractiveApprover(config.Verbose), nil
}

// buildSourceChecker wires the S3 checker only when preflight will touch S3.
func buildSourceChecker(ctx context.Context, config starload.RunConfig) (starload.SourceChecker, error) {
	if !config.Preflight || config.DryRun || !config.HasPhase(starload.PhaseCopy) {
		return storage.NewRouter(nil, nil), nil
	}
	if !storage.IsS3URI(config.Sources.LogData) && !storage.IsS3URI(config.Sources.SongData) {
		return storage.NewRouter(nil, nil), nil
	}
	s3Checker, err := storage.NewS3SourceCheckerFromEnv(ctx, config.Sources.Region)
	if err != nil {
		return nil, err
	}
	return storage.NewRouter(s3Checker, nil), nil
}

// signalContext cancels on Ctrl+C or SIGTERM.
func signalContext(parent context.Context, what string) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintf(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling %s...\n", what)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

// executePipeline runs a command that executes the catalog.
func executePipeline(cmd *cobra.Command, flags *pipelineFlagValues, phases []starload.Phase) error {
	verbose := globalFlags.verbose

	config, err := buildRunConfig(cmd, flags, phases, verbose)
	if err != nil {
		return err
	}

	approver, err := selectApprover(config, ui.IsInteractive())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context(), "run")
	defer cancel()

	checker, err := buildSourceChecker(ctx, config)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)
	pipeline := services.NewPipelineService(db.NewConnector, approver, checker, logger)

	report, runErr := pipeline.Run(ctx, config)
	out := cmd.OutOrStdout()
	if report != nil {
		if config.DryRun {
			ui.RenderPlan(out, report.Plan, verbose)
		} else if len(report.Results) > 0 {
			ui.RenderReport(out, report)
		}
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return fmt.Errorf("run cancelled: %w", runErr)
		}
		return fmt.Errorf("run failed: %w", runErr)
	}
	return nil
}
