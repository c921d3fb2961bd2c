package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vvka-141/starload/internal/catalog"
	"github.com/vvka-141/starload/internal/db"
	"github.com/vvka-141/starload/pkg/starload"
)

// PipelineService implements the Runner interface.
// Thread-Safety: NOT safe for concurrent Run() calls on the same instance.
type PipelineService struct {
	connectorFactory starload.ConnectorFactory
	approver         starload.Approver
	checker          starload.SourceChecker
	logger           starload.Logger
	verifier         *Verifier

	now      func() time.Time
	newRunID func() uuid.UUID
}

// NewPipelineService creates a PipelineService with all dependencies injected.
// Nil dependencies are programmer errors and panic at construction time;
// runtime conditions are returned as errors from Run.
func NewPipelineService(
	connectorFactory starload.ConnectorFactory,
	approver starload.Approver,
	checker starload.SourceChecker,
	logger starload.Logger,
) *PipelineService {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if checker == nil {
		panic("checker cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &PipelineService{
		connectorFactory: connectorFactory,
		approver:         approver,
		checker:          checker,
		logger:           logger,
		verifier:         NewVerifier(logger),
		now:              time.Now,
		newRunID:         uuid.New,
	}
}

// Run executes the selected phases of the catalog in order. Every statement
// commits on its own; the first failure stops the run and earlier statements
// stay applied.
func (s *PipelineService) Run(ctx context.Context, config starload.RunConfig) (*starload.RunReport, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cat, err := catalog.New(config.Dialect, config.Sources)
	if err != nil {
		return nil, err
	}
	phases := starload.NormalizePhases(config.Phases)
	plan, err := cat.Plan(phases...)
	if err != nil {
		return nil, err
	}

	report := &starload.RunReport{
		RunID:     s.newRunID(),
		Dialect:   config.Dialect,
		Database:  config.DatabaseName,
		DryRun:    config.DryRun,
		StartedAt: s.now(),
		Plan:      plan,
	}
	defer func() { report.Duration = s.now().Sub(report.StartedAt) }()

	s.logger.Verbose("Run %s: %d statements across phases %v (%s)", report.RunID, len(plan), phases, config.Dialect)

	if config.DryRun {
		s.logger.Info("Dry run: %d statements planned, nothing executed", len(plan))
		return report, nil
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	if config.Preflight && config.HasPhase(starload.PhaseCopy) {
		if err := s.preflight(ctx, config.Sources); err != nil {
			return report, err
		}
	}

	if config.HasPhase(starload.PhaseDrop) {
		if err := s.requestApproval(ctx, config.DatabaseName, cat.Tables()); err != nil {
			return report, err
		}
	}

	conn, err := s.connect(ctx, config)
	if err != nil {
		return report, err
	}
	defer conn.Close()

	if err := s.execute(ctx, conn, plan, report); err != nil {
		return report, err
	}

	if config.Verify {
		if phases[len(phases)-1] == starload.PhaseDrop {
			s.logger.Info("Skipping row counts: the run ended with the drop phase")
		} else {
			counts, err := s.verifier.Count(ctx, conn, cat.Tables())
			report.Counts = counts
			if err != nil {
				return report, err
			}
		}
	}

	s.logger.Info("✓ Run %s completed: %d statements in %s", report.RunID, len(report.Results),
		s.now().Sub(report.StartedAt).Round(time.Millisecond))
	return report, nil
}

// Verify connects and counts the rows of every catalog table.
func (s *PipelineService) Verify(ctx context.Context, config starload.RunConfig) ([]starload.TableCount, error) {
	if config.DatabaseName == "" || config.ConnectionString == "" {
		return nil, fmt.Errorf("database and connection string are required: %w", starload.ErrInvalidConfig)
	}
	conn, err := s.connect(ctx, config)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return s.verifier.Count(ctx, conn, catalog.Tables())
}

func (s *PipelineService) preflight(ctx context.Context, src starload.Sources) error {
	for _, location := range []string{src.LogData, src.SongData} {
		s.logger.Verbose("Checking source %s", location)
		if err := s.checker.Check(ctx, location); err != nil {
			return fmt.Errorf("preflight failed: %w", err)
		}
	}
	s.logger.Verbose("✓ Sources hold data")
	return nil
}

func (s *PipelineService) requestApproval(ctx context.Context, dbName string, tables []string) error {
	s.logger.Verbose("Requesting approval to drop %d tables in '%s'", len(tables), dbName)
	approved, err := s.approver.RequestApproval(ctx, dbName, tables)
	if err != nil {
		return fmt.Errorf("approval request failed: %w", err)
	}
	if !approved {
		return starload.ErrApprovalDenied
	}
	return nil
}

func (s *PipelineService) connect(ctx context.Context, config starload.RunConfig) (starload.DBConnection, error) {
	connConfig, err := db.ParseConnectionString(config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w: %w", starload.ErrInvalidConfig, err)
	}
	if connConfig.DuckDBPath == "" {
		connConfig.Database = config.DatabaseName
	}
	if connConfig.AppName == "" {
		connConfig.AppName = starload.AppName
	}
	if config.AuthMethod != starload.AuthMethodStandard {
		connConfig.AuthMethod = config.AuthMethod
	}
	if config.ClusterIdentifier != "" {
		connConfig.ClusterIdentifier = config.ClusterIdentifier
	}
	if config.AWSRegion != "" {
		connConfig.AWSRegion = config.AWSRegion
	}

	s.logger.Verbose("Connecting to %s", db.RedactConnectionString(connConfig))

	connector, err := s.connectorFactory(connConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}
	conn, err := connector.Connect(ctx)
	if err != nil {
		if errors.Is(err, starload.ErrConnectionFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", starload.ErrConnectionFailed, err)
	}
	return conn, nil
}

func (s *PipelineService) execute(ctx context.Context, conn starload.DBConnection, plan []starload.Statement, report *starload.RunReport) error {
	var phase starload.Phase
	for i, stmt := range plan {
		if stmt.Phase != phase {
			phase = stmt.Phase
			s.logger.Info("Phase %s", phase)
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run interrupted before %s: %w", stmt.Name, err)
		}

		s.logger.Verbose("[%d/%d] %s", i+1, len(plan), stmt.Name)
		started := s.now()
		rows, err := conn.Exec(ctx, stmt.SQL)
		elapsed := s.now().Sub(started)
		if err != nil {
			s.logger.Error("%s failed after %s", stmt.Name, elapsed.Round(time.Millisecond))
			s.logger.Verbose("Statement: %s", starload.PreviewSQL(stmt.SQL))
			return fmt.Errorf("%w: %s: %w", starload.ErrExecutionFailed, stmt.Name, err)
		}

		report.Results = append(report.Results, starload.StatementResult{
			Statement:    stmt,
			RowsAffected: rows,
			Duration:     elapsed,
		})
		s.logger.Verbose("✓ %s (%d rows, %s)", stmt.Name, rows, elapsed.Round(time.Millisecond))
	}
	return nil
}

var _ starload.Runner = (*PipelineService)(nil)
