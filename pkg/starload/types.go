package starload

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Phase is one of the four ordered statement lists of the catalog.
type Phase string

const (
	PhaseDrop   Phase = "drop"
	PhaseCreate Phase = "create"
	PhaseCopy   Phase = "copy"
	PhaseInsert Phase = "insert"
)

// AllPhases returns every phase in execution order.
func AllPhases() []Phase {
	return []Phase{PhaseDrop, PhaseCreate, PhaseCopy, PhaseInsert}
}

// IsValid returns true if the Phase is one of the defined phases.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseDrop, PhaseCreate, PhaseCopy, PhaseInsert:
		return true
	}
	return false
}

// ParsePhase parses a phase name (case-insensitive).
func ParsePhase(s string) (Phase, error) {
	p := Phase(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("unknown phase %q (expected drop, create, copy or insert): %w", s, ErrInvalidConfig)
	}
	return p, nil
}

// NormalizePhases removes duplicates and sorts phases into execution order.
// An empty input selects every phase.
func NormalizePhases(phases []Phase) []Phase {
	if len(phases) == 0 {
		return AllPhases()
	}
	seen := make(map[Phase]bool, len(phases))
	for _, p := range phases {
		seen[p] = true
	}
	var out []Phase
	for _, p := range AllPhases() {
		if seen[p] {
			out = append(out, p)
		}
	}
	return out
}

// Dialect selects the SQL flavour the catalog is rendered for.
type Dialect string

const (
	DialectRedshift Dialect = "redshift"
	DialectPostgres Dialect = "postgres"
	DialectDuckDB   Dialect = "duckdb"
)

// IsValid returns true if the Dialect is one of the supported dialects.
func (d Dialect) IsValid() bool {
	switch d {
	case DialectRedshift, DialectPostgres, DialectDuckDB:
		return true
	}
	return false
}

// ParseDialect parses a dialect name. An empty string selects Redshift.
func ParseDialect(s string) (Dialect, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DialectRedshift, nil
	}
	d := Dialect(s)
	if !d.IsValid() {
		return "", fmt.Errorf("unknown dialect %q (expected redshift, postgres or duckdb): %w", s, ErrInvalidConfig)
	}
	return d, nil
}

// Statement is one named entry of the catalog, rendered for a dialect.
type Statement struct {
	Name  string // e.g. "copy_staging_songs"
	Phase Phase
	Table string
	SQL   string
}

// Sources describes where the COPY phase reads from.
type Sources struct {
	// LogData is the location of the listening-event JSON files.
	LogData string

	// SongData is the location of the song-metadata JSON files.
	SongData string

	// IAMRoleARN is the role the warehouse assumes to read the bucket.
	IAMRoleARN string

	// Region is the region of the source bucket.
	Region string

	// SongMaxErrors is the error tolerance of the song-data load.
	SongMaxErrors int
}

// RunConfig contains all parameters needed for a pipeline run.
type RunConfig struct {
	// DatabaseName is the target database name
	DatabaseName string

	// ConnectionString is the warehouse connection string (URI or key=value format)
	ConnectionString string

	// Dialect selects how the catalog is rendered
	Dialect Dialect

	// Phases to execute; empty means all of them
	Phases []Phase

	// Sources configures the COPY phase
	Sources Sources

	// Force skips the interactive approval of the drop phase
	Force bool

	// DryRun renders the plan without connecting
	DryRun bool

	// Preflight verifies COPY sources before connecting
	Preflight bool

	// Verify counts the rows of every table after the run
	Verify bool

	// Timeout is the global timeout for the entire run
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// ClusterIdentifier and AWSRegion are used by the IAM authentication methods.
	ClusterIdentifier string
	AWSRegion         string
}

// Validate checks if the RunConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *RunConfig) Validate() error {
	var errs []error

	if !c.DryRun {
		if c.DatabaseName == "" {
			errs = append(errs, fmt.Errorf("DatabaseName is required: %w", ErrInvalidConfig))
		}
		if c.ConnectionString == "" {
			errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
		}
	}

	if !c.Dialect.IsValid() {
		errs = append(errs, fmt.Errorf("dialect %q is not supported: %w", c.Dialect, ErrInvalidConfig))
	}

	for _, p := range c.Phases {
		if !p.IsValid() {
			errs = append(errs, fmt.Errorf("phase %q is not valid: %w", p, ErrInvalidConfig))
		}
	}

	if c.HasPhase(PhaseCopy) {
		if c.Sources.LogData == "" {
			errs = append(errs, fmt.Errorf("log data location is required for the copy phase: %w", ErrInvalidConfig))
		}
		if c.Sources.SongData == "" {
			errs = append(errs, fmt.Errorf("song data location is required for the copy phase: %w", ErrInvalidConfig))
		}
		if c.Dialect == DialectRedshift && c.Sources.IAMRoleARN == "" {
			errs = append(errs, fmt.Errorf("IAM role ARN is required for the copy phase: %w", ErrInvalidConfig))
		}
	}

	if c.Sources.SongMaxErrors < 0 {
		errs = append(errs, fmt.Errorf("song max errors cannot be negative: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	if !c.AuthMethod.IsValid() {
		errs = append(errs, fmt.Errorf("auth method %v is not valid: %w", c.AuthMethod, ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// HasPhase reports whether the run executes phase p.
func (c *RunConfig) HasPhase(p Phase) bool {
	for _, q := range NormalizePhases(c.Phases) {
		if q == p {
			return true
		}
	}
	return false
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// ClusterIdentifier names the Redshift cluster for redshift-iam authentication.
	ClusterIdentifier string

	// AWSRegion is used by the IAM authentication methods.
	AWSRegion string

	// DuckDBPath is set for duckdb:// connection strings (":memory:" for in-memory).
	DuckDBPath string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard    AuthMethod = iota // Username/Password
	AuthMethodRedshiftIAM                   // redshift:GetClusterCredentials
	AuthMethodRDSIAM                        // RDS/Aurora IAM token
)

// String returns the configuration name of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "password"
	case AuthMethodRedshiftIAM:
		return "redshift-iam"
	case AuthMethodRDSIAM:
		return "rds-iam"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodRDSIAM
}

// ParseAuthMethod parses an auth method name. An empty string selects password auth.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "password", "standard":
		return AuthMethodStandard, nil
	case "redshift-iam", "iam":
		return AuthMethodRedshiftIAM, nil
	case "rds-iam":
		return AuthMethodRDSIAM, nil
	}
	return 0, fmt.Errorf("unknown auth method %q: %w", s, ErrUnsupportedAuthMethod)
}

// StatementResult records one executed statement.
type StatementResult struct {
	Statement    Statement
	RowsAffected int64
	Duration     time.Duration
}

// TableCount is the row count of one table after a run.
type TableCount struct {
	Table string
	Rows  int64
}

// RunReport summarizes a pipeline run.
type RunReport struct {
	RunID     uuid.UUID
	Dialect   Dialect
	Database  string
	DryRun    bool
	StartedAt time.Time
	Duration  time.Duration

	// Plan is every statement selected for the run, in execution order.
	Plan []Statement

	// Results holds the statements that completed.
	Results []StatementResult

	// Counts is filled when the run verifies row counts.
	Counts []TableCount
}

// TotalRows sums the rows affected by the given phase.
func (r *RunReport) TotalRows(p Phase) int64 {
	var n int64
	for _, res := range r.Results {
		if res.Statement.Phase == p {
			n += res.RowsAffected
		}
	}
	return n
}
