package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/starload/internal/config"
	"github.com/vvka-141/starload/pkg/starload"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL flag conventions (-h, -p, -U, -d).
//
// Note: Password is NOT included as a CLI flag for security reasons.
// Use one of these methods instead:
//  1. $PGPASSWORD environment variable
//  2. Connection string with embedded password
//  3. DB_PASSWORD in a legacy dwh.cfg
//  4. --auth-method redshift-iam for temporary credentials
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty reports whether no server-selecting flag was given. Database is
// excluded because it may override the database of a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// AWSFlags selects IAM authentication from the command line.
type AWSFlags struct {
	AuthMethod        string
	ClusterIdentifier string
	Region            string
}

// EnvVars holds the libpq and AWS environment variables the resolver reads.
type EnvVars struct {
	PGHOST       string
	PGPORT       string
	PGUSER       string
	PGPASSWORD   string
	PGDATABASE   string
	PGSSLMODE    string
	DATABASE_URL string
	AWS_REGION   string
}

func LoadFromEnvironment() *EnvVars {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = os.Getenv("AWS_DEFAULT_REGION")
	}
	return &EnvVars{
		PGHOST:       os.Getenv("PGHOST"),
		PGPORT:       os.Getenv("PGPORT"),
		PGUSER:       os.Getenv("PGUSER"),
		PGPASSWORD:   os.Getenv("PGPASSWORD"),
		PGDATABASE:   os.Getenv("PGDATABASE"),
		PGSSLMODE:    os.Getenv("PGSSLMODE"),
		DATABASE_URL: os.Getenv("DATABASE_URL"),
		AWS_REGION:   region,
	}
}

// ResolveConnectionParams resolves the warehouse connection using this precedence:
//
//  1. Connection string flag (--connection)
//  2. DATABASE_URL, when no granular flag is given
//  3. Granular flags (-h, -p, -U, -d), then PG* variables, then the
//     cluster section of dwh.yaml / dwh.cfg, then defaults (localhost:5439)
//
// IAM settings follow flag > config > environment. Giving both --connection
// and granular flags is an error.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	awsFlags *AWSFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*starload.ConnectionConfig, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if awsFlags == nil {
		awsFlags = &AWSFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}

	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf(
			"cannot specify both --connection and granular flags (-h, -p, -U)\n" +
				"Choose one approach:\n" +
				"  1. Connection string: --connection \"postgresql://awsuser@cluster:5439/dev\"\n" +
				"  2. Granular flags: -h cluster -p 5439 -U awsuser -d dev\n" +
				"  3. Environment variables: export PGHOST=cluster PGUSER=awsuser: %w",
			starload.ErrInvalidConfig,
		)
	}

	var cfg *starload.ConnectionConfig
	var err error

	switch {
	case connStringFlag != "":
		cfg, err = resolveFromConnectionString(connStringFlag, envVars)
	case granularFlags.IsEmpty() && envVars.DATABASE_URL != "":
		cfg, err = resolveFromConnectionString(envVars.DATABASE_URL, envVars)
	default:
		cfg, err = resolveFromGranularParams(granularFlags, envVars, projectConfig)
	}
	if err != nil {
		return nil, err
	}

	if granularFlags.Database != "" && cfg.DuckDBPath == "" {
		cfg.Database = granularFlags.Database
	}
	if cfg.AppName == "" {
		cfg.AppName = starload.AppName
	}

	if err := applyAWSAuth(cfg, awsFlags, envVars, projectConfig); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveFromConnectionString(connStr string, envVars *EnvVars) (*starload.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w: %w", starload.ErrInvalidConfig, err)
	}
	if cfg.DuckDBPath != "" {
		return cfg, nil
	}
	if cfg.Password == "" {
		cfg.Password = envVars.PGPASSWORD
	}
	if envVars.PGSSLMODE != "" && cfg.SSLMode == "prefer" {
		cfg.SSLMode = envVars.PGSSLMODE
	}
	return cfg, nil
}

// resolveFromGranularParams resolves each parameter as flag > env > config > default.
func resolveFromGranularParams(
	flags *GranularConnFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*starload.ConnectionConfig, error) {
	var pc config.ClusterConfig
	if projectConfig != nil {
		pc = projectConfig.Cluster
	}

	cfg := &starload.ConnectionConfig{
		Host:             firstNonEmpty(flags.Host, envVars.PGHOST, pc.Host, "localhost"),
		Username:         firstNonEmpty(flags.Username, envVars.PGUSER, pc.Username),
		Password:         firstNonEmpty(envVars.PGPASSWORD, pc.Password),
		Database:         firstNonEmpty(flags.Database, envVars.PGDATABASE, pc.Database, "dev"),
		SSLMode:          firstNonEmpty(flags.SSLMode, envVars.PGSSLMODE, pc.SSLMode, "prefer"),
		AuthMethod:       starload.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case envVars.PGPORT != "":
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value '%s': must be an integer: %w", envVars.PGPORT, starload.ErrInvalidConfig)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = starload.DefaultRedshiftPort
	}

	return cfg, nil
}

// applyAWSAuth fills the IAM fields. Values already carried by a connection
// string are only replaced by explicit flags.
func applyAWSAuth(cfg *starload.ConnectionConfig, flags *AWSFlags, env *EnvVars, projectConfig *config.ProjectConfig) error {
	var pc config.ClusterConfig
	if projectConfig != nil {
		pc = projectConfig.Cluster
	}

	if flags.AuthMethod != "" || (cfg.AuthMethod == starload.AuthMethodStandard && pc.AuthMethod != "") {
		method, err := starload.ParseAuthMethod(firstNonEmpty(flags.AuthMethod, pc.AuthMethod))
		if err != nil {
			return err
		}
		cfg.AuthMethod = method
	}

	cfg.ClusterIdentifier = firstNonEmpty(flags.ClusterIdentifier, cfg.ClusterIdentifier, pc.ClusterIdentifier)
	cfg.AWSRegion = firstNonEmpty(flags.Region, cfg.AWSRegion, pc.Region, env.AWS_REGION)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
