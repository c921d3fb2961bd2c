package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/starload/internal/config"
	"github.com/vvka-141/starload/internal/db"
	"github.com/vvka-141/starload/pkg/starload"
)

// loadProjectConfig loads .env, the settings at path and the STARLOAD_*
// overrides. Missing settings are not an error: everything can come from
// flags and the environment.
func loadProjectConfig(path string, verbose bool) (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	projectCfg, source, err := config.LoadPath(path)
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		projectCfg = &config.ProjectConfig{}
		source = ""
	case err != nil:
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if verbose && source != "" {
		fmt.Fprintf(os.Stderr, "[VERBOSE] Settings loaded from %s\n", source)
	}

	config.ApplyEnv(projectCfg, os.Getenv)
	if err := projectCfg.Validate(); err != nil {
		return nil, err
	}
	return projectCfg, nil
}

// resolveConnectionFromFlags resolves connection configuration from flags,
// environment and project config.
func resolveConnectionFromFlags(flags connectionFlags, projectCfg *config.ProjectConfig) (*starload.ConnectionConfig, error) {
	granular := &db.GranularConnFlags{
		Host:     flags.host,
		Port:     flags.port,
		Username: flags.username,
		Database: flags.database,
		SSLMode:  flags.sslMode,
	}
	aws := &db.AWSFlags{
		AuthMethod:        flags.authMethod,
		ClusterIdentifier: flags.clusterID,
		Region:            flags.awsRegion,
	}
	return db.ResolveConnectionParams(flags.connection, granular, aws, db.LoadFromEnvironment(), projectCfg)
}

// resolveDialect picks flag > settings > connection kind > redshift.
func resolveDialect(flag string, projectCfg *config.ProjectConfig, connConfig *starload.ConnectionConfig) (starload.Dialect, error) {
	name := flag
	if name == "" && projectCfg != nil {
		name = projectCfg.Dialect
	}
	if name == "" && connConfig != nil && connConfig.DuckDBPath != "" {
		return starload.DialectDuckDB, nil
	}
	return starload.ParseDialect(name)
}

func parsePhases(names []string) ([]starload.Phase, error) {
	var phases []starload.Phase
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			p, err := starload.ParsePhase(part)
			if err != nil {
				return nil, err
			}
			phases = append(phases, p)
		}
	}
	return phases, nil
}

// resolveSources applies source flags that were set explicitly on top of the settings.
func resolveSources(cmd *cobra.Command, flags sourceFlags, projectCfg *config.ProjectConfig) starload.Sources {
	src := projectCfg.Sources()
	if flags.logData != "" {
		src.LogData = flags.logData
	}
	if flags.songData != "" {
		src.SongData = flags.songData
	}
	if flags.iamRole != "" {
		src.IAMRoleARN = flags.iamRole
	}
	if flags.s3Region != "" {
		src.Region = flags.s3Region
	}
	if cmd.Flags().Changed("song-max-errors") {
		src.SongMaxErrors = flags.songMaxErrors
	}
	return src
}

// resolveEffectiveTimeout returns the flag value when set explicitly, else the settings value.
func resolveEffectiveTimeout(cmd *cobra.Command, projectCfg *config.ProjectConfig, flagTimeout time.Duration) time.Duration {
	if cmd.Flags().Changed("timeout") || projectCfg == nil {
		return flagTimeout
	}
	return projectCfg.TimeoutOrDefault(flagTimeout)
}

// logConnectionVerbose logs connection details when verbose mode is enabled.
func logConnectionVerbose(connConfig *starload.ConnectionConfig, dialect starload.Dialect) {
	fmt.Fprintf(os.Stderr, "[VERBOSE] Connection resolved:\n")
	if connConfig.DuckDBPath != "" {
		fmt.Fprintf(os.Stderr, "  DuckDB: %s\n", connConfig.DuckDBPath)
	} else {
		fmt.Fprintf(os.Stderr, "  Host: %s\n", connConfig.Host)
		fmt.Fprintf(os.Stderr, "  Port: %d\n", connConfig.Port)
		fmt.Fprintf(os.Stderr, "  User: %s\n", connConfig.Username)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", connConfig.Database)
		fmt.Fprintf(os.Stderr, "  SSL Mode: %s\n", connConfig.SSLMode)
		fmt.Fprintf(os.Stderr, "  Auth Method: %s\n", connConfig.AuthMethod)
	}
	fmt.Fprintf(os.Stderr, "  Dialect: %s\n", dialect)
}
