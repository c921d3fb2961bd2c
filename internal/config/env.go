package config

import (
	"strconv"
	"strings"
)

// Environment variables that override dwh.yaml values.
const (
	EnvLogData    = "STARLOAD_LOG_DATA"
	EnvSongData   = "STARLOAD_SONG_DATA"
	EnvIAMRoleARN = "STARLOAD_IAM_ROLE_ARN"
	EnvS3Region   = "STARLOAD_S3_REGION"
	EnvDialect    = "STARLOAD_DIALECT"
	EnvMaxErrors  = "STARLOAD_SONG_MAX_ERRORS"
)

// ApplyEnv overrides file values with non-empty environment variables.
// getenv is usually os.Getenv. An unparseable STARLOAD_SONG_MAX_ERRORS is ignored.
func ApplyEnv(cfg *ProjectConfig, getenv func(string) string) {
	if cfg == nil || getenv == nil {
		return
	}

	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	set(&cfg.S3.LogData, EnvLogData)
	set(&cfg.S3.SongData, EnvSongData)
	set(&cfg.IAMRole.ARN, EnvIAMRoleARN)
	set(&cfg.S3.Region, EnvS3Region)
	set(&cfg.Dialect, EnvDialect)

	if v := strings.TrimSpace(getenv(EnvMaxErrors)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.S3.SongMaxErrors = &n
		}
	}
}
