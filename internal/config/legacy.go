package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// LegacyConfigFileName is the INI settings file of the original pipeline scripts.
const LegacyConfigFileName = "dwh.cfg"

// LoadLegacy reads an INI file with [CLUSTER], [IAM_ROLE] and [S3] sections.
// Values may be wrapped in single quotes.
func LoadLegacy(path string) (*ProjectConfig, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cluster := f.Section("CLUSTER")
	role := f.Section("IAM_ROLE")
	s3 := f.Section("S3")

	cfg := &ProjectConfig{
		Cluster: ClusterConfig{
			Host:     unquote(cluster.Key("HOST").String()),
			Database: unquote(cluster.Key("DB_NAME").String()),
			Username: unquote(cluster.Key("DB_USER").String()),
			Password: unquote(cluster.Key("DB_PASSWORD").String()),
		},
		IAMRole: IAMRoleConfig{
			ARN: unquote(role.Key("ARN").String()),
		},
		S3: S3Config{
			LogData:  unquote(s3.Key("LOG_DATA").String()),
			SongData: unquote(s3.Key("SONG_DATA").String()),
			Region:   unquote(s3.Key("REGION").String()),
		},
	}

	if raw := unquote(cluster.Key("DB_PORT").String()); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_PORT %q in %s: %w", raw, path, err)
		}
		cfg.Cluster.Port = port
	}

	return cfg, nil
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
