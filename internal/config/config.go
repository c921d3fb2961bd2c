package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/starload/pkg/starload"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type ClusterConfig struct {
	Host              string `yaml:"host"`
	Port              int    `yaml:"port"`
	Database          string `yaml:"database"`
	Username          string `yaml:"username"`
	SSLMode           string `yaml:"sslmode,omitempty"`
	AuthMethod        string `yaml:"auth_method,omitempty"`
	ClusterIdentifier string `yaml:"cluster_identifier,omitempty"`
	Region            string `yaml:"region,omitempty"`

	// Password is only read from the legacy dwh.cfg; dwh.yaml never carries secrets.
	Password string `yaml:"-"`
}

type IAMRoleConfig struct {
	ARN string `yaml:"arn"`
}

type S3Config struct {
	LogData       string `yaml:"log_data"`
	SongData      string `yaml:"song_data"`
	Region        string `yaml:"region,omitempty"`
	SongMaxErrors *int   `yaml:"song_max_errors,omitempty"`
}

type ProjectConfig struct {
	Cluster ClusterConfig `yaml:"cluster"`
	IAMRole IAMRoleConfig `yaml:"iam_role"`
	S3      S3Config      `yaml:"s3"`
	Dialect string        `yaml:"dialect,omitempty"`
	Timeout string        `yaml:"timeout,omitempty"`
}

const ConfigFileName = "dwh.yaml"

// Load reads dwh.yaml from dir.
func Load(dir string) (*ProjectConfig, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads a YAML project file.
func LoadFile(configPath string) (*ProjectConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}
	return &cfg, nil
}

// Discover loads dwh.yaml from dir, falling back to the legacy dwh.cfg.
// It returns the path that was read alongside the config.
func Discover(dir string) (*ProjectConfig, string, error) {
	cfg, err := Load(dir)
	if err == nil {
		return cfg, filepath.Join(dir, ConfigFileName), nil
	}
	if !errors.Is(err, ErrConfigNotFound) {
		return nil, "", err
	}

	legacyPath := filepath.Join(dir, LegacyConfigFileName)
	cfg, err = LoadLegacy(legacyPath)
	if err != nil {
		return nil, "", err
	}
	return cfg, legacyPath, nil
}

// LoadPath loads the settings at path. A directory is searched with
// Discover; a file is read as INI when it ends in .cfg or .ini and as YAML
// otherwise.
func LoadPath(path string) (*ProjectConfig, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrConfigNotFound
		}
		return nil, "", err
	}
	if info.IsDir() {
		return Discover(path)
	}

	var cfg *ProjectConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cfg", ".ini":
		cfg, err = LoadLegacy(path)
	default:
		cfg, err = LoadFile(path)
	}
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Validate checks the values that can be checked without a connection.
func (c *ProjectConfig) Validate() error {
	var errs []error

	if _, err := starload.ParseDialect(c.Dialect); err != nil {
		errs = append(errs, err)
	}
	if _, err := starload.ParseAuthMethod(c.Cluster.AuthMethod); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", starload.ErrInvalidConfig, err))
	}
	if c.Cluster.Port < 0 || c.Cluster.Port > 65535 {
		errs = append(errs, fmt.Errorf("cluster port %d is out of range: %w", c.Cluster.Port, starload.ErrInvalidConfig))
	}
	if c.S3.SongMaxErrors != nil && *c.S3.SongMaxErrors < 0 {
		errs = append(errs, fmt.Errorf("s3.song_max_errors cannot be negative: %w", starload.ErrInvalidConfig))
	}
	if c.Timeout != "" {
		if _, err := time.ParseDuration(c.Timeout); err != nil {
			errs = append(errs, fmt.Errorf("invalid timeout %q: %w", c.Timeout, starload.ErrInvalidConfig))
		}
	}

	return errors.Join(errs...)
}

// Sources returns the COPY sources with defaults applied.
func (c *ProjectConfig) Sources() starload.Sources {
	src := starload.Sources{
		LogData:       c.S3.LogData,
		SongData:      c.S3.SongData,
		IAMRoleARN:    c.IAMRole.ARN,
		Region:        c.S3.Region,
		SongMaxErrors: starload.DefaultSongMaxErrors,
	}
	if src.Region == "" {
		src.Region = starload.DefaultRegion
	}
	if c.S3.SongMaxErrors != nil {
		src.SongMaxErrors = *c.S3.SongMaxErrors
	}
	return src
}

// TimeoutOrDefault returns the configured timeout, or the fallback when unset or invalid.
func (c *ProjectConfig) TimeoutOrDefault(fallback time.Duration) time.Duration {
	if c.Timeout == "" {
		return fallback
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fallback
	}
	return d
}
