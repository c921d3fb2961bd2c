package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/starload/pkg/starload"
)

func TestLoad_AllFields(t *testing.T) {
	dir := t.TempDir()
	content := `cluster:
  host: examplecluster.abc123.us-west-2.redshift.amazonaws.com
  port: 5439
  database: dev
  username: awsuser
  sslmode: require
  auth_method: redshift-iam
  cluster_identifier: examplecluster
  region: us-west-2

iam_role:
  arn: arn:aws:iam::123456789012:role/dwhRole

s3:
  log_data: s3://udacity-dend/log_data
  song_data: s3://udacity-dend/song_data
  region: us-east-1
  song_max_errors: 25

dialect: redshift
timeout: 10m
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "examplecluster.abc123.us-west-2.redshift.amazonaws.com", cfg.Cluster.Host)
	assert.Equal(t, 5439, cfg.Cluster.Port)
	assert.Equal(t, "dev", cfg.Cluster.Database)
	assert.Equal(t, "awsuser", cfg.Cluster.Username)
	assert.Equal(t, "require", cfg.Cluster.SSLMode)
	assert.Equal(t, "redshift-iam", cfg.Cluster.AuthMethod)
	assert.Equal(t, "examplecluster", cfg.Cluster.ClusterIdentifier)
	assert.Equal(t, "arn:aws:iam::123456789012:role/dwhRole", cfg.IAMRole.ARN)
	assert.Equal(t, "s3://udacity-dend/log_data", cfg.S3.LogData)
	assert.Equal(t, "s3://udacity-dend/song_data", cfg.S3.SongData)
	assert.Equal(t, "redshift", cfg.Dialect)
	assert.Equal(t, "10m", cfg.Timeout)
	require.NoError(t, cfg.Validate())

	src := cfg.Sources()
	assert.Equal(t, "us-east-1", src.Region)
	assert.Equal(t, 25, src.SongMaxErrors)
	assert.Equal(t, 10*time.Minute, cfg.TimeoutOrDefault(time.Hour))
}

func TestLoad_PasswordIgnored(t *testing.T) {
	dir := t.TempDir()
	content := `cluster:
  username: awsuser
  password: secret
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Cluster.Password)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound), "expected ErrConfigNotFound, got: %v", err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{{invalid"), 0644))

	cfg, err := Load(dir)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(""), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, ProjectConfig{}, *cfg)
}

func TestSources_Defaults(t *testing.T) {
	cfg := &ProjectConfig{}
	src := cfg.Sources()
	assert.Equal(t, starload.DefaultRegion, src.Region)
	assert.Equal(t, starload.DefaultSongMaxErrors, src.SongMaxErrors)

	zero := 0
	cfg.S3.SongMaxErrors = &zero
	assert.Equal(t, 0, cfg.Sources().SongMaxErrors)
}

func TestValidate(t *testing.T) {
	negative := -1
	tests := []struct {
		name    string
		cfg     ProjectConfig
		wantErr bool
	}{
		{"empty is valid", ProjectConfig{}, false},
		{"duckdb dialect", ProjectConfig{Dialect: "duckdb"}, false},
		{"unknown dialect", ProjectConfig{Dialect: "bigquery"}, true},
		{"unknown auth", ProjectConfig{Cluster: ClusterConfig{AuthMethod: "kerberos"}}, true},
		{"port out of range", ProjectConfig{Cluster: ClusterConfig{Port: 70000}}, true},
		{"negative max errors", ProjectConfig{S3: S3Config{SongMaxErrors: &negative}}, true},
		{"bad timeout", ProjectConfig{Timeout: "soon"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, starload.ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestTimeoutOrDefault(t *testing.T) {
	assert.Equal(t, time.Minute, (&ProjectConfig{}).TimeoutOrDefault(time.Minute))
	assert.Equal(t, time.Minute, (&ProjectConfig{Timeout: "bogus"}).TimeoutOrDefault(time.Minute))
	assert.Equal(t, 2*time.Hour, (&ProjectConfig{Timeout: "2h"}).TimeoutOrDefault(time.Minute))
}

func TestLoadPath(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "prod.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("dialect: postgres\n"), 0644))
	cfgPath := filepath.Join(dir, "dwh.cfg")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[CLUSTER]\nDB_NAME=dwh\n"), 0644))

	cfg, path, err := LoadPath(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, yamlPath, path)
	assert.Equal(t, "postgres", cfg.Dialect)

	cfg, path, err = LoadPath(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfgPath, path)
	assert.Equal(t, "dwh", cfg.Cluster.Database)

	cfg, path, err = LoadPath(dir)
	require.NoError(t, err)
	assert.Equal(t, cfgPath, path, "directory without dwh.yaml falls back to dwh.cfg")
	assert.Equal(t, "dwh", cfg.Cluster.Database)

	_, _, err = LoadPath(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}
