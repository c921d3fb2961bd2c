package db

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/starload/internal/retry"
	"github.com/vvka-141/starload/pkg/starload"
)

// Pool settings. The pipeline runs one statement at a time, so a small
// pool is enough; idle connections are kept for the length of a long COPY.
const (
	DefaultMaxConns        = 2
	DefaultMinConns        = 1
	DefaultMaxConnIdleTime = 30 * time.Minute
)

// configurePool applies the pool settings shared by every pgx connector.
// Redshift does not support the extended protocol's statement cache, so
// all statements go through the simple protocol.
func configurePool(poolConfig *pgxpool.Config) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		fmt.Fprintln(os.Stderr, notice.Message)
	}
}

func newConnectExecutor() *retry.Executor {
	strategy := retry.NewExponentialBackoff(starload.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(starload.DefaultRetryInitialDelay),
		retry.WithMaxDelay(starload.DefaultRetryMaxDelay),
	)
	return retry.NewExecutor(retry.NewWarehouseErrorClassifier(), strategy)
}

// openPool creates and pings a pool for config.
func openPool(ctx context.Context, config *starload.ConnectionConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(config))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}
	configurePool(poolConfig)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, wrapConnectionError(err, config.Host, config.Port, config.Database)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrapConnectionError(err, config.Host, config.Port, config.Database)
	}
	return pool, nil
}

// StandardConnector connects with username and password, retrying
// transient failures.
type StandardConnector struct {
	config        *starload.ConnectionConfig
	retryExecutor *retry.Executor
}

// NewStandardConnector creates a password-authenticated connector for config.
func NewStandardConnector(config *starload.ConnectionConfig) *StandardConnector {
	return &StandardConnector{
		config:        config,
		retryExecutor: newConnectExecutor(),
	}
}

// Connect opens a pool and pings it, retrying transient failures.
func (c *StandardConnector) Connect(ctx context.Context) (starload.DBConnection, error) {
	var pool *pgxpool.Pool
	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		var err error
		pool, err = openPool(ctx, c.config)
		return err
	})
	if err != nil {
		return nil, err
	}
	return NewPoolAdapter(pool), nil
}

// NewConnector builds the Connector matching config: DuckDB for duckdb://
// strings, otherwise pgx with the configured authentication method.
func NewConnector(config *starload.ConnectionConfig) (starload.Connector, error) {
	if config.DuckDBPath != "" {
		return NewDuckDBConnector(config.DuckDBPath), nil
	}

	switch config.AuthMethod {
	case starload.AuthMethodStandard:
		return NewStandardConnector(config), nil
	case starload.AuthMethodRedshiftIAM:
		return newRedshiftIAMConnector(config, nil)
	case starload.AuthMethodRDSIAM:
		return newRDSIAMConnector(config)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, starload.ErrUnsupportedAuthMethod)
	}
}

func newRedshiftIAMConnector(config *starload.ConnectionConfig, client ClusterCredentialsAPI) (starload.Connector, error) {
	clusterID, region := config.ClusterIdentifier, config.AWSRegion
	if hostCluster, hostRegion, ok := clusterFromHost(config.Host); ok {
		if clusterID == "" {
			clusterID = hostCluster
		}
		if region == "" {
			region = hostRegion
		}
	}

	provider, err := NewRedshiftCredentialsProvider(clusterID, region, config.Username, config.Database, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redshift credentials provider: %w", err)
	}
	return NewCredentialConnector(config, provider, "Redshift IAM"), nil
}

func newRDSIAMConnector(config *starload.ConnectionConfig) (starload.Connector, error) {
	endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)
	provider, err := NewRDSTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create RDS IAM token provider: %w", err)
	}
	return NewCredentialConnector(config, provider, "RDS IAM"), nil
}

// wrapConnectionError wraps raw pgx connection errors with actionable
// guidance and ErrConnectionFailed.
func wrapConnectionError(err error, host string, port int, database string) error {
	return fmt.Errorf("%w: %w", starload.ErrConnectionFailed, describeConnectionError(err, host, port, database))
}

func describeConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`connection refused to %s

Possible causes:
  - The cluster is paused or still resuming
  - Wrong host or port (Redshift listens on 5439 by default)
  - The cluster's security group has no inbound rule for your address

Original error: %w`, addr, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`cannot resolve host "%s"

Possible causes:
  - Endpoint is misspelled (copy it from the cluster's General information)
  - The cluster was deleted or renamed
  - DNS is not reachable from this network

Original error: %w`, host, err)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`password authentication failed for database "%s"

Possible causes:
  - Wrong password (check $PGPASSWORD or DB_PASSWORD in dwh.cfg)
  - Wrong username
  - Temporary IAM credentials expired (use --auth-method redshift-iam to refresh them)

Original error: %w`, database, err)

	case strings.Contains(errStr, "does not exist"):
		return fmt.Errorf(`database "%s" does not exist on the cluster

Create it first:
  CREATE DATABASE %s;

Original error: %w`, database, database, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`connection timed out to %s

Possible causes:
  - The cluster is not publicly accessible
  - A firewall or security group silently drops packets
  - The cluster is under heavy load

Original error: %w`, addr, err)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		return fmt.Errorf(`SSL/TLS connection error

Possible causes:
  - The cluster requires SSL (set sslmode=require)
  - Certificate verification failed (try sslmode=require instead of verify-full)

Original error: %w`, err)

	case strings.Contains(errStr, "too many connections"):
		return fmt.Errorf(`too many connections to database "%s"

Possible causes:
  - The cluster's connection limit is reached
  - Stale sessions from earlier runs (check STV_SESSIONS)

Original error: %w`, database, err)

	default:
		return fmt.Errorf("failed to connect to database: %w", err)
	}
}
