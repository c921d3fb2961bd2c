package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/starload/internal/retry"
	"github.com/vvka-141/starload/pkg/starload"
)

// expiryWarning is the remaining lifetime below which a warning is printed.
const expiryWarning = 5 * time.Minute

// CredentialConnector connects with short-lived credentials from a
// CredentialProvider. Fresh credentials are requested on every attempt.
type CredentialConnector struct {
	config        *starload.ConnectionConfig
	provider      CredentialProvider
	retryExecutor *retry.Executor
	providerName  string
}

// NewCredentialConnector uses providerName in error and warning messages.
func NewCredentialConnector(config *starload.ConnectionConfig, provider CredentialProvider, providerName string) *CredentialConnector {
	return &CredentialConnector{
		config:        config,
		provider:      provider,
		retryExecutor: newConnectExecutor(),
		providerName:  providerName,
	}
}

// Connect requests credentials and connects with them, retrying transient
// failures with fresh credentials.
func (c *CredentialConnector) Connect(ctx context.Context) (starload.DBConnection, error) {
	var pool *pgxpool.Pool

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		creds, err := c.provider.GetCredentials(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire %s credentials: %w", c.providerName, err)
		}

		if !creds.Expires.IsZero() && time.Until(creds.Expires) < expiryWarning {
			fmt.Fprintf(os.Stderr, "Warning: %s credentials expire in %v\n", c.providerName, time.Until(creds.Expires).Round(time.Second))
		}

		withCreds := *c.config
		withCreds.Password = creds.Password
		if creds.Username != "" {
			withCreds.Username = creds.Username
		}

		pool, err = openPool(ctx, &withCreds)
		return err
	})
	if err != nil {
		return nil, err
	}

	return NewPoolAdapter(pool), nil
}
