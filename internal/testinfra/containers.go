package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// The container mimics a fresh Redshift cluster: database dev, master user
// awsuser. The postgres dialect of the catalog runs unchanged against it.
const (
	WarehouseImage    = "postgres:16-alpine"
	WarehouseUser     = "awsuser"
	WarehousePassword = "Passw0rd"
	WarehouseDB       = "dev"
)

// WarehouseContainer is a running stand-in warehouse and its connection string.
type WarehouseContainer struct {
	*postgres.PostgresContainer
	ConnString string
}

// StartWarehouse starts the stand-in warehouse and waits until it accepts
// connections. The caller terminates it.
func StartWarehouse(ctx context.Context) (*WarehouseContainer, error) {
	ctr, err := postgres.Run(ctx,
		WarehouseImage,
		postgres.WithUsername(WarehouseUser),
		postgres.WithPassword(WarehousePassword),
		postgres.WithDatabase(WarehouseDB),
		testcontainers.WithEnv(map[string]string{"TZ": "UTC", "PGTZ": "UTC"}),
		testcontainers.WithWaitStrategy(
			// The entrypoint restarts the server once after initdb.
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(90*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start warehouse container: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable", "application_name=starload-test")
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("warehouse connection string: %w", err)
	}

	return &WarehouseContainer{PostgresContainer: ctr, ConnString: connStr}, nil
}
