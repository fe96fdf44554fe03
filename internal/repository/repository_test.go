package repository_test

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const migration = "../migrations/01_cart_items.up.sql"

// startPostgres runs a throwaway storefront database with the cart_items
// schema applied and returns its DSN.
func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	pc, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("storefront"),
		postgres.WithPassword("storefront"),
		postgres.WithInitScripts(migration),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	dsn, err := pc.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return pc, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return pc, dsn, nil
}
