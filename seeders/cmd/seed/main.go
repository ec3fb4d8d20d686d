package main

import (
	"context"
	"log"

	"rma-system/pkg/config"
	"rma-system/pkg/database/postgresql"
	"rma-system/seeders"
)

func main() {
	cfg := config.New()

	dbPool, err := postgresql.ConnectDB(context.Background(), cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer dbPool.Close()

	if err := postgresql.Migrate(cfg.Postgres.DSN); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	seeders.SeedAdmin(dbPool)
}
