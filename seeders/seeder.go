package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedAdmin bootstraps the first administrator account so a fresh install can
// be logged into.
func SeedAdmin(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("seeding admin account...")

	if err := seedAdminUser(ctx, db); err != nil {
		log.Fatalf("admin seeding failed: %v", err)
	}

	log.Println("admin seeding done")
}
