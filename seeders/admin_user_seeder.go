package seeders

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"rma-system/pkg/constants"
)

func seedAdminUser(ctx context.Context, db *pgxpool.Pool) error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme123"
		log.Println("  ADMIN_PASSWORD not set, using the default; change it after first login")
	}

	var existingID uint64
	err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&existingID)
	if err == nil {
		log.Printf("  admin %s already exists, skipping", email)
		return nil
	}
	if err != pgx.ErrNoRows {
		return fmt.Errorf("check existing admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID uint64
	err = tx.QueryRow(ctx,
		"INSERT INTO users (email, password) VALUES ($1, $2) RETURNING id",
		email, string(hash),
	).Scan(&userID)
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO user_profiles (user_id, full_name, role, is_active) VALUES ($1, $2, $3, TRUE)",
		userID, "Administrator", constants.RoleAdmin,
	)
	if err != nil {
		return fmt.Errorf("insert admin profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	log.Printf("  admin %s created (id=%d)", email, userID)
	return nil
}
