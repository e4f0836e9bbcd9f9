package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/001_init_schema.sql
var migrationSQL string

// RunMigrations initializes the self-hosted store schema on startup.
// Safe to call every boot; it no-ops once the schema exists.
func RunMigrations(db *pgxpool.Pool) error {
	ctx := context.Background()

	var exists bool
	err := db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'users'
		)
	`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check if migrations needed: %w", err)
	}

	if exists {
		log.Info().Msg("database already migrated, skipping")
		return nil
	}

	log.Info().Msg("database is empty, running migrations")
	if _, err := db.Exec(ctx, migrationSQL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Msg("database migrations completed")
	return nil
}
