package main

import (
	"context"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"codeberg.org/promptgrid/server/internal/logger"
	"codeberg.org/promptgrid/server/migrations"
)

// applies the database schema. every statement is idempotent, so
// running it against an existing database is safe.
func main() {
	godotenv.Load() //nolint:errcheck // .env is optional

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Fatal("failed to create database pool", "error", err)
	}
	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", "error", err)
	}

	logger.Info("applying schema")

	if _, err := db.Exec(ctx, migrations.Schema); err != nil {
		logger.Fatal("failed to apply schema", "error", err)
	}

	logger.Info("schema applied")
}
