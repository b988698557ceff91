package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/promptgrid/server/internal/config"
	"codeberg.org/promptgrid/server/internal/quota"
	"codeberg.org/promptgrid/server/promptgrid/billing"
	"codeberg.org/promptgrid/server/promptgrid/prompts"
	"codeberg.org/promptgrid/server/promptgrid/sessions"
	"codeberg.org/promptgrid/server/promptgrid/users"
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// keep the pool small, managed postgres poolers cap connections
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// simple protocol for PgBouncer transaction-mode compatibility,
	// prepared statements hang there on subsequent queries
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	userRepo := users.NewRepository(db)
	promptRepo := prompts.NewRepository(db)
	sessionRepo := sessions.NewRepository(db)
	billingRepo := billing.NewRepository(db)

	ledger := quota.NewLedger(userRepo, sessionRepo)
	services := InitializeServices(cfg, ledger, userRepo, billingRepo)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &Server{
		db:          db,
		config:      cfg,
		userRepo:    userRepo,
		promptRepo:  promptRepo,
		sessionRepo: sessionRepo,
		billingRepo: billingRepo,
		ledger:      ledger,
		services:    services,
		router:      gin.Default(),
	}

	RegisterRoutes(server.router, server)

	return server, nil
}
