package main

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/promptgrid/server/internal/config"
	"codeberg.org/promptgrid/server/internal/generator"
	"codeberg.org/promptgrid/server/internal/quota"
	"codeberg.org/promptgrid/server/promptgrid/billing"
	"codeberg.org/promptgrid/server/promptgrid/prompts"
	"codeberg.org/promptgrid/server/promptgrid/sessions"
	"codeberg.org/promptgrid/server/promptgrid/users"
)

// holds all dependencies and state for the API server
type Server struct {
	db          *pgxpool.Pool
	config      *config.Config
	userRepo    *users.Repository
	promptRepo  *prompts.Repository
	sessionRepo *sessions.Repository
	billingRepo *billing.Repository
	ledger      *quota.Ledger
	services    *Services
	router      *gin.Engine
}

// holds the external service clients
type Services struct {
	Dispatcher *generator.Dispatcher
	Billing    *billing.Service
}
