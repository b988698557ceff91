package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/promptgrid/server/internal/auth"
	"codeberg.org/promptgrid/server/internal/config"
	"codeberg.org/promptgrid/server/internal/logger"
)

// @title PromptGrid API
// @version 1.0
// @description Prompt exploration service that turns one idea into a 2x2 grid of video prompt variations
// @description
// @description Features:
// @description - Grid generation along two chosen variation axes
// @description - Daily credit accounting for anonymous and authenticated users
// @description - Google OAuth authentication
// @description - Saved prompt library
// @description - Stripe subscription billing

// @contact.name API Support
// @contact.url https://codeberg.org/promptgrid/server

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authenticated requests. Format: Bearer {token}

func main() {
	logger.Info("starting promptgrid server")

	// load configuration from environment
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	// initialize OAuth providers
	if err := auth.InitializeProviders(); err != nil {
		logger.Fatal("failed to initialize OAuth providers", "error", err)
	}

	// create server with all dependencies
	srv, err := NewServer(cfg)
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	// get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      srv.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// start server in goroutine
	go func() {
		logger.Info("server listening", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	// periodically prune long-expired anonymous sessions
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	go runSessionCleanup(cleanupCtx, srv)

	// wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cleanupCancel()

	logger.Info("shutting down server")

	// graceful shutdown with 10 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// close database connection
	srv.db.Close()

	logger.Info("server stopped")
}

const sessionCleanupInterval = 1 * time.Hour

// deletes anonymous sessions that expired over a week ago
func runSessionCleanup(ctx context.Context, srv *Server) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := srv.sessionRepo.DeleteExpired(ctx)
			if err != nil {
				logger.ErrorErr(err, "session cleanup failed")
				continue
			}
			if deleted > 0 {
				logger.Info("pruned expired anonymous sessions", "count", deleted)
			}
		}
	}
}
