package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"codeberg.org/promptgrid/server/api/rest/admin"
	"codeberg.org/promptgrid/server/api/rest/auth"
	"codeberg.org/promptgrid/server/api/rest/billing"
	"codeberg.org/promptgrid/server/api/rest/credits"
	"codeberg.org/promptgrid/server/api/rest/generate"
	"codeberg.org/promptgrid/server/api/rest/health"
	"codeberg.org/promptgrid/server/api/rest/prompts"
	"codeberg.org/promptgrid/server/api/rest/users"
	"codeberg.org/promptgrid/server/internal/monitoring"
	"codeberg.org/promptgrid/server/internal/ratelimit"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{server.config.BaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Session-Token"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(monitoring.RequestMetrics())

	router.GET("/health", health.Handler)
	router.GET("/metrics", monitoring.Handler())

	v1 := router.Group("/api/v1")
	v1.Use(ratelimit.Middleware("300-M"))

	{
		v1.GET("/ping", health.PingHandler)
		auth.RegisterRoutes(v1, server.userRepo, server.config)
		credits.RegisterRoutes(v1, server.ledger)
		prompts.RegisterRoutes(v1, server.promptRepo)
		users.RegisterRoutes(v1, server.userRepo, server.promptRepo)
		admin.RegisterRoutes(v1, server.userRepo, server.promptRepo, server.sessionRepo, server.billingRepo)

		// generation is the expensive path, give it a tighter window
		generateGroup := v1.Group("")
		generateGroup.Use(ratelimit.Middleware("30-M"))
		generate.RegisterRoutes(generateGroup, server.ledger, server.services.Dispatcher, server.promptRepo, server.sessionRepo)

		if server.services.Billing != nil {
			billing.RegisterRoutes(v1, server.services.Billing, server.billingRepo, server.userRepo)
		}
	}
}
