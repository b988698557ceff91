package main

import (
	"codeberg.org/promptgrid/server/internal/config"
	"codeberg.org/promptgrid/server/internal/generator"
	"codeberg.org/promptgrid/server/internal/llm"
	"codeberg.org/promptgrid/server/internal/logger"
	"codeberg.org/promptgrid/server/internal/quota"
	"codeberg.org/promptgrid/server/promptgrid/billing"
	"codeberg.org/promptgrid/server/promptgrid/users"
)

// creates and configures all service clients
func InitializeServices(
	cfg *config.Config,
	ledger *quota.Ledger,
	userRepo *users.Repository,
	billingRepo *billing.Repository,
) *Services {
	generatorClient := llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey: cfg.OpenAIKey,
	})

	services := &Services{
		Dispatcher: generator.New(ledger, generatorClient),
	}

	if cfg.BillingEnabled() {
		services.Billing = billing.NewService(billingRepo, userRepo, cfg)
	} else {
		logger.Warn("stripe keys not configured, billing routes disabled")
	}

	return services
}
