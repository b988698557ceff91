package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have a .env file
	}

	databaseURL := os.Getenv("DATABASE_URL")
	openaiKey := os.Getenv("OPENAI_API_KEY")
	jwtSecret := os.Getenv("JWT_SECRET")
	sessionSecret := os.Getenv("SESSION_SECRET")
	environment := os.Getenv("ENVIRONMENT")
	baseURL := os.Getenv("BASE_URL")

	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if openaiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is required")
	}

	if environment == "" {
		environment = "development"
	}

	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &Config{
		DatabaseURL:         databaseURL,
		OpenAIKey:           openaiKey,
		JWTSecret:           jwtSecret,
		SessionSecret:       sessionSecret,
		Environment:         environment,
		BaseURL:             baseURL,
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripePremiumPrice:  os.Getenv("STRIPE_PREMIUM_PRICE_ID"),
		StripeProPrice:      os.Getenv("STRIPE_PRO_PRICE_ID"),
		AdminEmails:         parseAdminEmails(os.Getenv("ADMIN_EMAILS")),
	}, nil
}

// splits the comma-separated admin email list, trimming whitespace
func parseAdminEmails(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	emails := make([]string, 0, len(parts))

	for _, part := range parts {
		email := strings.TrimSpace(part)
		if email != "" {
			emails = append(emails, email)
		}
	}

	return emails
}
