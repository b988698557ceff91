package config

// Config holds all runtime configuration loaded from the environment
type Config struct {
	DatabaseURL   string
	OpenAIKey     string
	JWTSecret     string
	SessionSecret string
	Environment   string
	BaseURL       string

	// Stripe is optional; billing endpoints are disabled when unset
	StripeSecretKey     string
	StripeWebhookSecret string
	StripePremiumPrice  string
	StripeProPrice      string

	// comma-separated list of emails granted admin access
	AdminEmails []string
}

// reports whether Stripe billing is configured
func (c *Config) BillingEnabled() bool {
	return c.StripeSecretKey != ""
}

// reports whether the given email has admin access
func (c *Config) IsAdminEmail(email string) bool {
	for _, admin := range c.AdminEmails {
		if admin == email {
			return true
		}
	}

	return false
}
