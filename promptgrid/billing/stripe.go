package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v81"
	portalsession "github.com/stripe/stripe-go/v81/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"

	"codeberg.org/promptgrid/server/internal/config"
	"codeberg.org/promptgrid/server/internal/logger"
	"codeberg.org/promptgrid/server/promptgrid/users"
)

// wraps Stripe checkout, portal and webhook handling
type Service struct {
	repo          *Repository
	users         *users.Repository
	webhookSecret string
	baseURL       string
	prices        map[string]string
}

// creates the Stripe billing service and sets the global API key
func NewService(repo *Repository, userRepo *users.Repository, cfg *config.Config) *Service {
	stripe.Key = cfg.StripeSecretKey

	return &Service{
		repo:          repo,
		users:         userRepo,
		webhookSecret: cfg.StripeWebhookSecret,
		baseURL:       cfg.BaseURL,
		prices: map[string]string{
			"premium": cfg.StripePremiumPrice,
			"pro":     cfg.StripeProPrice,
		},
	}
}

// creates a Stripe checkout session for upgrading to a paid tier
func (s *Service) CreateCheckoutSession(userID, email, tier string) (string, error) {
	priceID, ok := s.prices[tier]
	if !ok || priceID == "" {
		return "", fmt.Errorf("no price configured for tier %q", tier)
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(email),
		SuccessURL:    stripe.String(s.baseURL + "/billing/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(s.baseURL + "/billing/cancel"),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"userId": userID,
				"tier":   tier,
			},
		},
	}
	params.AddMetadata("userId", userID)
	params.AddMetadata("tier", tier)

	session, err := checkoutsession.New(params)
	if err != nil {
		return "", err
	}

	return session.URL, nil
}

// creates a customer portal session so a subscriber can manage billing
func (s *Service) CreatePortalSession(ctx context.Context, userID string) (string, error) {
	sub, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	session, err := portalsession.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(sub.StripeCustomerID),
		ReturnURL: stripe.String(s.baseURL + "/account"),
	})
	if err != nil {
		return "", err
	}

	return session.URL, nil
}

// verifies the webhook signature and applies the event
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return fmt.Errorf("webhook signature verification failed: %w", err)
	}

	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutCompleted(ctx, event)
	case "customer.subscription.updated":
		return s.handleSubscriptionUpdated(ctx, event)
	case "customer.subscription.deleted":
		return s.handleSubscriptionDeleted(ctx, event)
	case "invoice.payment_succeeded":
		return s.handlePaymentSucceeded(ctx, event)
	case "invoice.payment_failed":
		return s.handlePaymentFailed(event)
	default:
		logger.Debug("ignoring stripe event", "type", event.Type)
		return nil
	}
}

func (s *Service) handleCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return err
	}

	userID := session.Metadata["userId"]
	tier := session.Metadata["tier"]
	if userID == "" || tier == "" {
		return fmt.Errorf("checkout session %s missing userId or tier metadata", session.ID)
	}

	var subscriptionID, customerID string
	if session.Subscription != nil {
		subscriptionID = session.Subscription.ID
	}
	if session.Customer != nil {
		customerID = session.Customer.ID
	}

	if _, err := s.repo.Upsert(ctx, userID, subscriptionID, customerID, tier, "active"); err != nil {
		return err
	}

	if _, err := s.users.UpdateTier(ctx, userID, tier); err != nil {
		return err
	}

	logger.Info("subscription activated", "user_id", userID, "tier", tier)
	return nil
}

func (s *Service) handleSubscriptionUpdated(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return err
	}

	status := string(sub.Status)
	if err := s.repo.UpdateStatus(ctx, sub.ID, status); err != nil {
		return err
	}

	if isLapsed(status) {
		logger.Info("subscription lapsed, downgrading user", "subscription_id", sub.ID, "status", status)
		return s.repo.DowngradeUser(ctx, sub.ID)
	}

	return nil
}

func (s *Service) handleSubscriptionDeleted(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, sub.ID, "canceled"); err != nil {
		return err
	}

	logger.Info("subscription deleted, downgrading user", "subscription_id", sub.ID)
	return s.repo.DowngradeUser(ctx, sub.ID)
}

func (s *Service) handlePaymentSucceeded(ctx context.Context, event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return err
	}

	if invoice.Subscription == nil {
		return nil
	}

	return s.repo.ResetCreditsBySubscription(ctx, invoice.Subscription.ID, time.Now().UTC())
}

func (s *Service) handlePaymentFailed(event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return err
	}

	logger.Warn("invoice payment failed", "invoice_id", invoice.ID)
	return nil
}

func isLapsed(status string) bool {
	switch status {
	case "canceled", "past_due", "unpaid":
		return true
	}
	return false
}
