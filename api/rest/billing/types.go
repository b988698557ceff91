package billing

// CheckoutRequest names the paid tier to upgrade to
type CheckoutRequest struct {
	Tier string `json:"tier" binding:"required,oneof=premium pro"`
}

// RedirectResponse carries a Stripe-hosted page URL
type RedirectResponse struct {
	URL string `json:"url"`
}

// SubscriptionResponse reports the caller's subscription, if any
type SubscriptionResponse struct {
	Tier   string `json:"tier"`
	Status string `json:"status,omitempty"`
}
