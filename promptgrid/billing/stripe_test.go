package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateCheckoutSessionRequiresConfiguredPrice(t *testing.T) {
	s := &Service{prices: map[string]string{"premium": ""}}

	_, err := s.CreateCheckoutSession("user-1", "user@example.com", "premium")
	assert.Error(t, err)

	_, err = s.CreateCheckoutSession("user-1", "user@example.com", "enterprise")
	assert.Error(t, err)
}

func TestIsLapsed(t *testing.T) {
	assert.True(t, isLapsed("canceled"))
	assert.True(t, isLapsed("past_due"))
	assert.True(t, isLapsed("unpaid"))
	assert.False(t, isLapsed("active"))
	assert.False(t, isLapsed("trialing"))
}
