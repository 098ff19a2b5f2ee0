package payment

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"

	"scanpay/pkg/config"
)

// Provider opens payment orders with the external payment provider. The
// interface exists so handlers can be exercised with a stub.
type Provider interface {
	// CreateOrder opens a provider order for the amount in integer minor
	// units and returns the provider order identifier
	CreateOrder(amountMinorUnits int, currency, receipt string) (string, error)
	// KeyID returns the public key the client needs to launch the
	// provider's hosted checkout
	KeyID() string
}

// RazorpayProvider implements Provider against the Razorpay Orders API
type RazorpayProvider struct {
	client *razorpay.Client
	keyID  string
}

// NewRazorpayProvider creates a provider client from configuration
func NewRazorpayProvider(cfg *config.PaymentConfig) *RazorpayProvider {
	return &RazorpayProvider{
		client: razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		keyID:  cfg.KeyID,
	}
}

// CreateOrder opens a Razorpay order
func (p *RazorpayProvider) CreateOrder(amountMinorUnits int, currency, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":   amountMinorUnits,
		"currency": currency,
		"receipt":  receipt,
	}

	body, err := p.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("payment: create provider order: %w", err)
	}

	id, ok := body["id"].(string)
	if !ok {
		return "", fmt.Errorf("payment: provider order response missing id")
	}
	return id, nil
}

// KeyID returns the provider public key
func (p *RazorpayProvider) KeyID() string {
	return p.keyID
}
