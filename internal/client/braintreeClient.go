package client

import (
	"context"
	"errors"

	"secondhand-market/internal/config"

	"github.com/braintree-go/braintree-go"
	"github.com/shopspring/decimal"
)

type braintreeClientImpl struct {
	gateway *braintree.Braintree
}

// NewBraintreeClient initializes the Braintree SDK gateway
func NewBraintreeClient(cfg *config.Braintree) PaymentClient {
	env := braintree.Sandbox
	if cfg.Environment == "production" {
		env = braintree.Production
	}

	gateway := braintree.New(
		env,
		cfg.MerchantID,
		cfg.PublicKey,
		cfg.PrivateKey,
	)

	return &braintreeClientImpl{
		gateway: gateway,
	}
}

// CreateIntent generates a client token for the Drop-in UI. Braintree settles
// the amount when the browser submits the nonce, so the amount is only
// validated here.
func (c *braintreeClientImpl) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string) (*PaymentIntent, error) {
	if !amount.IsPositive() {
		return nil, providerError("braintree client token", errors.New("amount must be positive"))
	}

	token, err := c.gateway.ClientToken().Generate(ctx)
	if err != nil {
		return nil, providerError("braintree client token", err)
	}

	return &PaymentIntent{ClientSecret: token}, nil
}
