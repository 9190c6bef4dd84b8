package client

import (
	"context"
	"errors"
	"fmt"

	"secondhand-market/internal/config"

	"github.com/shopspring/decimal"
)

var ErrProvider = errors.New("payment provider failure")

// PaymentIntent is what the browser needs to finish a hosted checkout.
type PaymentIntent struct {
	ClientSecret string `json:"clientSecret"`
}

// PaymentClient wraps the hosted payment provider's "create intent" call.
type PaymentClient interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, currency string) (*PaymentIntent, error)
}

func NewPaymentClient(cfg *config.Config) (PaymentClient, error) {
	switch cfg.Payment.Provider {
	case "braintree":
		return NewBraintreeClient(&cfg.BrainTree), nil
	case "paypal":
		return NewPaypalClient(&cfg.Paypal), nil
	default:
		return nil, fmt.Errorf("unsupported payment provider %q", cfg.Payment.Provider)
	}
}

func providerError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrProvider, op, err)
}
