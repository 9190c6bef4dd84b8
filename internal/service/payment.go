package service

import (
	"context"
	"fmt"
	"log/slog"

	"secondhand-market/internal/client"
	"secondhand-market/internal/model"
	"secondhand-market/internal/repository"

	"github.com/shopspring/decimal"
)

type PaymentService interface {
	CreateIntent(ctx context.Context, price decimal.Decimal) (*client.PaymentIntent, error)
	Pay(ctx context.Context, productID string, payload model.Details) (*model.Payment, error)
}

type paymentServiceImpl struct {
	store         repository.Store
	paymentClient client.PaymentClient
	currency      string
	log           *slog.Logger
}

func NewPaymentService(
	store repository.Store,
	paymentClient client.PaymentClient,
	currency string,
	log *slog.Logger,
) PaymentService {
	return &paymentServiceImpl{
		store:         store,
		paymentClient: paymentClient,
		currency:      currency,
		log:           log,
	}
}

func (s *paymentServiceImpl) CreateIntent(ctx context.Context, price decimal.Decimal) (*client.PaymentIntent, error) {
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}

	intent, err := s.paymentClient.CreateIntent(ctx, price, s.currency)
	if err != nil {
		s.log.ErrorContext(ctx, "create payment intent", "price", price.String(), "error", err)
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return intent, nil
}

// Pay records a completed payment: the product, its bookings and its
// wishlist entries all become paid, and the provider payload is appended to
// the payment log.
func (s *paymentServiceImpl) Pay(ctx context.Context, productID string, payload model.Details) (*model.Payment, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product_id is required", ErrInvalidInput)
	}

	payment := &model.Payment{
		ProductID: productID,
		Payload:   payload,
	}

	var bookings, wishlist int64
	err := s.store.Transaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Products().Get(ctx, productID); err != nil {
			return fmt.Errorf("get product: %w", err)
		}

		if err := tx.Products().MarkPaid(ctx, productID); err != nil {
			return fmt.Errorf("mark product paid: %w", err)
		}

		var err error
		if bookings, err = tx.Bookings().MarkPaidByProduct(ctx, productID); err != nil {
			return fmt.Errorf("mark bookings paid: %w", err)
		}
		if wishlist, err = tx.Wishlist().MarkPaidByProduct(ctx, productID); err != nil {
			return fmt.Errorf("mark wishlist entries paid: %w", err)
		}

		if err := tx.Payments().Create(ctx, payment); err != nil {
			return fmt.Errorf("append payment: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "payment recorded",
		"product_id", productID, "payment_id", payment.ID,
		"bookings", bookings, "wishlist", wishlist)
	return payment, nil
}
