package service

import (
	"context"
	"fmt"
	"log/slog"

	"secondhand-market/internal/model"
	"secondhand-market/internal/repository"
)

type BookingService interface {
	Book(ctx context.Context, productID, buyerUID string, details model.Details) (*model.Booking, error)
	ListBookings(ctx context.Context, buyerUID string) ([]*model.Booking, error)
}

type bookingServiceImpl struct {
	store repository.Store
	log   *slog.Logger
}

func NewBookingService(
	store repository.Store,
	log *slog.Logger,
) BookingService {
	return &bookingServiceImpl{
		store: store,
		log:   log,
	}
}

// Book marks the product booked and records the buyer's booking. A product
// can be booked by several buyers; each (product, buyer) pair keeps a single
// booking whose details are replaced on re-booking.
func (s *bookingServiceImpl) Book(ctx context.Context, productID, buyerUID string, details model.Details) (*model.Booking, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product_id is required", ErrInvalidInput)
	}

	var booking *model.Booking
	err := s.store.Transaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Products().Get(ctx, productID); err != nil {
			return fmt.Errorf("get product: %w", err)
		}

		if err := tx.Products().MarkBooked(ctx, productID); err != nil {
			return fmt.Errorf("mark product booked: %w", err)
		}

		var err error
		booking, err = tx.Bookings().Upsert(ctx, &model.Booking{
			ProductID: productID,
			BuyerUID:  buyerUID,
			Details:   details,
		})
		if err != nil {
			return fmt.Errorf("upsert booking: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "product booked", "product_id", productID, "buyer_uid", buyerUID)
	return booking, nil
}

func (s *bookingServiceImpl) ListBookings(ctx context.Context, buyerUID string) ([]*model.Booking, error) {
	return s.store.Bookings().ListByBuyer(ctx, buyerUID)
}
