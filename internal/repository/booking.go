package repository

import (
	"context"
	"time"

	"secondhand-market/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository interface {
	// Upsert writes the booking for (ProductID, BuyerUID), replacing the
	// details of an existing one, and returns the stored record.
	Upsert(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	Get(ctx context.Context, productID, buyerUID string) (*model.Booking, error)
	ListByBuyer(ctx context.Context, buyerUID string) ([]*model.Booking, error)
	ListByProduct(ctx context.Context, productID string) ([]*model.Booking, error)
	MarkPaidByProduct(ctx context.Context, productID string) (int64, error)
	DeleteByProducts(ctx context.Context, productIDs []string) (int64, error)
	DeleteByBuyer(ctx context.Context, buyerUID string) (int64, error)
}

type bookingRepoImpl struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepoImpl{
		db: db,
	}
}

func (r *bookingRepoImpl) Upsert(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.Details == nil {
		booking.Details = model.Details{}
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}, {Name: "buyer_uid"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"details":    booking.Details,
			"updated_at": time.Now(),
		}),
	}).Create(booking).Error
	if err != nil {
		return nil, err
	}

	// on conflict the row keeps its original id
	return r.Get(ctx, booking.ProductID, booking.BuyerUID)
}

func (r *bookingRepoImpl) Get(ctx context.Context, productID, buyerUID string) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND buyer_uid = ?", productID, buyerUID).
		First(&booking).Error
	if err != nil {
		return nil, translate(err)
	}

	return &booking, nil
}

func (r *bookingRepoImpl) ListByBuyer(ctx context.Context, buyerUID string) ([]*model.Booking, error) {
	return r.list(ctx, "buyer_uid = ?", buyerUID)
}

func (r *bookingRepoImpl) ListByProduct(ctx context.Context, productID string) ([]*model.Booking, error) {
	return r.list(ctx, "product_id = ?", productID)
}

func (r *bookingRepoImpl) list(ctx context.Context, query string, arg string) ([]*model.Booking, error) {
	bookings := []*model.Booking{}
	err := r.db.WithContext(ctx).
		Where(query, arg).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *bookingRepoImpl) MarkPaidByProduct(ctx context.Context, productID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("product_id = ?", productID).
		Updates(map[string]interface{}{
			"paid":       true,
			"updated_at": time.Now(),
		})

	return result.RowsAffected, result.Error
}

func (r *bookingRepoImpl) DeleteByProducts(ctx context.Context, productIDs []string) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Delete(&model.Booking{})

	return result.RowsAffected, result.Error
}

func (r *bookingRepoImpl) DeleteByBuyer(ctx context.Context, buyerUID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("buyer_uid = ?", buyerUID).
		Delete(&model.Booking{})

	return result.RowsAffected, result.Error
}
