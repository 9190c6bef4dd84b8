package repository

import (
	"context"

	"secondhand-market/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	ListByProduct(ctx context.Context, productID string) ([]*model.Payment, error)
}

type paymentRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepositoryImpl{
		db: db,
	}
}

func (r *paymentRepositoryImpl) Create(ctx context.Context, payment *model.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.Payload == nil {
		payment.Payload = model.Details{}
	}
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepositoryImpl) ListByProduct(ctx context.Context, productID string) ([]*model.Payment, error) {
	payments := []*model.Payment{}
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	return payments, nil
}
