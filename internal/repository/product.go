package repository

import (
	"context"

	"secondhand-market/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Get(ctx context.Context, productID string) (*model.Product, error)
	List(ctx context.Context, filter model.ProductFilter) ([]*model.Product, error)
	IDsBySeller(ctx context.Context, sellerUID string) ([]string, error)

	MarkBooked(ctx context.Context, productID string) error
	MarkPaid(ctx context.Context, productID string) error
	SetAdvertised(ctx context.Context, productID string, advertised bool) error
	SetVerifiedBySeller(ctx context.Context, sellerUID string, verified bool) (int64, error)

	Delete(ctx context.Context, productID string) error
	DeleteBySeller(ctx context.Context, sellerUID string) (int64, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) Get(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error
	if err != nil {
		return nil, translate(err)
	}

	return &product, nil
}

func (r *productRepoImpl) List(ctx context.Context, filter model.ProductFilter) ([]*model.Product, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.ProductID != "" {
		q = q.Where("id = ?", filter.ProductID)
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.SellerUID != "" {
		q = q.Where("seller_uid = ?", filter.SellerUID)
	}
	if filter.Advertised != nil {
		q = q.Where("advertised = ?", *filter.Advertised)
	}
	if filter.ExcludesPaid() {
		q = q.Where("paid = ?", false)
	}

	products := []*model.Product{}
	if err := q.Order("posted_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) IDsBySeller(ctx context.Context, sellerUID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("seller_uid = ?", sellerUID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *productRepoImpl) MarkBooked(ctx context.Context, productID string) error {
	return r.setFlag(ctx, productID, "booked", true)
}

func (r *productRepoImpl) MarkPaid(ctx context.Context, productID string) error {
	return r.setFlag(ctx, productID, "paid", true)
}

func (r *productRepoImpl) SetAdvertised(ctx context.Context, productID string, advertised bool) error {
	return r.setFlag(ctx, productID, "advertised", advertised)
}

func (r *productRepoImpl) setFlag(ctx context.Context, productID, column string, value bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", productID).
		Update(column, value).Error
}

func (r *productRepoImpl) SetVerifiedBySeller(ctx context.Context, sellerUID string, verified bool) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("seller_uid = ?", sellerUID).
		Update("verified", verified)

	return result.RowsAffected, result.Error
}

func (r *productRepoImpl) Delete(ctx context.Context, productID string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", productID).
		Delete(&model.Product{}).Error
}

func (r *productRepoImpl) DeleteBySeller(ctx context.Context, sellerUID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("seller_uid = ?", sellerUID).
		Delete(&model.Product{})

	return result.RowsAffected, result.Error
}
