package repository

import (
	"context"
	"time"

	"secondhand-market/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WishlistRepository interface {
	// Upsert writes the entry for (ProductID, SellerUID, BuyerUID), replacing
	// the details of an existing one, and returns the stored record.
	Upsert(ctx context.Context, entry *model.WishlistEntry) (*model.WishlistEntry, error)
	Get(ctx context.Context, productID, sellerUID, buyerUID string) (*model.WishlistEntry, error)
	ListByBuyer(ctx context.Context, buyerUID string) ([]*model.WishlistEntry, error)
	ListByProduct(ctx context.Context, productID string) ([]*model.WishlistEntry, error)
	MarkPaidByProduct(ctx context.Context, productID string) (int64, error)
	DeleteForBuyer(ctx context.Context, productID, buyerUID string) (int64, error)
	DeleteByProducts(ctx context.Context, productIDs []string) (int64, error)
	DeleteByBuyer(ctx context.Context, buyerUID string) (int64, error)
	DeleteBySeller(ctx context.Context, sellerUID string) (int64, error)
}

type wishlistRepoImpl struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepoImpl{
		db: db,
	}
}

func (r *wishlistRepoImpl) Upsert(ctx context.Context, entry *model.WishlistEntry) (*model.WishlistEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Details == nil {
		entry.Details = model.Details{}
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}, {Name: "seller_uid"}, {Name: "buyer_uid"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"details":    entry.Details,
			"updated_at": time.Now(),
		}),
	}).Create(entry).Error
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, entry.ProductID, entry.SellerUID, entry.BuyerUID)
}

func (r *wishlistRepoImpl) Get(ctx context.Context, productID, sellerUID, buyerUID string) (*model.WishlistEntry, error) {
	var entry model.WishlistEntry
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND seller_uid = ? AND buyer_uid = ?", productID, sellerUID, buyerUID).
		First(&entry).Error
	if err != nil {
		return nil, translate(err)
	}

	return &entry, nil
}

func (r *wishlistRepoImpl) ListByBuyer(ctx context.Context, buyerUID string) ([]*model.WishlistEntry, error) {
	return r.list(ctx, "buyer_uid = ?", buyerUID)
}

func (r *wishlistRepoImpl) ListByProduct(ctx context.Context, productID string) ([]*model.WishlistEntry, error) {
	return r.list(ctx, "product_id = ?", productID)
}

func (r *wishlistRepoImpl) list(ctx context.Context, query string, arg string) ([]*model.WishlistEntry, error) {
	entries := []*model.WishlistEntry{}
	err := r.db.WithContext(ctx).
		Where(query, arg).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *wishlistRepoImpl) MarkPaidByProduct(ctx context.Context, productID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.WishlistEntry{}).
		Where("product_id = ?", productID).
		Updates(map[string]interface{}{
			"paid":       true,
			"updated_at": time.Now(),
		})

	return result.RowsAffected, result.Error
}

func (r *wishlistRepoImpl) DeleteForBuyer(ctx context.Context, productID, buyerUID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("product_id = ? AND buyer_uid = ?", productID, buyerUID).
		Delete(&model.WishlistEntry{})

	return result.RowsAffected, result.Error
}

func (r *wishlistRepoImpl) DeleteByProducts(ctx context.Context, productIDs []string) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Delete(&model.WishlistEntry{})

	return result.RowsAffected, result.Error
}

func (r *wishlistRepoImpl) DeleteByBuyer(ctx context.Context, buyerUID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("buyer_uid = ?", buyerUID).
		Delete(&model.WishlistEntry{})

	return result.RowsAffected, result.Error
}

func (r *wishlistRepoImpl) DeleteBySeller(ctx context.Context, sellerUID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("seller_uid = ?", sellerUID).
		Delete(&model.WishlistEntry{})

	return result.RowsAffected, result.Error
}
