package service

import (
	"context"
	"errors"
	"fmt"

	"secondhand-market/internal/model"
	"secondhand-market/internal/repository"
)

type WishlistService interface {
	Add(ctx context.Context, productID, sellerUID, buyerUID string, details model.Details) (*model.WishlistEntry, error)
	Remove(ctx context.Context, productID, buyerUID string) (int64, error)
	List(ctx context.Context, buyerUID string) ([]*model.WishlistItemWithProduct, error)
}

type wishlistServiceImpl struct {
	store repository.Store
}

func NewWishlistService(store repository.Store) WishlistService {
	return &wishlistServiceImpl{
		store: store,
	}
}

// Add upserts the entry keyed by (product, seller, buyer). When the caller
// does not name the seller it is read from the product.
func (s *wishlistServiceImpl) Add(ctx context.Context, productID, sellerUID, buyerUID string, details model.Details) (*model.WishlistEntry, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product_id is required", ErrInvalidInput)
	}

	if sellerUID == "" {
		product, err := s.store.Products().Get(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("get product: %w", err)
		}
		sellerUID = product.SellerUID
	}

	entry, err := s.store.Wishlist().Upsert(ctx, &model.WishlistEntry{
		ProductID: productID,
		SellerUID: sellerUID,
		BuyerUID:  buyerUID,
		Details:   details,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert wishlist entry: %w", err)
	}

	return entry, nil
}

func (s *wishlistServiceImpl) Remove(ctx context.Context, productID, buyerUID string) (int64, error) {
	if productID == "" {
		return 0, fmt.Errorf("%w: product_id is required", ErrInvalidInput)
	}
	return s.store.Wishlist().DeleteForBuyer(ctx, productID, buyerUID)
}

// List returns the buyer's entries joined with their products. Entries whose
// product has disappeared keep a nil product.
func (s *wishlistServiceImpl) List(ctx context.Context, buyerUID string) ([]*model.WishlistItemWithProduct, error) {
	entries, err := s.store.Wishlist().ListByBuyer(ctx, buyerUID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}

	items := make([]*model.WishlistItemWithProduct, 0, len(entries))
	for _, entry := range entries {
		product, err := s.store.Products().Get(ctx, entry.ProductID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("get wishlist product: %w", err)
		}
		items = append(items, &model.WishlistItemWithProduct{
			WishlistEntry: *entry,
			Product:       product,
		})
	}

	return items, nil
}
