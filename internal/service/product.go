package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"secondhand-market/internal/dto"
	"secondhand-market/internal/model"
	"secondhand-market/internal/repository"

	"github.com/google/uuid"
)

type ProductService interface {
	CreateProduct(ctx context.Context, sellerUID string, req *dto.CreateProductRequest) (*model.Product, error)
	ListProducts(ctx context.Context, filter model.ProductFilter) ([]*model.Product, error)
	SellerProducts(ctx context.Context, sellerUID string) ([]*model.Product, error)
	Advertise(ctx context.Context, productID, requesterUID string, advertised bool) error
	DeleteProduct(ctx context.Context, productID, requesterUID string) error
	ListCategories(ctx context.Context, categoryID string) ([]*model.Category, error)
}

type productServiceImpl struct {
	store repository.Store
	log   *slog.Logger
}

func NewProductService(
	store repository.Store,
	log *slog.Logger,
) ProductService {
	return &productServiceImpl{
		store: store,
		log:   log,
	}
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, sellerUID string, req *dto.CreateProductRequest) (*model.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !req.Price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}
	if req.OriginalPrice.IsNegative() {
		return nil, fmt.Errorf("%w: original price must not be negative", ErrInvalidInput)
	}

	if _, err := s.store.Categories().Get(ctx, req.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, req.CategoryID)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	seller, err := s.store.Users().Get(ctx, sellerUID)
	if err != nil {
		return nil, fmt.Errorf("get seller: %w", err)
	}

	product := &model.Product{
		ID:            uuid.NewString(),
		SellerUID:     seller.UID,
		SellerName:    seller.Name,
		CategoryID:    req.CategoryID,
		Name:          name,
		Description:   req.Description,
		Condition:     req.Condition,
		Location:      req.Location,
		Phone:         req.Phone,
		Image:         req.Image,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		YearsOfUse:    req.YearsOfUse,
		PostedAt:      time.Now().UTC(),
		Verified:      seller.Verified,
	}
	if err := s.store.Products().Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

// ListProducts leaves paid products out unless one is asked for by id.
func (s *productServiceImpl) ListProducts(ctx context.Context, filter model.ProductFilter) ([]*model.Product, error) {
	filter.SellerUID = ""
	filter.IncludePaid = false
	return s.store.Products().List(ctx, filter)
}

// SellerProducts lists everything the seller posted, sold items included.
func (s *productServiceImpl) SellerProducts(ctx context.Context, sellerUID string) ([]*model.Product, error) {
	return s.store.Products().List(ctx, model.ProductFilter{}.WithSeller(sellerUID).WithPaid())
}

func (s *productServiceImpl) Advertise(ctx context.Context, productID, requesterUID string, advertised bool) error {
	if _, err := s.ownedProduct(ctx, s.store, productID, requesterUID); err != nil {
		return err
	}

	if err := s.store.Products().SetAdvertised(ctx, productID, advertised); err != nil {
		return fmt.Errorf("set advertised: %w", err)
	}

	return nil
}

// DeleteProduct removes a seller's own product with its bookings and
// wishlist entries. Paid products can be deleted too.
func (s *productServiceImpl) DeleteProduct(ctx context.Context, productID, requesterUID string) error {
	return s.store.Transaction(ctx, func(ctx context.Context, tx repository.Store) error {
		product, err := s.ownedProduct(ctx, tx, productID, requesterUID)
		if err != nil {
			return err
		}

		ids := []string{product.ID}
		bookings, err := tx.Bookings().DeleteByProducts(ctx, ids)
		if err != nil {
			return fmt.Errorf("delete product bookings: %w", err)
		}
		wishlist, err := tx.Wishlist().DeleteByProducts(ctx, ids)
		if err != nil {
			return fmt.Errorf("delete product wishlist entries: %w", err)
		}
		if err := tx.Products().Delete(ctx, product.ID); err != nil {
			return fmt.Errorf("delete product: %w", err)
		}

		s.log.InfoContext(ctx, "product deleted",
			"product_id", product.ID, "seller_uid", requesterUID,
			"paid", product.Paid, "bookings", bookings, "wishlist", wishlist)
		return nil
	})
}

func (s *productServiceImpl) ownedProduct(ctx context.Context, store repository.Store, productID, requesterUID string) (*model.Product, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product_id is required", ErrInvalidInput)
	}

	product, err := store.Products().Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product.SellerUID != requesterUID {
		return nil, ErrForbidden
	}

	return product, nil
}

func (s *productServiceImpl) ListCategories(ctx context.Context, categoryID string) ([]*model.Category, error) {
	if categoryID == "" {
		return s.store.Categories().List(ctx)
	}

	category, err := s.store.Categories().Get(ctx, categoryID)
	if errors.Is(err, repository.ErrNotFound) {
		return []*model.Category{}, nil
	}
	if err != nil {
		return nil, err
	}

	return []*model.Category{category}, nil
}
