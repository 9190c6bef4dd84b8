package repository

import (
	"context"
	"errors"
	"fmt"

	"secondhand-market/internal/model"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// Store groups the six collections. Implementations hand out repositories
// bound either to the base connection or to an open transaction.
type Store interface {
	Users() UserRepository
	Categories() CategoryRepository
	Products() ProductRepository
	Bookings() BookingRepository
	Wishlist() WishlistRepository
	Payments() PaymentRepository

	// Transaction runs fn as one unit. Repositories reached through tx must be
	// used instead of the receiver's for the writes to be grouped.
	Transaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
	Close() error
}

type gormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an opened gorm connection. The schema must already be
// migrated (see Migrate).
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Migrate creates or updates the tables and unique indexes backing the
// composite booking and wishlist identities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Booking{},
		&model.WishlistEntry{},
		&model.Payment{},
	)
}

func (s *gormStore) Users() UserRepository { return NewUserRepository(s.db) }
func (s *gormStore) Categories() CategoryRepository { return NewCategoryRepository(s.db) }
func (s *gormStore) Products() ProductRepository { return NewProductRepository(s.db) }
func (s *gormStore) Bookings() BookingRepository { return NewBookingRepository(s.db) }
func (s *gormStore) Wishlist() WishlistRepository { return NewWishlistRepository(s.db) }
func (s *gormStore) Payments() PaymentRepository { return NewPaymentRepository(s.db) }

func (s *gormStore) Transaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &gormStore{db: tx})
	})
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.Close()
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
