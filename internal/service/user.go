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
)

type UserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*model.User, error)
	GetUser(ctx context.Context, uid string) (*model.User, error)
	ListUsers(ctx context.Context, role model.Role) ([]*model.User, error)
	SetVerified(ctx context.Context, uid string, verified bool) error
	DeleteUser(ctx context.Context, uid string, role model.Role) error
	ProvisionAdmins(ctx context.Context, uids []string) error
}

type userServiceImpl struct {
	store repository.Store
	log   *slog.Logger
}

func NewUserService(
	store repository.Store,
	log *slog.Logger,
) UserService {
	return &userServiceImpl{
		store: store,
		log:   log,
	}
}

func (s *userServiceImpl) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*model.User, error) {
	uid := strings.TrimSpace(req.UID)
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrInvalidInput)
	}

	roles := make(model.Roles, 0, len(req.Roles)+1)
	if req.Role != "" {
		roles = append(roles, model.Role(req.Role))
	}
	for _, r := range req.Roles {
		roles = append(roles, model.Role(r))
	}
	roles = roles.Normalize()
	if roles.Has(model.RoleAdmin) {
		return nil, fmt.Errorf("%w: admin cannot be requested at signup", ErrInvalidInput)
	}
	if len(roles) == 0 {
		roles = model.Roles{model.RoleBuyer}
	}

	user := &model.User{
		UID:       uid,
		Name:      req.Name,
		Email:     req.Email,
		PhotoURL:  req.PhotoURL,
		Roles:     roles,
		Verified:  false,
		CreatedAt: time.Now(),
	}
	if err := s.store.Users().Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	return s.store.Users().Get(ctx, uid)
}

func (s *userServiceImpl) GetUser(ctx context.Context, uid string) (*model.User, error) {
	return s.store.Users().Get(ctx, uid)
}

func (s *userServiceImpl) ListUsers(ctx context.Context, role model.Role) ([]*model.User, error) {
	return s.store.Users().ListByRole(ctx, role)
}

// SetVerified flips the user's verified flag and mirrors it onto every
// product the user sells.
func (s *userServiceImpl) SetVerified(ctx context.Context, uid string, verified bool) error {
	return s.store.Transaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Users().Get(ctx, uid); err != nil {
			return fmt.Errorf("get user: %w", err)
		}

		if err := tx.Users().SetVerified(ctx, uid, verified); err != nil {
			return fmt.Errorf("set user verified: %w", err)
		}

		n, err := tx.Products().SetVerifiedBySeller(ctx, uid, verified)
		if err != nil {
			return fmt.Errorf("propagate verified to products: %w", err)
		}

		s.log.InfoContext(ctx, "user verification changed", "uid", uid, "verified", verified, "products", n)
		return nil
	})
}

// DeleteUser removes the user together with everything hanging off it. For a
// seller that is its products and every booking and wishlist entry pointing
// at them; for a buyer, its own bookings and wishlist entries.
func (s *userServiceImpl) DeleteUser(ctx context.Context, uid string, role model.Role) error {
	if role != model.RoleSeller && role != model.RoleBuyer {
		return fmt.Errorf("%w: cannot cascade delete role %q", ErrInvalidInput, role)
	}

	return s.store.Transaction(ctx, func(ctx context.Context, tx repository.Store) error {
		user, err := tx.Users().Get(ctx, uid)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if !user.Roles.Has(role) {
			return fmt.Errorf("%w: user %s is not a %s", ErrInvalidInput, uid, role)
		}

		var bookings, wishlist, products int64
		switch role {
		case model.RoleSeller:
			bookings, wishlist, products, err = s.cascadeSeller(ctx, tx, uid)
		case model.RoleBuyer:
			bookings, wishlist, err = s.cascadeBuyer(ctx, tx, uid)
		}
		if err != nil {
			return err
		}

		if err := tx.Users().Delete(ctx, uid); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}

		s.log.InfoContext(ctx, "user deleted",
			"uid", uid, "role", role,
			"products", products, "bookings", bookings, "wishlist", wishlist)
		return nil
	})
}

func (s *userServiceImpl) cascadeSeller(ctx context.Context, tx repository.Store, uid string) (bookings, wishlist, products int64, err error) {
	ids, err := tx.Products().IDsBySeller(ctx, uid)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("list seller products: %w", err)
	}

	if bookings, err = tx.Bookings().DeleteByProducts(ctx, ids); err != nil {
		return 0, 0, 0, fmt.Errorf("delete seller bookings: %w", err)
	}

	byProduct, err := tx.Wishlist().DeleteByProducts(ctx, ids)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("delete seller wishlist entries: %w", err)
	}
	bySeller, err := tx.Wishlist().DeleteBySeller(ctx, uid)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("delete seller wishlist entries: %w", err)
	}

	if products, err = tx.Products().DeleteBySeller(ctx, uid); err != nil {
		return 0, 0, 0, fmt.Errorf("delete seller products: %w", err)
	}

	return bookings, byProduct + bySeller, products, nil
}

func (s *userServiceImpl) cascadeBuyer(ctx context.Context, tx repository.Store, uid string) (bookings, wishlist int64, err error) {
	if bookings, err = tx.Bookings().DeleteByBuyer(ctx, uid); err != nil {
		return 0, 0, fmt.Errorf("delete buyer bookings: %w", err)
	}
	if wishlist, err = tx.Wishlist().DeleteByBuyer(ctx, uid); err != nil {
		return 0, 0, fmt.Errorf("delete buyer wishlist entries: %w", err)
	}
	return bookings, wishlist, nil
}

// ProvisionAdmins grants the admin role to each uid, creating bare users for
// uids that have not signed up yet.
func (s *userServiceImpl) ProvisionAdmins(ctx context.Context, uids []string) error {
	for _, uid := range uids {
		uid = strings.TrimSpace(uid)
		if uid == "" {
			continue
		}

		err := s.store.Transaction(ctx, func(ctx context.Context, tx repository.Store) error {
			user, err := tx.Users().Get(ctx, uid)
			if errors.Is(err, repository.ErrNotFound) {
				return tx.Users().Upsert(ctx, &model.User{
					UID:       uid,
					Roles:     model.Roles{model.RoleAdmin},
					CreatedAt: time.Now(),
				})
			}
			if err != nil {
				return fmt.Errorf("get user: %w", err)
			}
			if user.Roles.Has(model.RoleAdmin) {
				return nil
			}
			return tx.Users().SetRoles(ctx, uid, append(user.Roles, model.RoleAdmin))
		})
		if err != nil {
			return fmt.Errorf("provision admin %s: %w", uid, err)
		}

		s.log.InfoContext(ctx, "admin provisioned", "uid", uid)
	}

	return nil
}
