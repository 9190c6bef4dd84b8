package repository

import (
	"context"
	"fmt"

	"secondhand-market/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Upsert(ctx context.Context, user *model.User) error
	Get(ctx context.Context, uid string) (*model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]*model.User, error)
	SetVerified(ctx context.Context, uid string, verified bool) error
	SetRoles(ctx context.Context, uid string, roles model.Roles) error
	Delete(ctx context.Context, uid string) error
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepoImpl{
		db: db,
	}
}

// Upsert creates the user or refreshes the profile fields of an existing one.
// Roles and the verified flag are left alone on conflict.
func (r *userRepoImpl) Upsert(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "photo_url"}),
	}).Create(user).Error
}

func (r *userRepoImpl) Get(ctx context.Context, uid string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("uid = ?", uid).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}

	return &user, nil
}

func (r *userRepoImpl) ListByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	users := []*model.User{}

	q := r.db.WithContext(ctx).Order("created_at DESC")
	if role != "" {
		// roles are stored as a JSON array of strings
		q = q.Where("roles LIKE ?", fmt.Sprintf("%%%q%%", string(role)))
	}

	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepoImpl) SetVerified(ctx context.Context, uid string, verified bool) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("uid = ?", uid).
		Update("verified", verified)
	if result.Error != nil {
		return result.Error
	}

	return nil
}

func (r *userRepoImpl) SetRoles(ctx context.Context, uid string, roles model.Roles) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("uid = ?", uid).
		Update("roles", roles.Normalize()).Error
}

func (r *userRepoImpl) Delete(ctx context.Context, uid string) error {
	return r.db.WithContext(ctx).
		Where("uid = ?", uid).
		Delete(&model.User{}).Error
}
