package repository

import (
	"context"

	"secondhand-market/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepository interface {
	Seed(ctx context.Context) error
	Get(ctx context.Context, categoryID string) (*model.Category, error)
	List(ctx context.Context) ([]*model.Category, error)
}

// DefaultCategories is the reference data inserted by Seed.
var DefaultCategories = []model.Category{
	{ID: "phones", Name: "Phones"},
	{ID: "laptops", Name: "Laptops"},
	{ID: "tablets", Name: "Tablets"},
	{ID: "accessories", Name: "Accessories"},
}

type categoryRepoImpl struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepoImpl{
		db: db,
	}
}

func (r *categoryRepoImpl) Seed(ctx context.Context) error {
	categories := make([]model.Category, len(DefaultCategories))
	copy(categories, DefaultCategories)

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&categories).Error
}

func (r *categoryRepoImpl) Get(ctx context.Context, categoryID string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).
		Where("id = ?", categoryID).
		First(&category).Error
	if err != nil {
		return nil, translate(err)
	}

	return &category, nil
}

func (r *categoryRepoImpl) List(ctx context.Context) ([]*model.Category, error) {
	categories := []*model.Category{}
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}

	return categories, nil
}
