package repository

import (
	"context"
	"errors"

	"bloghub/internal/cache"
	"bloghub/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines persistence operations for the two-level
// category taxonomy.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Tree(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.Slug == "" {
		category.Slug = models.Slugify(category.Name)
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Category already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateCategoryTree(ctx)
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Preload("Children").First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

// Tree returns the full taxonomy as top-level categories with their
// children preloaded, cached under a single key.
func (r *categoryRepository) Tree(ctx context.Context) ([]models.Category, error) {
	var tree []models.Category
	err := cache.Aside(ctx, cache.CategoryTreeKey, &tree, cache.CategoryTreeTTL, func() error {
		return r.db.WithContext(ctx).
			Preload("Children", func(db *gorm.DB) *gorm.DB {
				return db.Order("name ASC")
			}).
			Where("parent_id IS NULL").
			Order("name ASC").
			Find(&tree).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tree, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCategoryTree(ctx)
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Category{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCategoryTree(ctx)
	return nil
}
