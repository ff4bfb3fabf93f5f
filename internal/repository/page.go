package repository

import (
	"context"
	"errors"

	"bloghub/internal/cache"
	"bloghub/internal/models"

	"gorm.io/gorm"
)

// PageRepository defines persistence operations for static pages.
type PageRepository interface {
	Create(ctx context.Context, page *models.Page) error
	GetBySlug(ctx context.Context, slug string) (*models.Page, error)
	List(ctx context.Context, publishedOnly bool) ([]models.Page, error)
	Update(ctx context.Context, page *models.Page) error
	Delete(ctx context.Context, id uint) error
}

type pageRepository struct {
	db *gorm.DB
}

// NewPageRepository creates a new page repository.
func NewPageRepository(db *gorm.DB) PageRepository {
	return &pageRepository{db: db}
}

func (r *pageRepository) Create(ctx context.Context, page *models.Page) error {
	if page.Slug == "" {
		page.Slug = models.Slugify(page.Title)
	}
	if err := r.db.WithContext(ctx).Create(page).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Page slug already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *pageRepository) GetBySlug(ctx context.Context, slug string) (*models.Page, error) {
	var page models.Page
	err := cache.Aside(ctx, cache.PageKey(slug), &page, cache.PageTTL, func() error {
		if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&page).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Page", slug)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) List(ctx context.Context, publishedOnly bool) ([]models.Page, error) {
	var pages []models.Page
	query := r.db.WithContext(ctx).Order("title ASC")
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	if err := query.Find(&pages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return pages, nil
}

func (r *pageRepository) Update(ctx context.Context, page *models.Page) error {
	if err := r.db.WithContext(ctx).Save(page).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePage(ctx, page.Slug)
	return nil
}

func (r *pageRepository) Delete(ctx context.Context, id uint) error {
	var page models.Page
	if err := r.db.WithContext(ctx).First(&page, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Page", id)
		}
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Delete(&page).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePage(ctx, page.Slug)
	return nil
}
