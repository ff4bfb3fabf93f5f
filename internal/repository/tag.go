package repository

import (
	"context"

	"bloghub/internal/models"

	"gorm.io/gorm"
)

// TagRepository defines persistence operations for tags.
type TagRepository interface {
	List(ctx context.Context, limit, offset int) ([]models.Tag, int64, error)
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	EnsureByNames(ctx context.Context, names []string) ([]models.Tag, error)
	Delete(ctx context.Context, id uint) error
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) List(ctx context.Context, limit, offset int) ([]models.Tag, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Tag{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Select("tags.*, (SELECT COUNT(*) FROM post_tags WHERE post_tags.tag_id = tags.id) as posts_count").
		Order("posts_count DESC, name ASC").
		Limit(limit).
		Offset(offset).
		Find(&tags).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return tags, total, nil
}

func (r *tagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&tag).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &tag, nil
}

// EnsureByNames resolves each label to an existing tag under
// case-insensitive comparison, creating missing ones. The stored spelling
// of an existing tag wins over the incoming one.
func (r *tagRepository) EnsureByNames(ctx context.Context, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		existing, err := r.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			tags = append(tags, *existing)
			continue
		}

		tag := models.Tag{Name: name, Slug: models.Slugify(name)}
		if err := r.db.WithContext(ctx).Create(&tag).Error; err != nil {
			if isUniqueConstraintError(err) {
				// Lost a race to a concurrent insert; use the winner.
				if existing, gerr := r.GetByName(ctx, name); gerr == nil && existing != nil {
					tags = append(tags, *existing)
					continue
				}
			}
			return nil, models.NewInternalError(err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (r *tagRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Tag{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
