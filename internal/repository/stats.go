package repository

import (
	"context"

	"bloghub/internal/models"

	"gorm.io/gorm"
)

// SiteStats aggregates headline counts for the admin dashboard.
type SiteStats struct {
	Users          int64 `json:"users"`
	Posts          int64 `json:"posts"`
	PublishedPosts int64 `json:"published_posts"`
	DraftPosts     int64 `json:"draft_posts"`
	Comments       int64 `json:"comments"`
	Likes          int64 `json:"likes"`
}

// StatsRepository exposes aggregate counts.
type StatsRepository interface {
	SiteStats(ctx context.Context) (*SiteStats, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) SiteStats(ctx context.Context) (*SiteStats, error) {
	var stats SiteStats

	counts := []struct {
		model any
		where []any
		dest  *int64
	}{
		{model: &models.User{}, dest: &stats.Users},
		{model: &models.Post{}, dest: &stats.Posts},
		{model: &models.Post{}, where: []any{"status = ?", models.PostStatusPublished}, dest: &stats.PublishedPosts},
		{model: &models.Post{}, where: []any{"status = ?", models.PostStatusDraft}, dest: &stats.DraftPosts},
		{model: &models.Comment{}, dest: &stats.Comments},
		{model: &models.Like{}, dest: &stats.Likes},
	}

	for _, c := range counts {
		query := r.db.WithContext(ctx).Model(c.model)
		if len(c.where) > 0 {
			query = query.Where(c.where[0], c.where[1:]...)
		}
		if err := query.Count(c.dest).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
	}

	return &stats, nil
}
