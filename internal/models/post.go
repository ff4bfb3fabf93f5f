// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post publication statuses.
const (
	PostStatusPublished = "published"
	PostStatusDraft     = "draft"
)

// MaxTitleLen is the maximum post title length in runes, enforced at input time.
const MaxTitleLen = 100

// Post represents a blog post. Content holds the serialized rich-text
// document produced by the editor, stored opaquely.
type Post struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	Slug         string    `gorm:"index" json:"slug"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Status       string    `gorm:"not null;default:draft;index" json:"status"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID" json:"user"`
	CategoryID   *uint     `gorm:"index" json:"category_id,omitempty"`
	Category     *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Tags         []Tag     `gorm:"many2many:post_tags" json:"tags"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsValidPostStatus reports whether s is a recognized publication status.
func IsValidPostStatus(s string) bool {
	return s == PostStatusPublished || s == PostStatusDraft
}
