package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxTagLen is the maximum tag label length in runes.
const MaxTagLen = 50

// Tag represents a short label attached to posts. Names are unique under
// case-insensitive comparison; uniqueness is enforced by the repository.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
	Slug string `gorm:"index" json:"slug"`
	// PostsCount is not persisted; computed at query time
	PostsCount int            `gorm:"->" json:"posts_count"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
