package models

import (
	"time"

	"gorm.io/gorm"
)

// Category represents a node in the two-level category taxonomy.
// Top-level categories have a nil ParentID; posts are assigned to children.
type Category struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	Name     string     `gorm:"not null" json:"name"`
	Slug     string     `gorm:"uniqueIndex" json:"slug"`
	ParentID *uint      `gorm:"index" json:"parent_id,omitempty"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	// PostsCount is not persisted; computed at query time
	PostsCount int            `gorm:"->" json:"posts_count"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// ResolveCategoryLabel searches a two-level category forest for the child
// with the given id and returns its name. The first matching child wins;
// an unresolved id yields an empty label.
func ResolveCategoryLabel(tree []Category, id uint) string {
	for _, parent := range tree {
		for _, child := range parent.Children {
			if child.ID == id {
				return child.Name
			}
		}
	}
	return ""
}
