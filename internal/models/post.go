// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxTitleLen is the maximum post title length in runes, after trimming.
const MaxTitleLen = 26

// Post represents a board post.
type Post struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Title         string `gorm:"size:100;not null" json:"title"`
	Body          string `gorm:"type:text;not null" json:"body"`
	AuthorID      uint   `gorm:"not null;index" json:"author_id"`
	Author        User   `gorm:"foreignKey:AuthorID" json:"author"`
	ImageFilename string `gorm:"size:500" json:"image_filename,omitempty"`
	// Views is a monotonic counter bumped on each detail read.
	Views int `gorm:"not null;default:0" json:"views"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->;-:migration" json:"comments_count"`
	// LikesCount is not persisted; computed at query time
	LikesCount int            `gorm:"->;-:migration" json:"likes_count"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
