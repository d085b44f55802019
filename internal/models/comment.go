// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxCommentLen is the maximum comment length in runes.
const MaxCommentLen = 500

// Comment represents a comment on a post. Comments are owned by their
// post and removed when the post is deleted.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	AuthorID  uint           `gorm:"not null" json:"author_id"`
	Author    User           `gorm:"foreignKey:AuthorID" json:"author"`
	Content   string         `gorm:"size:500;not null" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
