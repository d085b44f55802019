// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account.
// Password holds a bcrypt hash, never the raw credential.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password     string         `gorm:"size:255;not null" json:"-"`
	Nickname     string         `gorm:"size:50;uniqueIndex;not null" json:"nickname"`
	ProfileImage string         `gorm:"size:500" json:"profile_image,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Posts        []Post         `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}
