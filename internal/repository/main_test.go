package repository

import (
	"fmt"
	"testing"

	"agora/internal/database"
	"agora/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

var userSeq int

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	userSeq++
	user := &models.User{
		Email:    fmt.Sprintf("user%d@example.com", userSeq),
		Password: "$2a$10$hashhashhashhashhashha",
		Nickname: fmt.Sprintf("user%d", userSeq),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, author *models.User, title string) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:    title,
		Body:     "body of " + title,
		AuthorID: author.ID,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func createTestComment(t *testing.T, db *gorm.DB, post *models.Post, author *models.User, content string) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: author.ID,
		Content:  content,
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
