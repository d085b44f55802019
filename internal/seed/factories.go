// Package seed creates demo data for development databases. It is never
// wired into the server; cmd/seed drives it explicitly.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"agora/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the login password of every seeded account.
const DefaultPassword = "Password1!"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db           *gorm.DB
	rng          *rand.Rand
	passwordHash string
}

// NewFactory creates a Factory bound to the provided Gorm DB. The bcrypt
// hash is computed once; hashing per user would dominate seeding time.
func NewFactory(db *gorm.DB) (*Factory, error) {
	gofakeit.Seed(time.Now().UnixNano())

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hashing seed password: %w", err)
	}

	return &Factory{
		db:           db,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		passwordHash: string(hash),
	}, nil
}

// nickname generates a name that satisfies the 1-10 letter/digit rule.
func (f *Factory) nickname() string {
	name := strings.ToLower(gofakeit.FirstName())
	if runes := []rune(name); len(runes) > 7 {
		name = string(runes[:7])
	}
	return fmt.Sprintf("%s%d", name, f.rng.Intn(900)+100)
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Email:        gofakeit.Email(),
		Password:     f.passwordHash,
		Nickname:     f.nickname(),
		ProfileImage: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a post authored by the given user,
// with a created_at spread over the last 90 days.
func (f *Factory) CreatePost(author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:    models.TruncateTitle(gofakeit.Sentence(3), models.MaxTitleLen),
		Body:     gofakeit.Paragraph(1, 3, 8, "\n"),
		AuthorID: author.ID,
		Views:    f.rng.Intn(2000),
	}
	if f.rng.Intn(3) == 0 {
		post.ImageFilename = fmt.Sprintf("%s.jpg", gofakeit.UUID())
	}

	daysBack := time.Duration(f.rng.Intn(90*24)) * time.Hour
	post.CreatedAt = time.Now().Add(-daysBack)

	for _, override := range overrides {
		override(post)
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a comment by the given author under the post.
func (f *Factory) CreateComment(post *models.Post, author *models.User) (*models.Comment, error) {
	content := gofakeit.Sentence(f.rng.Intn(12) + 3)
	if runes := []rune(content); len(runes) > models.MaxCommentLen {
		content = string(runes[:models.MaxCommentLen])
	}

	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: author.ID,
		Content:  content,
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike records a like; duplicates are silently skipped.
func (f *Factory) CreateLike(post *models.Post, user *models.User) error {
	return f.db.Exec(
		"INSERT INTO likes (user_id, post_id, created_at) VALUES (?, ?, CURRENT_TIMESTAMP) "+
			"ON CONFLICT (user_id, post_id) DO NOTHING",
		user.ID, post.ID,
	).Error
}
