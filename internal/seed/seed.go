package seed

import (
	"fmt"
	"log/slog"

	"agora/internal/models"

	"gorm.io/gorm"
)

// Options controls how much data the seeder generates.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seeder populates the database with a believable social mesh: users,
// posts spread over time, comments and likes with skewed popularity.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

func NewSeeder(db *gorm.DB) (*Seeder, error) {
	factory, err := NewFactory(db)
	if err != nil {
		return nil, err
	}
	return &Seeder{db: db, factory: factory}, nil
}

// ClearAll removes all seeded entities. Order respects foreign keys.
func (s *Seeder) ClearAll() error {
	for _, stmt := range []string{
		"DELETE FROM likes",
		"DELETE FROM comments",
		"DELETE FROM posts",
		"DELETE FROM users",
	} {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("cleanup %q: %w", stmt, err)
		}
	}
	return nil
}

// Run generates the requested volume of data and returns the users it
// created so callers can log sample credentials.
func (s *Seeder) Run(opts Options) ([]*models.User, error) {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 100
	}

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return nil, err
		}
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("seeding user %d: %w", i, err)
		}
		users = append(users, user)
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		post, err := s.factory.CreatePost(author)
		if err != nil {
			return nil, fmt.Errorf("seeding post %d: %w", i, err)
		}
		posts = append(posts, post)
	}

	// A third of the posts are "popular" and attract most of the
	// comments and likes.
	comments, likes := 0, 0
	for i, post := range posts {
		engagement := 1 + s.factory.rng.Intn(3)
		if i%3 == 0 {
			engagement = 5 + s.factory.rng.Intn(10)
		}
		for j := 0; j < engagement; j++ {
			commenter := users[s.factory.rng.Intn(len(users))]
			if _, err := s.factory.CreateComment(post, commenter); err != nil {
				return nil, fmt.Errorf("seeding comment on post %d: %w", post.ID, err)
			}
			comments++

			if s.factory.rng.Intn(2) == 0 {
				if err := s.factory.CreateLike(post, commenter); err != nil {
					return nil, fmt.Errorf("seeding like on post %d: %w", post.ID, err)
				}
				likes++
			}
		}
	}

	slog.Info("seeding complete",
		"users", len(users),
		"posts", len(posts),
		"comments", comments,
		"likes", likes,
	)
	return users, nil
}
