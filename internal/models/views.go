package models

import (
	"fmt"
	"time"
)

// timestampLayout is the wire format for every timestamp the API emits.
const timestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders t in the API's fixed datetime layout.
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// CompactCount folds large counters into the display strings the list
// cards use. Thresholds are inclusive and checked largest first.
func CompactCount(n int) string {
	switch {
	case n >= 100_000:
		return "100k"
	case n >= 10_000:
		return "10k"
	case n >= 1_000:
		return "1k"
	default:
		return fmt.Sprintf("%d", n)
	}
}

// TruncateTitle caps a title at max runes for card display. Stored
// titles already satisfy the limit; this only guards display of
// pre-existing rows.
func TruncateTitle(title string, max int) string {
	runes := []rune(title)
	if len(runes) <= max {
		return title
	}
	return string(runes[:max])
}

// PostCard is the list-page projection of a post.
type PostCard struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	AuthorName    string `json:"author_name"`
	CreatedAt     string `json:"created_at"`
	CommentsCount string `json:"comments_count"`
	LikesCount    string `json:"likes_count"`
	Views         string `json:"views"`
	DetailURL     string `json:"detail_url"`
}

// NewPostCard builds the card projection, truncating the title and
// compacting all counters.
func NewPostCard(p *Post) PostCard {
	return PostCard{
		ID:            p.ID,
		Title:         TruncateTitle(p.Title, MaxTitleLen),
		AuthorName:    p.Author.Nickname,
		CreatedAt:     FormatTimestamp(p.CreatedAt),
		CommentsCount: CompactCount(p.CommentsCount),
		LikesCount:    CompactCount(p.LikesCount),
		Views:         CompactCount(p.Views),
		DetailURL:     fmt.Sprintf("/posts/%d", p.ID),
	}
}

// PostDetail is the full projection returned by the detail endpoint.
type PostDetail struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	Body          string `json:"body"`
	AuthorID      uint   `json:"author_id"`
	AuthorName    string `json:"author_name"`
	ImageFilename string `json:"image_filename,omitempty"`
	Views         int    `json:"views"`
	LikesCount    int    `json:"likes_count"`
	CommentsCount int    `json:"comments_count"`
	Liked         bool   `json:"liked"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`

	// Compact renderings of the counters above ("999", "1k", "10k").
	ViewsDisplay         string `json:"views_display"`
	LikesCountDisplay    string `json:"likes_count_display"`
	CommentsCountDisplay string `json:"comments_count_display"`
}

func NewPostDetail(p *Post, liked bool) PostDetail {
	return PostDetail{
		ID:            p.ID,
		Title:         p.Title,
		Body:          p.Body,
		AuthorID:      p.AuthorID,
		AuthorName:    p.Author.Nickname,
		ImageFilename: p.ImageFilename,
		Views:         p.Views,
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		Liked:         liked,
		CreatedAt:     FormatTimestamp(p.CreatedAt),
		UpdatedAt:     FormatTimestamp(p.UpdatedAt),

		ViewsDisplay:         CompactCount(p.Views),
		LikesCountDisplay:    CompactCount(p.LikesCount),
		CommentsCountDisplay: CompactCount(p.CommentsCount),
	}
}

// CommentView is the projection of a comment under a post.
type CommentView struct {
	ID         uint   `json:"id"`
	PostID     uint   `json:"post_id"`
	AuthorID   uint   `json:"author_id"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func NewCommentView(c *Comment) CommentView {
	return CommentView{
		ID:         c.ID,
		PostID:     c.PostID,
		AuthorID:   c.AuthorID,
		AuthorName: c.Author.Nickname,
		Content:    c.Content,
		CreatedAt:  FormatTimestamp(c.CreatedAt),
		UpdatedAt:  FormatTimestamp(c.UpdatedAt),
	}
}

// UserProfile is the public projection of a user.
type UserProfile struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profile_image,omitempty"`
	CreatedAt    string `json:"created_at"`
}

func NewUserProfile(u *User) UserProfile {
	return UserProfile{
		ID:           u.ID,
		Email:        u.Email,
		Nickname:     u.Nickname,
		ProfileImage: u.ProfileImage,
		CreatedAt:    FormatTimestamp(u.CreatedAt),
	}
}

// Page wraps a list slice with its cursor bookkeeping. NextCursor is
// null once the window reaches the total.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	NextCursor *int  `json:"next_cursor"`
}

// NewPage computes the next cursor: cursor+limit when more rows remain,
// nil otherwise.
func NewPage[T any](items []T, total int64, cursor, limit int) Page[T] {
	page := Page[T]{Items: items, Total: total}
	if next := cursor + limit; int64(next) < total {
		page.NextCursor = &next
	}
	return page
}
