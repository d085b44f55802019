package service

import (
	"context"
	"strings"
	"time"

	"agora/internal/models"
	"agora/internal/moderation"
	"agora/internal/observability"
	"agora/internal/repository"
	"agora/internal/validation"
)

// PostService implements the moderated post write path and the read
// projections.
type PostService struct {
	postRepo   repository.PostRepository
	userRepo   repository.UserRepository
	classifier moderation.Classifier
	threshold  float64
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	classifier moderation.Classifier,
	threshold float64,
) *PostService {
	return &PostService{
		postRepo:   postRepo,
		userRepo:   userRepo,
		classifier: classifier,
		threshold:  threshold,
	}
}

type CreatePostInput struct {
	AuthorID         uint
	Title            string
	Body             string
	ImageFilename    string
	ImageContentType string
}

type UpdatePostInput struct {
	UserID           uint
	PostID           uint
	Title            string
	Body             string
	ImageFilename    string
	ImageContentType string
	RemoveImage      bool
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

// moderatePost runs the classifier over the combined title and body.
// The verdict decides between publishing, a policy block and a gateway
// failure; no row is written in the latter two cases.
func (s *PostService) moderatePost(ctx context.Context, title, body string) error {
	start := time.Now()
	result := s.classifier.Check(ctx, title+"\n"+body, s.threshold)
	switch {
	case !result.Success:
		observability.RecordModeration("post", "error", start)
		observability.WriteBlocks.WithLabelValues("moderation").Inc()
		return models.NewAIError(result.Error)
	case result.IsToxic:
		observability.RecordModeration("post", "blocked", start)
		observability.WriteBlocks.WithLabelValues("moderation").Inc()
		return models.NewToxicBlockError(models.OutcomeBlockedToxicPost, result.Label, result.Score)
	case result.Label == moderation.LabelEmpty:
		observability.RecordModeration("post", "empty", start)
	default:
		observability.RecordModeration("post", "allowed", start)
	}
	return nil
}

// CreatePost publishes a post after the full gate sequence: field
// presence, title length, author existence, moderation, then the image
// check. The first failing gate wins and nothing is persisted.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	body := strings.TrimSpace(in.Body)
	if title == "" || body == "" {
		observability.WriteBlocks.WithLabelValues("presence").Inc()
		return nil, models.NewInvalidRequestError()
	}
	if err := validation.Title(title); err != nil {
		observability.WriteBlocks.WithLabelValues("validation").Inc()
		return nil, err
	}

	exists, err := s.userRepo.Exists(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		observability.WriteBlocks.WithLabelValues("existence").Inc()
		return nil, models.NewUserNotFoundError(in.AuthorID)
	}

	if err := s.moderatePost(ctx, title, body); err != nil {
		return nil, err
	}

	if in.ImageFilename != "" {
		if err := validation.ImageContentType(in.ImageContentType); err != nil {
			observability.WriteBlocks.WithLabelValues("validation").Inc()
			return nil, err
		}
	}

	post := &models.Post{
		Title:         title,
		Body:          body,
		AuthorID:      in.AuthorID,
		ImageFilename: in.ImageFilename,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost edits a post through the same gate sequence as CreatePost,
// with the target's existence and ownership checked before moderation.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	body := strings.TrimSpace(in.Body)
	if title == "" || body == "" {
		observability.WriteBlocks.WithLabelValues("presence").Inc()
		return nil, models.NewInvalidRequestError()
	}
	if err := validation.Title(title); err != nil {
		observability.WriteBlocks.WithLabelValues("validation").Inc()
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.UserID {
		return nil, models.NewUnauthorizedError("only the author can edit this post")
	}

	if err := s.moderatePost(ctx, title, body); err != nil {
		return nil, err
	}

	// A new image replaces the current one; RemoveImage with no new
	// image clears it; neither leaves the attachment untouched.
	switch {
	case in.ImageFilename != "" && in.ImageFilename != post.ImageFilename:
		if err := validation.ImageContentType(in.ImageContentType); err != nil {
			observability.WriteBlocks.WithLabelValues("validation").Inc()
			return nil, err
		}
		post.ImageFilename = in.ImageFilename
	case in.ImageFilename == "" && in.RemoveImage:
		post.ImageFilename = ""
	}

	post.Title = title
	post.Body = body
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes a post and everything hanging off it.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return models.NewUnauthorizedError("only the author can delete this post")
	}
	return s.postRepo.Delete(ctx, postID)
}

// GetPost returns the detail projection, bumping the view counter
// first so the returned count includes this read.
func (s *PostService) GetPost(ctx context.Context, postID, currentUserID uint) (*models.Post, bool, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, models.NewNotFoundError("Post", postID)
	}

	if err := s.postRepo.IncrementViews(ctx, postID); err != nil {
		return nil, false, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, false, err
	}

	liked := false
	if currentUserID != 0 {
		liked, err = s.postRepo.IsLiked(ctx, currentUserID, postID)
		if err != nil {
			return nil, false, err
		}
	}
	return post, liked, nil
}

// ListPosts returns one window of posts plus the total.
func (s *PostService) ListPosts(ctx context.Context, cursor, limit int) ([]*models.Post, int64, error) {
	return s.postRepo.List(ctx, cursor, limit)
}

// ToggleLike flips the like state of the post for the user and returns
// the new state with a fresh count.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*LikeResult, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Post", postID)
	}

	userExists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !userExists {
		return nil, models.NewUserNotFoundError(userID)
	}

	liked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if liked {
		err = s.postRepo.Unlike(ctx, userID, postID)
	} else {
		err = s.postRepo.Like(ctx, userID, postID)
	}
	if err != nil {
		return nil, err
	}

	count, err := s.postRepo.LikeCount(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: !liked, LikesCount: count}, nil
}
