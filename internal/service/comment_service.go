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

// CommentService implements the moderated comment write path.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	classifier  moderation.Classifier
	threshold   float64
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	classifier moderation.Classifier,
	threshold float64,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		classifier:  classifier,
		threshold:   threshold,
	}
}

type CreateCommentInput struct {
	PostID   uint
	AuthorID uint
	Content  string
}

type UpdateCommentInput struct {
	PostID    uint
	CommentID uint
	UserID    uint
	Content   string
}

// CommentWithCount pairs a comment with the post's live comment total.
type CommentWithCount struct {
	Comment *models.Comment
	Count   int64
}

func (s *CommentService) moderateComment(ctx context.Context, content string) error {
	start := time.Now()
	result := s.classifier.Check(ctx, content, s.threshold)
	switch {
	case !result.Success:
		observability.RecordModeration("comment", "error", start)
		observability.WriteBlocks.WithLabelValues("moderation").Inc()
		return models.NewAIError(result.Error)
	case result.IsToxic:
		observability.RecordModeration("comment", "blocked", start)
		observability.WriteBlocks.WithLabelValues("moderation").Inc()
		return models.NewToxicBlockError(models.OutcomeBlockedToxicComment, result.Label, result.Score)
	default:
		observability.RecordModeration("comment", "allowed", start)
	}
	return nil
}

// CreateComment adds a comment after presence, length, existence and
// moderation gates, in that order. The returned count is recomputed
// from the table, never read from a stored counter.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*CommentWithCount, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		observability.WriteBlocks.WithLabelValues("presence").Inc()
		return nil, models.NewInvalidRequestError()
	}
	if err := validation.CommentContent(content); err != nil {
		observability.WriteBlocks.WithLabelValues("validation").Inc()
		return nil, err
	}

	postExists, err := s.postRepo.Exists(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !postExists {
		observability.WriteBlocks.WithLabelValues("existence").Inc()
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	userExists, err := s.userRepo.Exists(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if !userExists {
		observability.WriteBlocks.WithLabelValues("existence").Inc()
		return nil, models.NewUserNotFoundError(in.AuthorID)
	}

	if err := s.moderateComment(ctx, content); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   in.PostID,
		AuthorID: in.AuthorID,
		Content:  content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	count, err := s.commentRepo.CountByPost(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	return &CommentWithCount{Comment: created, Count: count}, nil
}

// UpdateComment edits a comment through the same gates as CreateComment,
// with ownership checked once the target is found.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		observability.WriteBlocks.WithLabelValues("presence").Inc()
		return nil, models.NewInvalidRequestError()
	}
	if err := validation.CommentContent(content); err != nil {
		observability.WriteBlocks.WithLabelValues("validation").Inc()
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	// The comment must live under the post named in the route.
	if comment.PostID != in.PostID {
		observability.WriteBlocks.WithLabelValues("existence").Inc()
		return nil, models.NewNotFoundError("Comment", in.CommentID)
	}
	if comment.AuthorID != in.UserID {
		return nil, models.NewUnauthorizedError("only the author can edit this comment")
	}

	if err := s.moderateComment(ctx, content); err != nil {
		return nil, err
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment removes a comment and returns the post's new total.
func (s *CommentService) DeleteComment(ctx context.Context, userID, postID, commentID uint) (int64, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return 0, err
	}
	if comment.PostID != postID {
		observability.WriteBlocks.WithLabelValues("existence").Inc()
		return 0, models.NewNotFoundError("Comment", commentID)
	}
	if comment.AuthorID != userID {
		return 0, models.NewUnauthorizedError("only the author can delete this comment")
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return 0, err
	}
	return s.commentRepo.CountByPost(ctx, comment.PostID)
}

// ListComments returns one window of a post's comments plus the total.
func (s *CommentService) ListComments(ctx context.Context, postID uint, cursor, limit int) ([]*models.Comment, int64, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, models.NewNotFoundError("Post", postID)
	}
	return s.commentRepo.ListByPost(ctx, postID, cursor, limit)
}
