package server

import (
	"agora/internal/models"
	"agora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c)

	comments, total, err := s.commentService.ListComments(c.UserContext(), postID, page.Cursor, page.Limit)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, cm := range comments {
		views = append(views, models.NewCommentView(cm))
	}
	result := models.NewPage(views, total, page.Cursor, page.Limit)

	return models.Respond(c, models.OutcomeCommentsOK, fiber.Map{
		"comments_count":         total,
		"comments_count_display": models.CompactCount(int(total)),
		"items":                  result.Items,
		"next_cursor":            result.NextCursor,
	})
}

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewInvalidRequestError())
	}

	created, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		PostID:   postID,
		AuthorID: userID,
		Content:  req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, models.OutcomeCommentCreated, fiber.Map{
		"comment_id":             created.Comment.ID,
		"comment":                models.NewCommentView(created.Comment),
		"comments_count":         created.Count,
		"comments_count_display": models.CompactCount(int(created.Count)),
	})
}

// UpdateComment handles PATCH /api/posts/:id/comments/:commentId
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewInvalidRequestError())
	}

	comment, err := s.commentService.UpdateComment(c.UserContext(), service.UpdateCommentInput{
		PostID:    postID,
		CommentID: commentID,
		UserID:    userID,
		Content:   req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, models.OutcomeCommentUpdated, models.NewCommentView(comment))
}

// DeleteComment handles DELETE /api/posts/:id/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	count, err := s.commentService.DeleteComment(c.UserContext(), userID, postID, commentID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, models.OutcomeCommentDeleted, fiber.Map{
		"comments_count":         count,
		"comments_count_display": models.CompactCount(int(count)),
	})
}
