package server

import (
	"agora/internal/cache"
	"agora/internal/models"
	"agora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	page := parsePagination(c)

	// The default first page is by far the hottest read, so it is the
	// only list window cached. Post and comment writes invalidate it.
	firstPage := page.Cursor == 0 && page.Limit == defaultPageLimit
	if firstPage {
		var cached models.Page[models.PostCard]
		if hit, err := cache.GetJSON(ctx, cache.PostListFirstPage, &cached); err == nil && hit {
			return models.Respond(c, models.OutcomeListOK, cached)
		}
	}

	posts, total, err := s.postService.ListPosts(ctx, page.Cursor, page.Limit)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	cards := make([]models.PostCard, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, models.NewPostCard(p))
	}
	result := models.NewPage(cards, total, page.Cursor, page.Limit)

	if firstPage {
		_ = cache.SetJSON(ctx, cache.PostListFirstPage, result, cache.PostListTTL)
	}

	return models.Respond(c, models.OutcomeListOK, result)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := s.optionalUserID(c)

	post, liked, err := s.postService.GetPost(ctx, id, userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	comments, total, err := s.commentService.ListComments(ctx, id, 0, defaultPageLimit)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	views := make([]models.CommentView, 0, len(comments))
	for _, cm := range comments {
		views = append(views, models.NewCommentView(cm))
	}

	return models.Respond(c, models.OutcomeDetailOK, fiber.Map{
		"post":           models.NewPostDetail(post, liked),
		"comments":       views,
		"comments_total": total,
	})
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Title            string `json:"title"`
		Body             string `json:"body"`
		ImageFilename    string `json:"image_filename"`
		ImageContentType string `json:"image_content_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewInvalidRequestError())
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID:         userID,
		Title:            req.Title,
		Body:             req.Body,
		ImageFilename:    req.ImageFilename,
		ImageContentType: req.ImageContentType,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, models.OutcomePostCreated, fiber.Map{
		"post_id":    post.ID,
		"detail_url": models.NewPostCard(post).DetailURL,
	})
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title            string `json:"title"`
		Body             string `json:"body"`
		ImageFilename    string `json:"image_filename"`
		ImageContentType string `json:"image_content_type"`
		RemoveImage      bool   `json:"remove_image"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewInvalidRequestError())
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:           userID,
		PostID:           id,
		Title:            req.Title,
		Body:             req.Body,
		ImageFilename:    req.ImageFilename,
		ImageContentType: req.ImageContentType,
		RemoveImage:      req.RemoveImage,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	liked, err := s.postRepo.IsLiked(c.UserContext(), userID, post.ID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, models.OutcomePostUpdated, models.NewPostDetail(post, liked))
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), userID, id); err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, models.OutcomePostDeleted, nil)
}

// ToggleLike handles POST /api/posts/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.postService.ToggleLike(c.UserContext(), userID, id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, models.OutcomeLikeToggled, result)
}
