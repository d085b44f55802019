package server

import (
	"agora/internal/models"
	"agora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	user, err := s.userService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, models.OutcomeDetailOK, models.NewUserProfile(user))
}

// UpdateMyProfile handles PATCH /api/users/profile
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Nickname         string `json:"nickname"`
		ProfileImage     string `json:"profile_image"`
		ImageContentType string `json:"image_content_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewInvalidRequestError())
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:           userID,
		Nickname:         req.Nickname,
		ProfileImage:     req.ProfileImage,
		ImageContentType: req.ImageContentType,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, models.OutcomeProfileUpdated, models.NewUserProfile(user))
}

// ChangeMyPassword handles PATCH /api/users/password
func (s *Server) ChangeMyPassword(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewInvalidRequestError())
	}

	err := s.userService.ChangePassword(c.UserContext(), service.ChangePasswordInput{
		UserID:          userID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, models.OutcomePasswordUpdated, nil)
}
