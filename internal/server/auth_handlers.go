package server

import (
	"agora/internal/models"
	"agora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /api/users/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Nickname string `json:"nickname"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewInvalidRequestError())
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, models.OutcomeRegisterSuccess, fiber.Map{
		"user_id":       user.ID,
		"profile_image": user.ProfileImage,
	})
}

// Login handles POST /api/users/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewInvalidRequestError())
	}

	user, token, err := s.userService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, models.OutcomeLoginSuccess, fiber.Map{
		"user_id": user.ID,
		"token":   token,
	})
}

// CheckEmail handles POST /api/users/signup/check-email
func (s *Server) CheckEmail(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewInvalidRequestError())
	}

	available, err := s.userService.EmailAvailable(c.UserContext(), req.Email)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, models.OutcomeCheckOK, fiber.Map{"available": available})
}

// CheckNickname handles POST /api/users/signup/check-nickname
func (s *Server) CheckNickname(c *fiber.Ctx) error {
	var req struct {
		Nickname string `json:"nickname"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewInvalidRequestError())
	}

	available, err := s.userService.NicknameAvailable(c.UserContext(), req.Nickname)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, models.OutcomeCheckOK, fiber.Map{"available": available})
}
