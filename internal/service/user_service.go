// Package service holds the application logic that sits between the
// HTTP handlers and the repositories.
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"agora/internal/models"
	"agora/internal/repository"
	"agora/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService implements registration, login and profile management.
type UserService struct {
	userRepo  repository.UserRepository
	jwtSecret string
}

func NewUserService(userRepo repository.UserRepository, jwtSecret string) *UserService {
	return &UserService{userRepo: userRepo, jwtSecret: jwtSecret}
}

type RegisterInput struct {
	Email    string
	Password string
	Nickname string
}

type UpdateProfileInput struct {
	UserID           uint
	Nickname         string
	ProfileImage     string
	ImageContentType string
}

type ChangePasswordInput struct {
	UserID          uint
	CurrentPassword string
	NewPassword     string
}

// Register creates a new account. Field checks run before any lookup,
// and uniqueness is rechecked by the database on insert.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	nickname := strings.TrimSpace(in.Nickname)
	if email == "" || in.Password == "" || nickname == "" {
		return nil, models.NewInvalidRequestError()
	}

	if err := validation.Email(email); err != nil {
		return nil, err
	}
	if err := validation.Password(in.Password); err != nil {
		return nil, err
	}
	if err := validation.Nickname(nickname); err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError(models.OutcomeEmailConflict)
	}
	if existing, err := s.userRepo.GetByNickname(ctx, nickname); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError(models.OutcomeNicknameDuplicated)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Nickname: nickname,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns the user plus a signed token.
// Both an unknown address and a wrong password come back as the same
// unauthorized outcome.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", models.NewInvalidRequestError()
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", models.NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", models.NewUnauthorizedError("invalid credentials")
	}

	token, err := s.generateToken(user.ID, user.Nickname)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	return user, token, nil
}

// EmailAvailable reports whether the address is valid and unused.
func (s *UserService) EmailAvailable(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, models.NewInvalidRequestError()
	}
	if err := validation.Email(email); err != nil {
		return false, err
	}
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return existing == nil, nil
}

// NicknameAvailable reports whether the nickname is valid and unused.
func (s *UserService) NicknameAvailable(ctx context.Context, nickname string) (bool, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return false, models.NewInvalidRequestError()
	}
	if err := validation.Nickname(nickname); err != nil {
		return false, err
	}
	existing, err := s.userRepo.GetByNickname(ctx, nickname)
	if err != nil {
		return false, err
	}
	return existing == nil, nil
}

// GetProfile returns the user for the given ID.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile changes nickname and/or profile image for the user.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	nickname := strings.TrimSpace(in.Nickname)
	if nickname == "" && in.ProfileImage == "" {
		return nil, models.NewInvalidRequestError()
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if nickname != "" && nickname != user.Nickname {
		if err := validation.Nickname(nickname); err != nil {
			return nil, err
		}
		existing, err := s.userRepo.GetByNickname(ctx, nickname)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, models.NewConflictError(models.OutcomeNicknameDuplicated)
		}
		user.Nickname = nickname
	}

	if in.ProfileImage != "" {
		if err := validation.ImageContentType(in.ImageContentType); err != nil {
			return nil, err
		}
		user.ProfileImage = in.ProfileImage
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	if in.CurrentPassword == "" || in.NewPassword == "" {
		return models.NewInvalidRequestError()
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)); err != nil {
		return models.NewUnauthorizedError("current password does not match")
	}
	if err := validation.Password(in.NewPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.Password = string(hash)
	return s.userRepo.Update(ctx, user)
}

// generateToken creates a JWT token for the given user ID and nickname
func (s *UserService) generateToken(userID uint, nickname string) (string, error) {
	if s.jwtSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"nickname": nickname,
		"iss":      "agora-api",
		"aud":      "agora-client",
		"exp":      now.Add(time.Hour * 24 * 7).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
