// Package validation holds the field-level format and length checks the
// write path runs before any database or moderation work.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"agora/internal/models"
)

var (
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	nicknameRe = regexp.MustCompile(`^[가-힣A-Za-z0-9]{1,10}$`)
)

const passwordSymbols = "!@#$%^&*"

// Email checks the single-@ address shape.
func Email(email string) *models.AppError {
	if !emailRe.MatchString(email) {
		return models.NewValidationError("email", "invalid email format")
	}
	return nil
}

// Password enforces 8 to 20 characters with at least one uppercase
// letter, one lowercase letter, one digit and one symbol from !@#$%^&*.
func Password(password string) *models.AppError {
	n := utf8.RuneCountInString(password)
	if n < 8 || n > 20 {
		return models.NewValidationError("password", "must be 8-20 characters")
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	if !upper || !lower || !digit || !symbol {
		return models.NewValidationError("password",
			"must include uppercase, lowercase, digit and one of !@#$%^&*")
	}
	return nil
}

// Nickname allows 1 to 10 Hangul syllables, latin letters or digits.
func Nickname(nickname string) *models.AppError {
	if !nicknameRe.MatchString(nickname) {
		return models.NewValidationError("nickname",
			"must be 1-10 Korean, English or numeric characters")
	}
	return nil
}

// Title caps post titles at MaxTitleLen runes. Blank titles are the
// caller's invalid_request case, not a validation failure.
func Title(title string) *models.AppError {
	if utf8.RuneCountInString(title) > models.MaxTitleLen {
		return models.NewValidationError("title", "must be at most 26 characters")
	}
	return nil
}

// CommentContent caps comments at MaxCommentLen runes.
func CommentContent(content string) *models.AppError {
	if utf8.RuneCountInString(content) > models.MaxCommentLen {
		return models.NewValidationError("content", "must be at most 500 characters")
	}
	return nil
}

// ImageContentType requires an image/* media type on uploads.
func ImageContentType(contentType string) *models.AppError {
	if !strings.HasPrefix(contentType, "image/") {
		return models.NewValidationError("image", "not_image")
	}
	return nil
}
