package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Outcome is the closed set of message codes every API response carries.
// The HTTP status for each code lives in one table so handlers cannot
// drift apart in how they map results.
type Outcome string

// Terminal error outcomes.
const (
	OutcomeInvalidRequest      Outcome = "invalid_request"
	OutcomeValidationError     Outcome = "validation_error"
	OutcomeUnauthorized        Outcome = "unauthorized"
	OutcomeNotFound            Outcome = "not_found"
	OutcomeUserNotFound        Outcome = "user_not_found"
	OutcomeEmailConflict       Outcome = "email_conflict"
	OutcomeNicknameDuplicated  Outcome = "nickname_duplicated"
	OutcomeAIError             Outcome = "ai_error"
	OutcomeBlockedToxicPost    Outcome = "blocked_toxic_post"
	OutcomeBlockedToxicComment Outcome = "blocked_toxic_comment"
	OutcomeInternalError       Outcome = "internal_server_error"
)

// Success outcomes.
const (
	OutcomeRegisterSuccess Outcome = "register_success"
	OutcomeLoginSuccess    Outcome = "login_success"
	OutcomeCheckOK         Outcome = "check_ok"
	OutcomeProfileUpdated  Outcome = "profile_updated"
	OutcomePasswordUpdated Outcome = "password_updated"
	OutcomeListOK          Outcome = "list_ok"
	OutcomeDetailOK        Outcome = "detail_ok"
	OutcomePostCreated     Outcome = "post_created"
	OutcomePostUpdated     Outcome = "post_updated"
	OutcomePostDeleted     Outcome = "post_deleted"
	OutcomeLikeToggled     Outcome = "like_toggled"
	OutcomeCommentsOK      Outcome = "comments_ok"
	OutcomeCommentCreated  Outcome = "comment_created"
	OutcomeCommentUpdated  Outcome = "comment_updated"
	OutcomeCommentDeleted  Outcome = "comment_deleted"
)

// outcomeStatus is the single source of truth for Outcome -> HTTP status.
var outcomeStatus = map[Outcome]int{
	OutcomeInvalidRequest:      fiber.StatusBadRequest,
	OutcomeValidationError:     fiber.StatusUnprocessableEntity,
	OutcomeUnauthorized:        fiber.StatusUnauthorized,
	OutcomeNotFound:            fiber.StatusNotFound,
	OutcomeUserNotFound:        fiber.StatusNotFound,
	OutcomeEmailConflict:       fiber.StatusConflict,
	OutcomeNicknameDuplicated:  fiber.StatusConflict,
	OutcomeAIError:             fiber.StatusBadGateway,
	OutcomeBlockedToxicPost:    fiber.StatusForbidden,
	OutcomeBlockedToxicComment: fiber.StatusForbidden,
	OutcomeInternalError:       fiber.StatusInternalServerError,

	OutcomeRegisterSuccess: fiber.StatusCreated,
	OutcomePostCreated:     fiber.StatusCreated,
	OutcomeCommentCreated:  fiber.StatusCreated,
}

// Status returns the HTTP status code for the outcome. Success codes
// without an explicit entry map to 200.
func (o Outcome) Status() int {
	if status, ok := outcomeStatus[o]; ok {
		return status
	}
	return fiber.StatusOK
}

// Envelope is the uniform response body: a message code plus optional data.
type Envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Respond writes the uniform envelope with the outcome's status code.
func Respond(c *fiber.Ctx, o Outcome, data any) error {
	return c.Status(o.Status()).JSON(Envelope{Message: string(o), Data: data})
}

// AppError is a terminal operation outcome carried as an error value.
// Data holds the machine-readable detail the envelope exposes
// (field/reason for validation failures, model label and score for
// moderation blocks).
type AppError struct {
	Outcome Outcome
	Message string
	Data    fiber.Map
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Message != "" {
		return e.Message
	}
	return string(e.Outcome)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewInvalidRequestError reports a missing or blank mandatory field.
func NewInvalidRequestError() *AppError {
	return &AppError{Outcome: OutcomeInvalidRequest, Message: "required field missing or empty"}
}

// NewValidationError reports a format or length failure on a single field.
func NewValidationError(field, reason string) *AppError {
	return &AppError{
		Outcome: OutcomeValidationError,
		Message: fmt.Sprintf("validation failed on %s: %s", field, reason),
		Data:    fiber.Map{"field": field, "reason": reason},
	}
}

// NewNotFoundError reports a missing target entity.
func NewNotFoundError(resource string, id any) *AppError {
	return &AppError{
		Outcome: OutcomeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

// NewUserNotFoundError reports a missing author/user reference.
func NewUserNotFoundError(id any) *AppError {
	return &AppError{
		Outcome: OutcomeUserNotFound,
		Message: fmt.Sprintf("user with ID %v not found", id),
	}
}

// NewUnauthorizedError reports a failed credential check.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Outcome: OutcomeUnauthorized, Message: message}
}

// NewConflictError reports a uniqueness violation (email or nickname).
func NewConflictError(o Outcome) *AppError {
	return &AppError{Outcome: o, Message: string(o)}
}

// NewAIError reports a moderation gateway failure. The content is not
// published (fails closed) and the gateway's error string is surfaced.
func NewAIError(detail string) *AppError {
	return &AppError{
		Outcome: OutcomeAIError,
		Message: "moderation inference failed",
		Data:    fiber.Map{"reason": "ai_inference_failed", "error": detail},
	}
}

// NewToxicBlockError reports a policy rejection with the model's evidence.
func NewToxicBlockError(o Outcome, label string, score float64) *AppError {
	return &AppError{
		Outcome: o,
		Message: "content blocked by moderation",
		Data:    fiber.Map{"reason": "toxic_content", "model_label": label, "score": score},
	}
}

// NewInternalError wraps an unexpected error. The detail is logged at
// the boundary, never sent to the client.
func NewInternalError(err error) *AppError {
	return &AppError{Outcome: OutcomeInternalError, Message: "internal server error", Err: err}
}

// RespondWithError writes the envelope for an error result. AppErrors
// keep their outcome and data; anything else degrades to a bare 500.
func RespondWithError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		var data any
		if appErr.Data != nil {
			data = appErr.Data
		}
		return c.Status(appErr.Outcome.Status()).JSON(Envelope{
			Message: string(appErr.Outcome),
			Data:    data,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(Envelope{
		Message: string(OutcomeInternalError),
		Data:    nil,
	})
}
