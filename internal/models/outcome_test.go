package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeStatus(t *testing.T) {
	tests := []struct {
		outcome Outcome
		status  int
	}{
		{OutcomeInvalidRequest, fiber.StatusBadRequest},
		{OutcomeValidationError, fiber.StatusUnprocessableEntity},
		{OutcomeUnauthorized, fiber.StatusUnauthorized},
		{OutcomeNotFound, fiber.StatusNotFound},
		{OutcomeUserNotFound, fiber.StatusNotFound},
		{OutcomeEmailConflict, fiber.StatusConflict},
		{OutcomeNicknameDuplicated, fiber.StatusConflict},
		{OutcomeAIError, fiber.StatusBadGateway},
		{OutcomeBlockedToxicPost, fiber.StatusForbidden},
		{OutcomeBlockedToxicComment, fiber.StatusForbidden},
		{OutcomeInternalError, fiber.StatusInternalServerError},
		{OutcomeRegisterSuccess, fiber.StatusCreated},
		{OutcomePostCreated, fiber.StatusCreated},
		{OutcomeCommentCreated, fiber.StatusCreated},
		{OutcomeListOK, fiber.StatusOK},
		{OutcomeDetailOK, fiber.StatusOK},
		{OutcomePostDeleted, fiber.StatusOK},
		{OutcomeLikeToggled, fiber.StatusOK},
		{OutcomeLoginSuccess, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.outcome.Status())
		})
	}
}

func TestAppErrorError(t *testing.T) {
	wrapped := errors.New("connection refused")
	appErr := NewInternalError(wrapped)
	assert.Contains(t, appErr.Error(), "internal server error")
	assert.Contains(t, appErr.Error(), "connection refused")
	assert.ErrorIs(t, appErr, wrapped)
}

func TestNewValidationErrorCarriesFieldAndReason(t *testing.T) {
	appErr := NewValidationError("title", "must be at most 26 characters")
	assert.Equal(t, OutcomeValidationError, appErr.Outcome)
	assert.Equal(t, "title", appErr.Data["field"])
	assert.Equal(t, "must be at most 26 characters", appErr.Data["reason"])
}

func TestNewToxicBlockErrorCarriesEvidence(t *testing.T) {
	appErr := NewToxicBlockError(OutcomeBlockedToxicComment, "LABEL_1", 0.91)
	assert.Equal(t, OutcomeBlockedToxicComment, appErr.Outcome)
	assert.Equal(t, "LABEL_1", appErr.Data["model_label"])
	assert.Equal(t, 0.91, appErr.Data["score"])
	assert.Equal(t, "toxic_content", appErr.Data["reason"])
}

func TestRespond(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return Respond(c, OutcomeDetailOK, fiber.Map{"id": 7})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "detail_ok", body.Message)
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		status     int
		message    string
		wantReason string
	}{
		{
			name:    "app error keeps outcome",
			err:     NewUserNotFoundError(42),
			status:  fiber.StatusNotFound,
			message: "user_not_found",
		},
		{
			name:       "toxic block exposes evidence",
			err:        NewToxicBlockError(OutcomeBlockedToxicPost, "LABEL_1", 0.88),
			status:     fiber.StatusForbidden,
			message:    "blocked_toxic_post",
			wantReason: "toxic_content",
		},
		{
			name:    "wrapped app error unwraps",
			err:     fmt.Errorf("handler: %w", NewInvalidRequestError()),
			status:  fiber.StatusBadRequest,
			message: "invalid_request",
		},
		{
			name:    "plain error degrades to 500",
			err:     errors.New("boom"),
			status:  fiber.StatusInternalServerError,
			message: "internal_server_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return RespondWithError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)

			var body struct {
				Message string         `json:"message"`
				Data    map[string]any `json:"data"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.message, body.Message)
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, body.Data["reason"])
			}
		})
	}
}
