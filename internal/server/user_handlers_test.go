package server

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMyProfile(t *testing.T) {
	app := newTestApp(t, newClassifierServer(t).URL)
	userID, token := signupAndLogin(t, app, "me@example.com", "myself")

	resp, env := doJSON(t, app, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := dataOf(t, env)
	assert.EqualValues(t, userID, data["id"])
	assert.Equal(t, "me@example.com", data["email"])
	assert.Equal(t, "myself", data["nickname"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateMyProfile(t *testing.T) {
	app := newTestApp(t, newClassifierServer(t).URL)
	_, token := signupAndLogin(t, app, "renamer@example.com", "before")
	signupAndLogin(t, app, "other@example.com", "claimed")

	t.Run("rename", func(t *testing.T) {
		resp, env := doJSON(t, app, http.MethodPatch, "/api/users/profile", token, fiber.Map{
			"nickname": "after",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "profile_updated", env["message"])
		assert.Equal(t, "after", dataOf(t, env)["nickname"])
	})

	t.Run("collision", func(t *testing.T) {
		resp, env := doJSON(t, app, http.MethodPatch, "/api/users/profile", token, fiber.Map{
			"nickname": "claimed",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "nickname_duplicated", env["message"])
	})

	t.Run("profile image must be an image", func(t *testing.T) {
		resp, env := doJSON(t, app, http.MethodPatch, "/api/users/profile", token, fiber.Map{
			"profile_image":      "avatar.exe",
			"image_content_type": "application/octet-stream",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "image", dataOf(t, env)["field"])
	})

	t.Run("nothing to change", func(t *testing.T) {
		resp, env := doJSON(t, app, http.MethodPatch, "/api/users/profile", token, fiber.Map{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "invalid_request", env["message"])
	})
}

func TestChangeMyPassword(t *testing.T) {
	app := newTestApp(t, newClassifierServer(t).URL)
	_, token := signupAndLogin(t, app, "rotator@example.com", "rotator")

	t.Run("wrong current password", func(t *testing.T) {
		resp, env := doJSON(t, app, http.MethodPatch, "/api/users/password", token, fiber.Map{
			"current_password": "Wrong1!pass",
			"new_password":     "Fresh1!pass",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "unauthorized", env["message"])
	})

	t.Run("weak new password", func(t *testing.T) {
		resp, env := doJSON(t, app, http.MethodPatch, "/api/users/password", token, fiber.Map{
			"current_password": testPassword,
			"new_password":     "weak",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "password", dataOf(t, env)["field"])
	})

	t.Run("rotates and the old password stops working", func(t *testing.T) {
		resp, env := doJSON(t, app, http.MethodPatch, "/api/users/password", token, fiber.Map{
			"current_password": testPassword,
			"new_password":     "Fresh1!pass",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "password_updated", env["message"])

		resp, _ = doJSON(t, app, http.MethodPost, "/api/users/login", "", fiber.Map{
			"email":    "rotator@example.com",
			"password": testPassword,
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodPost, "/api/users/login", "", fiber.Map{
			"email":    "rotator@example.com",
			"password": "Fresh1!pass",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
