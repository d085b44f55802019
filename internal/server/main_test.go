package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agora/internal/config"
	"agora/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "Password1!"

// newClassifierServer fakes the inference endpoint. Text containing the
// word "hateful" scores as toxic, everything else as benign.
func newClassifierServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Inputs string `json:"inputs"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		label, score := "LABEL_0", 0.97
		if strings.Contains(req.Inputs, "hateful") {
			label, score = "LABEL_1", 0.99
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `[[{"label":%q,"score":%v}]]`, label, score)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newTestApp wires a full server over an in-memory database with no
// Redis. Rate limits are bypassed via APP_ENV.
func newTestApp(t *testing.T, classifierURL string) *fiber.App {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Port:                 "8080",
		Env:                  "test",
		JWTSecret:            "integration-test-secret-key-0123456789",
		ModerationURL:        classifierURL,
		ModerationToxicLabel: "LABEL_1",
		ModerationThreshold:  0.7,
		RateLimitMode:        "fail_open",
	}

	s, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// doJSON performs a request and decodes the envelope body.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var envelope map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func dataOf(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok, "envelope data is not an object: %v", envelope["data"])
	return data
}

// signupAndLogin registers a user through the API and returns its ID and
// a bearer token.
func signupAndLogin(t *testing.T, app *fiber.App, email, nickname string) (uint, string) {
	t.Helper()

	resp, env := doJSON(t, app, http.MethodPost, "/api/users/signup", "", fiber.Map{
		"email":    email,
		"password": testPassword,
		"nickname": nickname,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "signup failed: %v", env)
	userID := uint(dataOf(t, env)["user_id"].(float64))

	resp, env = doJSON(t, app, http.MethodPost, "/api/users/login", "", fiber.Map{
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "login failed: %v", env)
	token := dataOf(t, env)["token"].(string)

	return userID, token
}

// createPost publishes a benign post and returns its ID.
func createPost(t *testing.T, app *fiber.App, token, title string) uint {
	t.Helper()
	resp, env := doJSON(t, app, http.MethodPost, "/api/posts", token, fiber.Map{
		"title": title,
		"body":  "some friendly body text",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "create post failed: %v", env)
	return uint(dataOf(t, env)["post_id"].(float64))
}
