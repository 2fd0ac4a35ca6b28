package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// newTestApp spins up the full HTTP surface against an in-process Redis.
func newTestApp(t *testing.T) (*fiber.App, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{
		JWTSecret: "test-secret-for-handlers",
		Port:      "8080",
		RedisURL:  mr.Addr(),
		Env:       "test",
	}

	srv := NewServerWithDeps(cfg, client)
	app := fiber.New()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)
	return app, mr
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
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
	return resp
}

// decodeData asserts the success envelope and unmarshals its data payload.
func decodeData(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success, "expected a success envelope")
	if out != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
}

// decodeError asserts the error envelope and returns its code.
func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	var envelope models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.False(t, envelope.Success, "expected an error envelope")
	return envelope.Code
}

// signupUser registers a user via the API and returns its token and ID.
func signupUser(t *testing.T, app *fiber.App, username string) (token, userID string) {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"username": username,
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var data struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeData(t, resp, &data)
	require.NotEmpty(t, data.Token)
	require.NotEmpty(t, data.User.ID)
	return data.Token, data.User.ID
}

// createPost creates a post via the API and returns it.
func createPost(t *testing.T, app *fiber.App, token, title, category string, tags []string) models.Post {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/posts/", token, fiber.Map{
		"title":    title,
		"content":  "content for " + title,
		"category": category,
		"tags":     tags,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var post models.Post
	decodeData(t, resp, &post)
	require.NotEmpty(t, post.ID)
	return post
}
