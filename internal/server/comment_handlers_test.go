package server

import (
	"fmt"
	"net/http"
	"testing"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentFlow(t *testing.T) {
	app, _ := newTestApp(t)
	authorToken, _ := signupUser(t, app, "alice")
	readerToken, readerID := signupUser(t, app, "bob")

	post := createPost(t, app, authorToken, "Discuss", models.CategoryDiscussion, nil)

	for i := 0; i < 3; i++ {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/"+post.ID+"/comments", readerToken, fiber.Map{
			"content": fmt.Sprintf("reply %d", i),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var comment models.Comment
		decodeData(t, resp, &comment)
		assert.Equal(t, post.ID, comment.PostID)
		assert.Equal(t, readerID, comment.AuthorID)
		assert.Equal(t, "bob", comment.AuthorName)
	}

	// Comments come back in insertion order, no auth needed.
	resp := doJSON(t, app, http.MethodGet, "/api/posts/"+post.ID+"/comments", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var comments []models.Comment
	decodeData(t, resp, &comments)
	require.Len(t, comments, 3)
	for i, comment := range comments {
		assert.Equal(t, fmt.Sprintf("reply %d", i), comment.Content)
	}

	// The derived comment count shows up on the post.
	resp = doJSON(t, app, http.MethodGet, "/api/posts/"+post.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got models.Post
	decodeData(t, resp, &got)
	assert.Equal(t, 3, got.Comments)
}

func TestCreateCommentRequiresAuth(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := signupUser(t, app, "alice")
	post := createPost(t, app, token, "T", models.CategoryGeneral, nil)

	resp := doJSON(t, app, http.MethodPost, "/api/posts/"+post.ID+"/comments", "", fiber.Map{
		"content": "anon",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestCommentsOnMissingPost(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := signupUser(t, app, "alice")

	resp := doJSON(t, app, http.MethodGet, "/api/posts/ghost/comments", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, models.CodeNotFound, decodeError(t, resp))

	resp = doJSON(t, app, http.MethodPost, "/api/posts/ghost/comments", token, fiber.Map{
		"content": "into the void",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateCommentValidation(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := signupUser(t, app, "alice")
	post := createPost(t, app, token, "T", models.CategoryGeneral, nil)

	resp := doJSON(t, app, http.MethodPost, "/api/posts/"+post.ID+"/comments", token, fiber.Map{
		"content": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.CodeValidation, decodeError(t, resp))
}
