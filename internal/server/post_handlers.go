package server

import (
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListPosts returns posts matching the query filters (public; identity
// optional, used for is_liked / is_bookmarked flags and bookmarked-only).
func (s *Server) ListPosts(c *fiber.Ctx) error {
	var tags []string
	if raw := c.Query("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	opts := repository.ListOptions{
		Search:         c.Query("search"),
		Category:       c.Query("category"),
		Tags:           tags,
		BookmarkedOnly: c.QueryBool("bookmarked"),
		ViewerID:       callerID(c),
		SortBy:         c.Query("sort_by"),
		SortOrder:      c.Query("order"),
	}

	posts, err := s.postService.ListPosts(c.UserContext(), opts)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, posts)
}

// GetPost returns a single post with derived counts (public)
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return respondError(c, err)
	}

	post, err := s.postService.GetPost(c.UserContext(), id, callerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, post)
}

// CreatePost creates a new post (protected)
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title    string   `json:"title"`
		Content  string   `json:"content"`
		Category string   `json:"category"`
		Tags     []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		CallerID: callerID(c),
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
	})
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusCreated, post)
}

// UpdatePost updates a post's fields (owner or admin). Absent fields are
// left unchanged.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Title    *string   `json:"title"`
		Content  *string   `json:"content"`
		Category *string   `json:"category"`
		Tags     *[]string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		CallerID: callerID(c),
		PostID:   id,
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
	})
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, post)
}

// DeletePost deletes a post and all its indices (owner or admin)
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := s.postService.DeletePost(c.UserContext(), callerID(c), id); err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, fiber.Map{"id": id})
}

// SetLike toggles the caller's like on a post (protected, idempotent)
func (s *Server) SetLike(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Liked bool `json:"liked"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	likes, err := s.postService.SetLike(c.UserContext(), callerID(c), id, req.Liked)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, fiber.Map{
		"likes":    likes,
		"is_liked": req.Liked,
	})
}

// SetBookmark toggles the post in the caller's bookmark set (protected, idempotent)
func (s *Server) SetBookmark(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Bookmarked bool `json:"bookmarked"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.postService.SetBookmark(c.UserContext(), callerID(c), id, req.Bookmarked); err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, fiber.Map{
		"is_bookmarked": req.Bookmarked,
	})
}
