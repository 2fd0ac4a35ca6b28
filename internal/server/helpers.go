package server

import (
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/store"

	"github.com/gofiber/fiber/v2"
)

// respondError maps application errors onto HTTP statuses and writes the
// tagged error envelope. Store failures surface as a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		status := fiber.StatusInternalServerError
		switch appErr.Code {
		case models.CodeValidation:
			status = fiber.StatusBadRequest
		case models.CodeUnauthenticated:
			status = fiber.StatusUnauthorized
		case models.CodeForbidden:
			status = fiber.StatusForbidden
		case models.CodeNotFound:
			status = fiber.StatusNotFound
		case models.CodeConflict:
			status = fiber.StatusConflict
		}
		return models.RespondWithError(c, status, appErr)
	}
	if errors.Is(err, store.ErrStoreUnavailable) {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewStoreUnavailableError(err))
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}

// callerID returns the authenticated caller identity, or "" for anonymous
// requests.
func callerID(c *fiber.Ctx) string {
	if id, ok := c.Locals("userID").(string); ok {
		return id
	}
	return ""
}

// postID extracts the :id route parameter. Fiber guarantees it is non-empty
// on matched routes; the check guards group edge cases.
func postID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if id == "" {
		return "", models.NewValidationError("Invalid post ID")
	}
	return id, nil
}
