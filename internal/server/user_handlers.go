package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile returns the authenticated caller's profile (protected)
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.UserContext(), callerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, user)
}

// GetUserProfile returns a user's display name and role by ID (public)
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id := c.Params("id")
	user, err := s.userRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, user)
}
