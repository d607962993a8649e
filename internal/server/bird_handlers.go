package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetBirds handles GET /api/birds
func (s *Server) GetBirds(c *fiber.Ctx) error {
	birds, err := s.birdService.ListBirds(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(birds)
}

// GetBird handles GET /api/birds/:id
func (s *Server) GetBird(c *fiber.Ctx) error {
	birdID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	bird, err := s.birdService.GetBird(c.Context(), birdID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(bird)
}

// GetMyBirds handles GET /api/users/me/birds
func (s *Server) GetMyBirds(c *fiber.Ctx) error {
	birds, err := s.birdService.UserBirds(c.Context(), s.currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(birds)
}

// GetUserBirds handles GET /api/users/:id/birds
func (s *Server) GetUserBirds(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	birds, err := s.birdService.UserBirds(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(birds)
}
