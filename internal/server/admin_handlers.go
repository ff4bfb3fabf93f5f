package server

import (
	"errors"
	"strings"

	"bloghub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetSiteStats handles GET /api/admin/stats.
func (s *Server) GetSiteStats(c *fiber.Ctx) error {
	stats, err := s.statsRepo.SiteStats(c.Context())
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(stats)
}

// GetFeatureFlags returns configured feature flags and evaluated state for current user.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	if s.featureFlags == nil {
		return c.JSON(fiber.Map{
			"raw":       map[string]string{},
			"evaluated": map[string]bool{},
		})
	}

	return c.JSON(fiber.Map{
		"raw":       s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(userID),
	})
}

// BroadcastNotice handles POST /api/admin/notice. The message fans out to
// every connected WebSocket client.
func (s *Server) BroadcastNotice(c *fiber.Ctx) error {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Message is required"))
	}

	if s.notifier == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(errors.New("live events unavailable")))
	}

	if err := s.notifier.PublishAdminNotice(c.Context(), req.Message); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.SendStatus(fiber.StatusAccepted)
}
