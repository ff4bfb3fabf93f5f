package server

import (
	"strings"

	"bloghub/internal/models"
	"bloghub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// callerIsAdmin resolves admin status for routes that are public but show
// extra content to admins.
func (s *Server) callerIsAdmin(c *fiber.Ctx) bool {
	if role, ok := c.Locals("userRole").(string); ok {
		return role == models.RoleAdmin
	}
	userID, ok := s.optionalUserID(c)
	if !ok {
		return false
	}
	admin, err := s.userService.IsAdmin(c.Context(), userID)
	return err == nil && admin
}

// GetPages handles GET /api/pages. Unpublished pages are only listed for admins.
func (s *Server) GetPages(c *fiber.Ctx) error {
	pages, err := s.pageService.ListPages(c.Context(), s.callerIsAdmin(c))
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(pages)
}

// GetPage handles GET /api/pages/:slug
func (s *Server) GetPage(c *fiber.Ctx) error {
	slug := strings.TrimSpace(c.Params("slug"))

	page, err := s.pageService.GetPage(c.Context(), slug, s.callerIsAdmin(c))
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(page)
}

// CreatePage handles POST /api/pages (admin only).
func (s *Server) CreatePage(c *fiber.Ctx) error {
	var req struct {
		Title     string `json:"title"`
		Slug      string `json:"slug"`
		Body      string `json:"body"`
		Published bool   `json:"published"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	page, err := s.pageService.CreatePage(c.Context(), service.CreatePageInput{
		Title:     req.Title,
		Slug:      req.Slug,
		Body:      req.Body,
		Published: req.Published,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(page)
}

// UpdatePage handles PUT /api/pages/:slug (admin only).
func (s *Server) UpdatePage(c *fiber.Ctx) error {
	slug := strings.TrimSpace(c.Params("slug"))

	var req struct {
		Title     string `json:"title"`
		Body      string `json:"body"`
		Published *bool  `json:"published,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	page, err := s.pageService.UpdatePage(c.Context(), service.UpdatePageInput{
		Slug:      slug,
		Title:     req.Title,
		Body:      req.Body,
		Published: req.Published,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(page)
}

// DeletePage handles DELETE /api/pages/:slug (admin only).
func (s *Server) DeletePage(c *fiber.Ctx) error {
	slug := strings.TrimSpace(c.Params("slug"))

	if err := s.pageService.DeletePage(c.Context(), slug); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
