package server

import (
	"io"
	"strings"

	"bloghub/internal/models"
	"bloghub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadImage handles POST /api/images/upload. With thumbnail=true the
// response carries an inline value suitable for the compose thumbnail
// field: small images come back as a data URI, larger ones are stored and
// referenced by URL.
func (s *Server) UploadImage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	file, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}

	in := service.UploadImageInput{
		UserID:      userID,
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Content:     content,
	}

	if c.QueryBool("thumbnail") {
		thumbnail, err := s.imageService.InlineThumbnail(in)
		if err != nil {
			return models.RespondWithError(c, mapServiceError(err), err)
		}
		return c.JSON(fiber.Map{"thumbnail": thumbnail})
	}

	uploaded, err := s.imageService.Upload(in)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(uploaded)
}

// ServeImage handles GET /media/i/:hash/master.:format
func (s *Server) ServeImage(c *fiber.Ctx) error {
	hash := strings.TrimSpace(c.Params("hash"))
	format := strings.TrimSpace(c.Params("format"))

	path, err := s.imageService.ResolveForServing(hash, format)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	// Content-addressed path, safe to cache aggressively.
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
	return c.SendFile(path)
}
