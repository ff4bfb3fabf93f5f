package server

import (
	"errors"

	"bloghub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten signals that a helper already wrote the error response
// and the handler should return nil.
var errResponseWritten = errors.New("response already written")

const maxPaginationLimit = 100

// Pagination carries the sanitized limit/offset pair for list endpoints.
type Pagination struct {
	Limit  int
	Offset int
}

// parsePagination reads limit/offset query parameters, clamping limit to
// [1, maxPaginationLimit] and offset to >= 0.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{Limit: limit, Offset: offset}
}

// parseID reads a positive integer route parameter. On failure it writes a
// 400 response and returns errResponseWritten so the caller can bail with nil.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id < 1 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param+" parameter"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// mapServiceError translates service-layer AppError codes into HTTP statuses.
func mapServiceError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case "VALIDATION_ERROR":
		return fiber.StatusBadRequest
	case "UNAUTHORIZED":
		return fiber.StatusForbidden
	case "NOT_FOUND":
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// listEnvelope is the response shape shared by paginated list endpoints.
func listEnvelope(data any, total int64, page Pagination) fiber.Map {
	return fiber.Map{
		"data":   data,
		"total":  total,
		"limit":  page.Limit,
		"offset": page.Offset,
	}
}
