package server

import (
	"fmt"
	"strings"

	"bloghub/internal/draft"
	"bloghub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// composeSessionKey scopes draft slots to the user, with an optional tab
// discriminator so two compose tabs do not clobber each other's drafts.
func composeSessionKey(userID uint, tab string) string {
	tab = strings.TrimSpace(tab)
	if tab == "" {
		tab = "default"
	}
	return fmt.Sprintf("user:%d:%s", userID, tab)
}

// composeSnapshotRequest is the JSON body carrying the compose form fields.
type composeSnapshotRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Thumbnail  string   `json:"thumbnail,omitempty"`
	CategoryID uint     `json:"category_id,omitempty"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status,omitempty"`
	EditTarget uint     `json:"edit_target,omitempty"`
	Tab        string   `json:"tab,omitempty"`
}

func (r composeSnapshotRequest) snapshot() draft.Snapshot {
	return draft.Snapshot{
		Title:            r.Title,
		Content:          r.Content,
		ThumbnailDataURI: r.Thumbnail,
		CategoryID:       r.CategoryID,
		Tags:             r.Tags,
		Status:           r.Status,
		EditTarget:       r.EditTarget,
	}
}

// EnterCompose handles GET /api/compose/session. It runs the mount
// transition: a pending draft slot wins over the edit source, and reading
// the slot consumes it.
// @Summary Open a compose session
// @Tags compose
// @Produce json
// @Param edit query int false "Post ID to edit"
// @Param tab query string false "Tab discriminator for concurrent sessions"
// @Success 200 {object} service.ComposeState
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /compose/session [get]
func (s *Server) EnterCompose(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	editTarget := uint(c.QueryInt("edit", 0))
	key := composeSessionKey(userID, c.Query("tab"))

	state, err := s.composeService.Enter(ctx, key, userID, editTarget)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(state)
}

// PreviewCompose handles POST /api/compose/preview. The submitted fields
// are validated against the preview gate; on success the snapshot is
// stashed in the draft slot so the editor survives the round trip.
// @Summary Preview a composed post
// @Tags compose
// @Accept json
// @Produce json
// @Success 200 {object} draft.PreviewPayload
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /compose/preview [post]
func (s *Server) PreviewCompose(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req composeSnapshotRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	key := composeSessionKey(userID, req.Tab)
	payload, err := s.composeService.Preview(ctx, key, userID, req.snapshot())
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(payload)
}

// PublishCompose handles POST /api/compose/publish. A snapshot with an
// edit target updates that post; otherwise a new post is created.
// @Summary Publish a composed post
// @Tags compose
// @Accept json
// @Produce json
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /compose/publish [post]
func (s *Server) PublishCompose(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req composeSnapshotRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.PublishSnapshot(ctx, userID, req.snapshot())
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	s.announcePublished(ctx, post)

	status := fiber.StatusOK
	if req.EditTarget == 0 {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(post)
}

// ValidateComposeTag handles POST /api/compose/tags. It applies the tag
// rules to a candidate against the current list, so the editor can reject
// bad input before submit.
func (s *Server) ValidateComposeTag(c *fiber.Ctx) error {
	var req struct {
		Tags []string `json:"tags"`
		Tag  string   `json:"tag"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tags, err := s.composeService.AddTag(req.Tags, req.Tag)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"tags": tags})
}
