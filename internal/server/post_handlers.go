package server

import (
	"context"
	"log"
	"strings"

	"bloghub/internal/models"
	"bloghub/internal/repository"
	"bloghub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postRequest is the JSON body shared by create and update.
type postRequest struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"`
	CategoryID   *uint    `json:"category_id,omitempty"`
	Tags         []string `json:"tags"`
	Status       string   `json:"status,omitempty"`
}

// GetPosts handles GET /api/posts. Anonymous browsing only sees published
// posts; setting status=draft requires authentication and is scoped to the
// caller's own posts.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	filter := repository.PostFilter{
		Status:     models.PostStatusPublished,
		CategoryID: uint(c.QueryInt("category", 0)),
		Tag:        strings.TrimSpace(c.Query("tag")),
		UserID:     uint(c.QueryInt("author", 0)),
	}
	if c.Query("status") == models.PostStatusDraft && userID != 0 {
		filter.Status = models.PostStatusDraft
		filter.UserID = userID
	}

	posts, total, err := s.postService.ListPosts(ctx, service.ListPostsInput{
		Filter:        filter,
		Limit:         page.Limit,
		Offset:        page.Offset,
		CurrentUserID: userID,
		Sort:          c.Query("sort"),
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(listEnvelope(posts, total, page))
}

// SearchPosts handles GET /api/posts/search?q=...
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 10)
	userID, _ := s.optionalUserID(c)

	posts, total, err := s.postService.SearchPosts(ctx, c.Query("q"), page.Limit, page.Offset, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(listEnvelope(posts, total, page))
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	post, err := s.postService.GetPost(ctx, id, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	if post.Status == models.PostStatusDraft && post.UserID != userID {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", id))
	}

	return c.JSON(post)
}

// GetPostBySlug handles GET /api/posts/slug/:slug
func (s *Server) GetPostBySlug(c *fiber.Ctx) error {
	ctx := c.Context()
	slug := strings.TrimSpace(c.Params("slug"))
	userID, _ := s.optionalUserID(c)

	post, err := s.postService.GetPostBySlug(ctx, slug, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	if post.Status == models.PostStatusDraft && post.UserID != userID {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", slug))
	}

	return c.JSON(post)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	authorID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20)
	currentUserID, _ := s.optionalUserID(c)
	if uid, ok := c.Locals("userID").(uint); ok {
		currentUserID = uid
	}

	filter := repository.PostFilter{UserID: authorID}
	// Visitors only see the author's published posts.
	if currentUserID != authorID {
		filter.Status = models.PostStatusPublished
	}

	posts, total, err := s.postService.ListPosts(ctx, service.ListPostsInput{
		Filter:        filter,
		Limit:         page.Limit,
		Offset:        page.Offset,
		CurrentUserID: currentUserID,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(listEnvelope(posts, total, page))
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		UserID:       userID,
		Title:        req.Title,
		Content:      req.Content,
		ThumbnailURL: req.ThumbnailURL,
		CategoryID:   req.CategoryID,
		Tags:         req.Tags,
		Status:       req.Status,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	s.announcePublished(ctx, post)

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(ctx, service.UpdatePostInput{
		UserID:       userID,
		PostID:       postID,
		Title:        req.Title,
		Content:      req.Content,
		ThumbnailURL: req.ThumbnailURL,
		CategoryID:   req.CategoryID,
		Tags:         req.Tags,
		Status:       req.Status,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(ctx, service.DeletePostInput{
		UserID: userID,
		PostID: postID,
	}); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// LikePost handles POST /api/posts/:id/like. The endpoint toggles: liking
// an already-liked post removes the like.
func (s *Server) LikePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.ToggleLike(ctx, userID, postID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(post)
}

// announcePublished broadcasts a post-published event to connected readers.
func (s *Server) announcePublished(ctx context.Context, post *models.Post) {
	if s.notifier == nil || post == nil || post.Status != models.PostStatusPublished {
		return
	}
	if err := s.notifier.PublishPostPublished(ctx, post); err != nil {
		log.Printf("publish post event error: %v", err)
	}
}
