package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"bloghub/internal/draft"
	"bloghub/internal/models"
	"bloghub/internal/repository"
	"bloghub/internal/richtext"
)

type PostService struct {
	postRepo repository.PostRepository
	tagRepo  repository.TagRepository
	isAdmin  func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	UserID       uint
	Title        string
	Content      string
	ThumbnailURL string
	CategoryID   *uint
	Tags         []string
	Status       string
}

type UpdatePostInput struct {
	UserID       uint
	PostID       uint
	Title        string
	Content      string
	ThumbnailURL string
	CategoryID   *uint
	Tags         []string
	Status       string
}

type ListPostsInput struct {
	Filter        repository.PostFilter
	Limit         int
	Offset        int
	CurrentUserID uint
	Sort          string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	tagRepo repository.TagRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo: postRepo,
		tagRepo:  tagRepo,
		isAdmin:  isAdmin,
	}
}

// validateTitle applies the title rules shared with the compose form.
func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLen {
		return models.NewValidationError("Title too long (max 100 characters)")
	}
	return nil
}

// validateContent checks that content is a well-formed rich document.
// Published posts must carry visible content; drafts may be empty.
func validateContent(content, status string) error {
	doc, err := richtext.Parse(content)
	if err != nil {
		if status == models.PostStatusDraft && strings.TrimSpace(content) == "" {
			return nil
		}
		return models.NewValidationError("Content is not a valid document")
	}
	if status == models.PostStatusPublished && doc.IsEmpty() {
		return models.NewValidationError("Content is required")
	}
	return nil
}

// normalizeTags cleans each label and drops case-insensitive duplicates,
// first spelling winning.
func normalizeTags(raw []string) ([]string, error) {
	var snap draft.Snapshot
	for _, label := range raw {
		if err := snap.AddTag(label); err != nil {
			if err == draft.ErrDuplicateTag {
				continue
			}
			return nil, models.NewValidationError(err.Error())
		}
	}
	return snap.Tags, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	status := in.Status
	if status == "" {
		status = models.PostStatusPublished
	}
	if !models.IsValidPostStatus(status) {
		return nil, models.NewValidationError("Invalid status")
	}
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validateContent(in.Content, status); err != nil {
		return nil, err
	}
	tags, err := normalizeTags(in.Tags)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:        in.Title,
		Slug:         models.Slugify(in.Title),
		Content:      in.Content,
		ThumbnailURL: in.ThumbnailURL,
		Status:       status,
		UserID:       in.UserID,
		CategoryID:   in.CategoryID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	if err := s.attachTags(ctx, post, tags); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) attachTags(ctx context.Context, post *models.Post, labels []string) error {
	if s.tagRepo == nil {
		return nil
	}
	tags, err := s.tagRepo.EnsureByNames(ctx, labels)
	if err != nil {
		return err
	}
	return s.postRepo.ReplaceTags(ctx, post, tags)
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

func (s *PostService) GetPostBySlug(ctx context.Context, slug string, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetBySlug(ctx, slug, currentUserID)
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, int64, error) {
	return s.postRepo.List(ctx, in.Filter, in.Limit, in.Offset, in.CurrentUserID, in.Sort)
}

func (s *PostService) SearchPosts(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, int64, error) {
	if strings.TrimSpace(query) == "" {
		return nil, 0, models.NewValidationError("Search query is required")
	}
	return s.postRepo.List(ctx, repository.PostFilter{
		Status: models.PostStatusPublished,
		Query:  query,
	}, limit, offset, currentUserID, "")
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	if post.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own posts")
	}

	if in.Status != "" {
		if !models.IsValidPostStatus(in.Status) {
			return nil, models.NewValidationError("Invalid status")
		}
		post.Status = in.Status
	}
	if in.Title != "" {
		if err := validateTitle(in.Title); err != nil {
			return nil, err
		}
		post.Title = in.Title
		post.Slug = models.Slugify(in.Title)
	}
	if in.Content != "" {
		if err := validateContent(in.Content, post.Status); err != nil {
			return nil, err
		}
		post.Content = in.Content
	}
	if in.ThumbnailURL != "" {
		post.ThumbnailURL = in.ThumbnailURL
	}
	if in.CategoryID != nil {
		post.CategoryID = in.CategoryID
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	if in.Tags != nil {
		tags, err := normalizeTags(in.Tags)
		if err != nil {
			return nil, err
		}
		if err := s.attachTags(ctx, post, tags); err != nil {
			return nil, err
		}
	}

	return s.postRepo.GetByID(ctx, in.PostID, in.UserID)
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}

	if post.UserID != in.UserID {
		if s.isAdmin == nil {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
	}

	return s.postRepo.Delete(ctx, in.PostID)
}

func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*models.Post, error) {
	isLiked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if isLiked {
		if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
			return nil, err
		}
	} else {
		if err := s.postRepo.Like(ctx, userID, postID); err != nil {
			return nil, err
		}
	}

	return s.postRepo.GetByID(ctx, postID, userID)
}

// PublishSnapshot persists a compose snapshot as a post: creating a new
// record, or updating the snapshot's edit target.
func (s *PostService) PublishSnapshot(ctx context.Context, userID uint, snap draft.Snapshot) (*models.Post, error) {
	if snap.EditTarget != 0 {
		return s.UpdatePost(ctx, UpdatePostInput{
			UserID:       userID,
			PostID:       snap.EditTarget,
			Title:        snap.Title,
			Content:      snap.Content,
			ThumbnailURL: snap.ThumbnailDataURI,
			CategoryID:   categoryIDPtr(snap.CategoryID),
			Tags:         snap.Tags,
			Status:       snap.Status,
		})
	}
	return s.CreatePost(ctx, CreatePostInput{
		UserID:       userID,
		Title:        snap.Title,
		Content:      snap.Content,
		ThumbnailURL: snap.ThumbnailDataURI,
		CategoryID:   categoryIDPtr(snap.CategoryID),
		Tags:         snap.Tags,
		Status:       snap.Status,
	})
}

func categoryIDPtr(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
