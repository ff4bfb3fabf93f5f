package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bloghub/internal/draft"
	"bloghub/internal/models"
	"bloghub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDocument = `{"ops":[{"insert":"Hello world\n"}]}`

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn      func(context.Context, *models.Post) error
	getByIDFn     func(context.Context, uint, uint) (*models.Post, error)
	getBySlugFn   func(context.Context, string, uint) (*models.Post, error)
	listFn        func(context.Context, repository.PostFilter, int, int, uint, string) ([]*models.Post, int64, error)
	updateFn      func(context.Context, *models.Post) error
	replaceTagsFn func(context.Context, *models.Post, []models.Tag) error
	deleteFn      func(context.Context, uint) error
	isLikedFn     func(context.Context, uint, uint) (bool, error)
	likeFn        func(context.Context, uint, uint) error
	unlikeFn      func(context.Context, uint, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) GetBySlug(ctx context.Context, slug string, currentUserID uint) (*models.Post, error) {
	return s.getBySlugFn(ctx, slug, currentUserID)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.PostFilter, limit, offset int, currentUserID uint, sort string) ([]*models.Post, int64, error) {
	return s.listFn(ctx, filter, limit, offset, currentUserID, sort)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) ReplaceTags(ctx context.Context, post *models.Post, tags []models.Tag) error {
	return s.replaceTagsFn(ctx, post, tags)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) error {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) error {
	return s.unlikeFn(ctx, userID, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:    func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:   func(_ context.Context, _, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		getBySlugFn: func(_ context.Context, _ string, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		listFn: func(_ context.Context, _ repository.PostFilter, _, _ int, _ uint, _ string) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		updateFn:      func(_ context.Context, _ *models.Post) error { return nil },
		replaceTagsFn: func(_ context.Context, _ *models.Post, _ []models.Tag) error { return nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
		isLikedFn:     func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		likeFn:        func(_ context.Context, _, _ uint) error { return nil },
		unlikeFn:      func(_ context.Context, _, _ uint) error { return nil },
	}
}

// tagRepoStub is a stub for repository.TagRepository.
type tagRepoStub struct {
	listFn          func(context.Context, int, int) ([]models.Tag, int64, error)
	getByNameFn     func(context.Context, string) (*models.Tag, error)
	ensureByNamesFn func(context.Context, []string) ([]models.Tag, error)
	deleteFn        func(context.Context, uint) error
}

func (s *tagRepoStub) List(ctx context.Context, limit, offset int) ([]models.Tag, int64, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *tagRepoStub) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	return s.getByNameFn(ctx, name)
}
func (s *tagRepoStub) EnsureByNames(ctx context.Context, names []string) ([]models.Tag, error) {
	return s.ensureByNamesFn(ctx, names)
}
func (s *tagRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopTagRepo() *tagRepoStub {
	return &tagRepoStub{
		listFn:      func(_ context.Context, _, _ int) ([]models.Tag, int64, error) { return nil, 0, nil },
		getByNameFn: func(_ context.Context, _ string) (*models.Tag, error) { return nil, nil },
		ensureByNamesFn: func(_ context.Context, names []string) ([]models.Tag, error) {
			tags := make([]models.Tag, len(names))
			for i, n := range names {
				tags[i] = models.Tag{Name: n}
			}
			return tags, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

func TestCreatePost_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input CreatePostInput
	}{
		{
			name:  "missing title",
			input: CreatePostInput{UserID: 1, Content: testDocument},
		},
		{
			name:  "whitespace title",
			input: CreatePostInput{UserID: 1, Title: "   ", Content: testDocument},
		},
		{
			name:  "title over limit",
			input: CreatePostInput{UserID: 1, Title: strings.Repeat("x", 101), Content: testDocument},
		},
		{
			name:  "malformed content",
			input: CreatePostInput{UserID: 1, Title: "Hello", Content: "{ops:"},
		},
		{
			name:  "published with empty content",
			input: CreatePostInput{UserID: 1, Title: "Hello", Content: `{"ops":[{"insert":"\n"}]}`},
		},
		{
			name:  "invalid status",
			input: CreatePostInput{UserID: 1, Title: "Hello", Content: testDocument, Status: "archived"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewPostService(noopPostRepo(), noopTagRepo(), nil)
			_, err := svc.CreatePost(context.Background(), tt.input)
			assertValidationError(t, err)
		})
	}
}

func TestCreatePost_TitleAtLimitAccepted(t *testing.T) {
	repo := noopPostRepo()
	var created *models.Post
	repo.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 7
		created = p
		return nil
	}
	svc := NewPostService(repo, noopTagRepo(), nil)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:  1,
		Title:   strings.Repeat("x", 100),
		Content: testDocument,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, models.PostStatusPublished, created.Status)
	assert.NotEmpty(t, created.Slug)
}

func TestCreatePost_DraftAllowsEmptyContent(t *testing.T) {
	svc := NewPostService(noopPostRepo(), noopTagRepo(), nil)
	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID: 1,
		Title:  "Work in progress",
		Status: models.PostStatusDraft,
	})
	require.NoError(t, err)
}

func TestCreatePost_NormalizesTags(t *testing.T) {
	tagRepo := noopTagRepo()
	var ensured []string
	tagRepo.ensureByNamesFn = func(_ context.Context, names []string) ([]models.Tag, error) {
		ensured = names
		return nil, nil
	}
	svc := NewPostService(noopPostRepo(), tagRepo, nil)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:  1,
		Title:   "Hello",
		Content: testDocument,
		Tags:    []string{"#Go", "go", "  testing  "},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "testing"}, ensured)
}

func TestCreatePost_RejectsOversizedTag(t *testing.T) {
	svc := NewPostService(noopPostRepo(), noopTagRepo(), nil)
	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:  1,
		Title:   "Hello",
		Content: testDocument,
		Tags:    []string{strings.Repeat("y", 51)},
	})
	assertValidationError(t, err)
}

func TestUpdatePost_OwnershipEnforced(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 2, Status: models.PostStatusPublished}, nil
	}
	svc := NewPostService(repo, noopTagRepo(), nil)

	_, err := svc.UpdatePost(context.Background(), UpdatePostInput{
		UserID: 1,
		PostID: 5,
		Title:  "New title",
	})
	assertUnauthorizedError(t, err)
}

func TestUpdatePost_ReplacesTagsOnlyWhenProvided(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 1, Status: models.PostStatusPublished}, nil
	}
	replaced := false
	repo.replaceTagsFn = func(_ context.Context, _ *models.Post, _ []models.Tag) error {
		replaced = true
		return nil
	}
	svc := NewPostService(repo, noopTagRepo(), nil)

	_, err := svc.UpdatePost(context.Background(), UpdatePostInput{
		UserID: 1, PostID: 5, Title: "Updated",
	})
	require.NoError(t, err)
	assert.False(t, replaced)

	_, err = svc.UpdatePost(context.Background(), UpdatePostInput{
		UserID: 1, PostID: 5, Tags: []string{"go"},
	})
	require.NoError(t, err)
	assert.True(t, replaced)
}

func TestDeletePost_AdminOverride(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 2}, nil
	}
	deleted := false
	repo.deleteFn = func(_ context.Context, _ uint) error {
		deleted = true
		return nil
	}

	adminCheck := func(_ context.Context, userID uint) (bool, error) {
		return userID == 99, nil
	}

	svc := NewPostService(repo, noopTagRepo(), adminCheck)

	err := svc.DeletePost(context.Background(), DeletePostInput{UserID: 1, PostID: 5})
	assertUnauthorizedError(t, err)
	assert.False(t, deleted)

	err = svc.DeletePost(context.Background(), DeletePostInput{UserID: 99, PostID: 5})
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestToggleLike(t *testing.T) {
	repo := noopPostRepo()
	liked := false
	repo.isLikedFn = func(_ context.Context, _, _ uint) (bool, error) { return liked, nil }
	repo.likeFn = func(_ context.Context, _, _ uint) error {
		liked = true
		return nil
	}
	repo.unlikeFn = func(_ context.Context, _, _ uint) error {
		liked = false
		return nil
	}
	svc := NewPostService(repo, noopTagRepo(), nil)

	_, err := svc.ToggleLike(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.True(t, liked)

	_, err = svc.ToggleLike(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestSearchPosts_RequiresQuery(t *testing.T) {
	svc := NewPostService(noopPostRepo(), noopTagRepo(), nil)
	_, _, err := svc.SearchPosts(context.Background(), "   ", 10, 0, 0)
	assertValidationError(t, err)
}

func TestSearchPosts_PublishedOnly(t *testing.T) {
	repo := noopPostRepo()
	var gotFilter repository.PostFilter
	repo.listFn = func(_ context.Context, filter repository.PostFilter, _, _ int, _ uint, _ string) ([]*models.Post, int64, error) {
		gotFilter = filter
		return nil, 0, nil
	}
	svc := NewPostService(repo, noopTagRepo(), nil)

	_, _, err := svc.SearchPosts(context.Background(), "golang", 10, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, gotFilter.Status)
	assert.Equal(t, "golang", gotFilter.Query)
}

func TestPublishSnapshot_CreatesWhenNoEditTarget(t *testing.T) {
	repo := noopPostRepo()
	var created *models.Post
	repo.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 11
		created = p
		return nil
	}
	svc := NewPostService(repo, noopTagRepo(), nil)

	_, err := svc.PublishSnapshot(context.Background(), 1, draft.Snapshot{
		Title:      "From compose",
		Content:    testDocument,
		CategoryID: 3,
		Status:     models.PostStatusPublished,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	require.NotNil(t, created.CategoryID)
	assert.Equal(t, uint(3), *created.CategoryID)
}

func TestPublishSnapshot_UpdatesEditTarget(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 1, Status: models.PostStatusPublished}, nil
	}
	var updated *models.Post
	repo.updateFn = func(_ context.Context, p *models.Post) error {
		updated = p
		return nil
	}
	svc := NewPostService(repo, noopTagRepo(), nil)

	_, err := svc.PublishSnapshot(context.Background(), 1, draft.Snapshot{
		Title:      "Edited",
		Content:    testDocument,
		Status:     models.PostStatusPublished,
		EditTarget: 8,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, uint(8), updated.ID)
	assert.Equal(t, "Edited", updated.Title)
}
