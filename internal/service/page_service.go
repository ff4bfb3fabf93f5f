package service

import (
	"context"
	"unicode/utf8"

	"bloghub/internal/models"
	"bloghub/internal/repository"
)

type PageService struct {
	pageRepo repository.PageRepository
}

type CreatePageInput struct {
	Title     string
	Slug      string
	Body      string
	Published bool
}

type UpdatePageInput struct {
	Slug      string
	Title     string
	Body      string
	Published *bool
}

func NewPageService(pageRepo repository.PageRepository) *PageService {
	return &PageService{pageRepo: pageRepo}
}

const maxPageTitleLen = 200

func validatePageTitle(title string) error {
	if title == "" {
		return models.NewValidationError("Title is required")
	}
	if utf8.RuneCountInString(title) > maxPageTitleLen {
		return models.NewValidationError("Title too long (max 200 characters)")
	}
	return nil
}

func (s *PageService) CreatePage(ctx context.Context, in CreatePageInput) (*models.Page, error) {
	if err := validatePageTitle(in.Title); err != nil {
		return nil, err
	}
	if in.Body == "" {
		return nil, models.NewValidationError("Body is required")
	}

	page := &models.Page{
		Title:     in.Title,
		Slug:      in.Slug,
		Body:      in.Body,
		Published: in.Published,
	}
	if err := s.pageRepo.Create(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

// GetPage returns a page by slug. Unpublished pages are only visible to
// admins.
func (s *PageService) GetPage(ctx context.Context, slug string, isAdmin bool) (*models.Page, error) {
	page, err := s.pageRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !page.Published && !isAdmin {
		return nil, models.NewNotFoundError("Page", slug)
	}
	return page, nil
}

func (s *PageService) ListPages(ctx context.Context, isAdmin bool) ([]models.Page, error) {
	return s.pageRepo.List(ctx, !isAdmin)
}

func (s *PageService) UpdatePage(ctx context.Context, in UpdatePageInput) (*models.Page, error) {
	page, err := s.pageRepo.GetBySlug(ctx, in.Slug)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		if err := validatePageTitle(in.Title); err != nil {
			return nil, err
		}
		page.Title = in.Title
	}
	if in.Body != "" {
		page.Body = in.Body
	}
	if in.Published != nil {
		page.Published = *in.Published
	}

	if err := s.pageRepo.Update(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *PageService) DeletePage(ctx context.Context, slug string) error {
	page, err := s.pageRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.pageRepo.Delete(ctx, page.ID)
}
