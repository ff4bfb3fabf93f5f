package service

import (
	"context"

	"bloghub/internal/models"
	"bloghub/internal/repository"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

type CreateCategoryInput struct {
	Name     string
	ParentID *uint
}

type UpdateCategoryInput struct {
	CategoryID uint
	Name       string
}

func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategory adds a category to the taxonomy. The taxonomy is two
// levels deep, so a parent must itself be a top-level category.
func (s *CategoryService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}

	if in.ParentID != nil {
		parent, err := s.categoryRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.ParentID != nil {
			return nil, models.NewValidationError("Categories can only nest one level deep")
		}
	}

	category := &models.Category{
		Name:     in.Name,
		ParentID: in.ParentID,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *CategoryService) Tree(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.Tree(ctx)
}

func (s *CategoryService) UpdateCategory(ctx context.Context, in UpdateCategoryInput) (*models.Category, error) {
	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}

	category, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	category.Name = in.Name
	category.Slug = models.Slugify(in.Name)
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category. Children keep their rows but become
// unreachable through the tree, and posts keep their category id; label
// resolution simply comes up empty for them.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}
