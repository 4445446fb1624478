package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shop-admin/internal/domain"
	"shop-admin/internal/repository"

	"github.com/google/uuid"
)

// CategoryInUseError blocks a category delete while products still
// reference it; Count is reported to the caller.
type CategoryInUseError struct {
	Count int
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("category is referenced by %d products", e.Count)
}

// CreateCategoryInput carries the fields for a new category.
type CreateCategoryInput struct {
	Label       string
	Value       string
	Description string
}

// CategoryPatch is a partial update: only non-nil fields change.
type CategoryPatch struct {
	Label       *string
	Value       *string
	Description *string
}

// CategoryService defines the interface for category business logic
type CategoryService interface {
	Create(ctx context.Context, input CreateCategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id uuid.UUID, patch CategoryPatch) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// Create persists a new category after checking the slug is unused. The
// unique index backstops the check.
func (s *categoryService) Create(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	existing, err := s.categoryRepo.FindByValue(ctx, input.Value)
	if err != nil && !errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, fmt.Errorf("failed to check existing category: %w", err)
	}
	if existing != nil {
		return nil, repository.ErrCategoryAlreadyExists
	}

	now := time.Now()
	category := &domain.Category{
		ID:          uuid.New(),
		Label:       input.Label,
		Value:       input.Value,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// Update merges the patch into the stored category. A changed value is
// checked for collisions excluding the category being updated.
func (s *categoryService) Update(ctx context.Context, id uuid.UUID, patch CategoryPatch) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Value != nil && *patch.Value != category.Value {
		existing, err := s.categoryRepo.FindByValue(ctx, *patch.Value)
		if err != nil && !errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, fmt.Errorf("failed to check existing category: %w", err)
		}
		if existing != nil && existing.ID != id {
			return nil, repository.ErrCategoryAlreadyExists
		}
		category.Value = *patch.Value
	}
	if patch.Label != nil {
		category.Label = *patch.Label
	}
	if patch.Description != nil {
		category.Description = *patch.Description
	}
	category.UpdatedAt = time.Now()

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// Delete removes a category unless products still reference it. The
// dependent count is read immediately before the delete decision.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := s.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &CategoryInUseError{Count: count}
	}

	return s.categoryRepo.Delete(ctx, id)
}

// GetByID retrieves a category by ID
func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

// List retrieves all categories
func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}
