package service

import (
	"context"
	"fmt"
	"time"

	"shop-admin/internal/domain"
	"shop-admin/internal/repository"

	"github.com/google/uuid"
)

// CreateProductInput carries the fields a caller may set when creating a
// product. Status is absent on purpose: it is derived from stock, and any
// client-supplied value is discarded at the transport boundary.
type CreateProductInput struct {
	Name         string
	Description  string
	Price        float64
	ComparePrice *float64
	SKU          string
	CategoryID   uuid.UUID
	Stock        int
	Featured     bool
	ImageURLs    []string
}

// ProductPatch is a partial update: only non-nil fields change.
type ProductPatch struct {
	Name         *string
	Description  *string
	Price        *float64
	ComparePrice *float64
	SKU          *string
	CategoryID   *uuid.UUID
	Stock        *int
	Featured     *bool
	ImageURLs    *[]string
}

// ProductService defines the interface for product business logic
type ProductService interface {
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, patch ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter repository.ProductFilter, page domain.Page) ([]*domain.Product, domain.Pagination, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// Create persists a new product with its status derived from stock.
func (s *productService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	imageURLs := input.ImageURLs
	if imageURLs == nil {
		imageURLs = []string{}
	}

	now := time.Now()
	product := &domain.Product{
		ID:           uuid.New(),
		Name:         input.Name,
		Description:  input.Description,
		Price:        input.Price,
		ComparePrice: input.ComparePrice,
		SKU:          input.SKU,
		CategoryID:   input.CategoryID,
		Stock:        input.Stock,
		Status:       domain.StatusForStock(input.Stock),
		Featured:     input.Featured,
		ImageURLs:    imageURLs,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// Update merges the patch into the stored product. Status is re-derived
// whenever the patch carries stock.
func (s *productService) Update(ctx context.Context, id uuid.UUID, patch ProductPatch) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.ComparePrice != nil {
		product.ComparePrice = patch.ComparePrice
	}
	if patch.SKU != nil {
		product.SKU = *patch.SKU
	}
	if patch.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *patch.CategoryID
	}
	if patch.Stock != nil {
		product.Stock = *patch.Stock
		product.Status = domain.StatusForStock(*patch.Stock)
	}
	if patch.Featured != nil {
		product.Featured = *patch.Featured
	}
	if patch.ImageURLs != nil {
		product.ImageURLs = *patch.ImageURLs
	}
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Delete removes a product and returns the deleted record so the caller
// can release its images.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	return product, nil
}

// GetByID retrieves a product by ID
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// List returns a filtered product page with its pagination block.
func (s *productService) List(ctx context.Context, filter repository.ProductFilter, page domain.Page) ([]*domain.Product, domain.Pagination, error) {
	products, total, err := s.productRepo.List(ctx, filter, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	return products, domain.PageOf(total, page), nil
}
