package transport

import (
	"context"
	"errors"
	"net/http"
	"time"

	"shop-admin/internal/domain"
	"shop-admin/internal/imagehost"
	"shop-admin/internal/middleware"
	"shop-admin/internal/repository"
	"shop-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateProductRequest represents the product creation payload. Status is
// accepted for compatibility with older dashboard clients but discarded:
// the server derives it from stock.
type CreateProductRequest struct {
	Name         string   `json:"name" validate:"required,min=2,max=100"`
	Description  string   `json:"description" validate:"max=2000"`
	Price        *float64 `json:"price" validate:"required,gte=0"`
	ComparePrice *float64 `json:"compare_price" validate:"omitempty,gte=0"`
	SKU          string   `json:"sku" validate:"max=100"`
	CategoryID   string   `json:"category_id" validate:"required,uuid"`
	Stock        *int     `json:"stock" validate:"required,gte=0"`
	Featured     bool     `json:"featured"`
	Status       string   `json:"status"`
	ImageURLs    []string `json:"image_urls" validate:"omitempty,dive,url"`
}

// UpdateProductRequest is a partial update: only supplied fields change.
// Status is likewise accepted and discarded.
type UpdateProductRequest struct {
	Name         *string   `json:"name" validate:"omitempty,min=2,max=100"`
	Description  *string   `json:"description" validate:"omitempty,max=2000"`
	Price        *float64  `json:"price" validate:"omitempty,gte=0"`
	ComparePrice *float64  `json:"compare_price" validate:"omitempty,gte=0"`
	SKU          *string   `json:"sku" validate:"omitempty,max=100"`
	CategoryID   *string   `json:"category_id" validate:"omitempty,uuid"`
	Stock        *int      `json:"stock" validate:"omitempty,gte=0"`
	Featured     *bool     `json:"featured"`
	Status       *string   `json:"status"`
	ImageURLs    *[]string `json:"image_urls" validate:"omitempty,dive,url"`
}

// ProductListResponse is the list envelope for products.
type ProductListResponse struct {
	Products   []*domain.Product `json:"products"`
	Pagination domain.Pagination `json:"pagination"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	productService service.ProductService
	images         imagehost.Uploader
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, images imagehost.Uploader, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		images:         images,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List handles filtered, paginated product listing. On store
// unavailability it degrades to an empty page so the dashboard keeps
// rendering.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)
	filter, err := parseProductFilter(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	products, pagination, err := h.productService.List(r.Context(), filter, page)
	if err != nil {
		if isDegradable(err) {
			h.logger.Warn("Store unavailable, degrading product list", zap.Error(err))
			middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
				Products:   []*domain.Product{},
				Pagination: domain.PageOf(0, page),
			})
			return
		}

		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products:   products,
		Pagination: pagination,
	})
}

// GetByID handles fetching a single product
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.productService.GetByID(r.Context(), id)
	if err != nil {
		respondNotFoundOr(w, err, repository.ErrProductNotFound, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	product, err := h.productService.Create(r.Context(), service.CreateProductInput{
		Name:         req.Name,
		Description:  req.Description,
		Price:        *req.Price,
		ComparePrice: req.ComparePrice,
		SKU:          req.SKU,
		CategoryID:   categoryID,
		Stock:        *req.Stock,
		Featured:     req.Featured,
		ImageURLs:    req.ImageURLs,
	})
	if err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))

		if errors.Is(err, repository.ErrCategoryNotFound) {
			middleware.RespondWithError(w, http.StatusBadRequest, "category not found")
			return
		}
		if errors.Is(err, repository.ErrStoreUnavailable) {
			middleware.RespondWithError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}

		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update handles partial product updates
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req UpdateProductRequest
	if err := middleware.DecodeStrictAndValidate(r, &req); err != nil {
		h.logger.Debug("Product patch validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := service.ProductPatch{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		ComparePrice: req.ComparePrice,
		SKU:          req.SKU,
		Stock:        req.Stock,
		Featured:     req.Featured,
		ImageURLs:    req.ImageURLs,
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
			return
		}
		patch.CategoryID = &categoryID
	}

	product, err := h.productService.Update(r.Context(), id, patch)
	if err != nil {
		h.logger.Error("Failed to update product", zap.Error(err))

		if errors.Is(err, repository.ErrCategoryNotFound) {
			middleware.RespondWithError(w, http.StatusBadRequest, "category not found")
			return
		}

		respondNotFoundOr(w, err, repository.ErrProductNotFound, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete handles product deletion, releasing hosted images best-effort
// after the record is gone.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.productService.Delete(r.Context(), id)
	if err != nil {
		respondNotFoundOr(w, err, repository.ErrProductNotFound, "failed to delete product")
		return
	}

	go h.releaseImages(product)

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted successfully"})
}

func (h *ProductHandler) releaseImages(product *domain.Product) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, url := range product.ImageURLs {
		if err := h.images.Delete(ctx, url); err != nil && !errors.Is(err, imagehost.ErrDisabled) {
			h.logger.Warn("Failed to delete hosted image",
				zap.String("url", url),
				zap.Error(err),
			)
		}
	}
}

func parseProductFilter(r *http.Request) (repository.ProductFilter, error) {
	q := r.URL.Query()
	filter := repository.ProductFilter{
		Search: q.Get("search"),
	}

	if category := q.Get("category"); category != "" {
		categoryID, err := uuid.Parse(category)
		if err != nil {
			return filter, errors.New("invalid category filter")
		}
		filter.CategoryID = &categoryID
	}

	switch status := q.Get("status"); status {
	case "":
	case string(domain.StatusInStock), string(domain.StatusLowStock), string(domain.StatusOutOfStock):
		filter.Status = domain.ProductStatus(status)
	default:
		return filter, errors.New("invalid status filter")
	}

	switch q.Get("featured") {
	case "":
	case "true":
		t := true
		filter.Featured = &t
	case "false":
		f := false
		filter.Featured = &f
	default:
		return filter, errors.New("invalid featured filter")
	}

	return filter, nil
}
