package transport

import (
	"errors"
	"net/http"
	"regexp"

	"shop-admin/internal/middleware"
	"shop-admin/internal/repository"
	"shop-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// slugPattern constrains a category value: lowercase alphanumeric with
// single hyphens between runs.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// CreateCategoryRequest represents the category creation payload
type CreateCategoryRequest struct {
	Label       string `json:"label" validate:"required,min=2,max=100"`
	Value       string `json:"value" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateCategoryRequest is a partial update: only supplied fields change.
type UpdateCategoryRequest struct {
	Label       *string `json:"label" validate:"omitempty,min=2,max=100"`
	Value       *string `json:"value" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// CategoryHandler handles HTTP requests for category operations
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// RegisterRoutes registers all category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/categories", func(r chi.Router) {
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

// List returns all categories ordered by label. Degrades to an empty
// array when the store is unavailable.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		if isDegradable(err) {
			h.logger.Warn("Store unavailable, degrading category list", zap.Error(err))
			middleware.RespondWithJSON(w, http.StatusOK, []struct{}{})
			return
		}

		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// GetByID handles fetching a single category
func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	category, err := h.categoryService.GetByID(r.Context(), id)
	if err != nil {
		respondNotFoundOr(w, err, repository.ErrCategoryNotFound, "failed to get category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Create handles category creation
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Category validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !slugPattern.MatchString(req.Value) {
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
			{Field: "value", Message: "Must be lowercase letters, digits and hyphens"},
		})
		return
	}

	category, err := h.categoryService.Create(r.Context(), service.CreateCategoryInput{
		Label:       req.Label,
		Value:       req.Value,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error("Failed to create category", zap.Error(err))

		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			middleware.RespondWithConflict(w, "value", repository.ErrCategoryAlreadyExists.Error())
			return
		}
		if errors.Is(err, repository.ErrStoreUnavailable) {
			middleware.RespondWithError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}

		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	h.logger.Info("Category created", zap.String("category_id", category.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

// Update handles partial category updates
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req UpdateCategoryRequest
	if err := middleware.DecodeStrictAndValidate(r, &req); err != nil {
		h.logger.Debug("Category patch validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Value != nil && !slugPattern.MatchString(*req.Value) {
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
			{Field: "value", Message: "Must be lowercase letters, digits and hyphens"},
		})
		return
	}

	category, err := h.categoryService.Update(r.Context(), id, service.CategoryPatch{
		Label:       req.Label,
		Value:       req.Value,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error("Failed to update category", zap.Error(err))

		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			middleware.RespondWithConflict(w, "value", repository.ErrCategoryAlreadyExists.Error())
			return
		}

		respondNotFoundOr(w, err, repository.ErrCategoryNotFound, "failed to update category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Delete refuses to remove a category that products still reference,
// reporting how many.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		var inUse *service.CategoryInUseError
		if errors.As(err, &inUse) {
			middleware.RespondWithDependencyInUse(w, "cannot delete category that is in use", inUse.Count)
			return
		}

		respondNotFoundOr(w, err, repository.ErrCategoryNotFound, "failed to delete category")
		return
	}

	h.logger.Info("Category deleted", zap.String("category_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "category deleted successfully"})
}
