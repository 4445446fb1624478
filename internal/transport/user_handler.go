package transport

import (
	"errors"
	"net/http"

	"shop-admin/internal/domain"
	"shop-admin/internal/middleware"
	"shop-admin/internal/repository"
	"shop-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateUserRequest represents the user creation payload
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}

// CartItemRequest is one cart entry in an update payload
type CartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// UpdateUserRequest is a partial update. An absent or empty password
// leaves the stored hash untouched.
type UpdateUserRequest struct {
	Name     *string            `json:"name" validate:"omitempty,min=2,max=100"`
	Email    *string            `json:"email" validate:"omitempty,email"`
	Password *string            `json:"password" validate:"omitempty"`
	Role     *string            `json:"role" validate:"omitempty,oneof=user admin"`
	ImageURL *string            `json:"image_url" validate:"omitempty,url"`
	Cart     *[]CartItemRequest `json:"cart" validate:"omitempty,dive"`
}

// UpdateRoleRequest changes only a user's role
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// UserListResponse is the list envelope for users.
type UserListResponse struct {
	Users      []*domain.User    `json:"users"`
	Pagination domain.Pagination `json:"pagination"`
}

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers all user routes. The whole surface is
// admin-only: end users are managed, not self-served, here.
func (h *UserHandler) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/users", func(r chi.Router) {
		r.Use(adminOnly)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Patch("/{id}/role", h.UpdateRole)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles filtered, paginated user listing with the same
// degrade-to-empty policy as products.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)
	filter := repository.UserFilter{
		Role:   r.URL.Query().Get("role"),
		Search: r.URL.Query().Get("search"),
	}

	users, pagination, err := h.userService.List(r.Context(), filter, page)
	if err != nil {
		if isDegradable(err) {
			h.logger.Warn("Store unavailable, degrading user list", zap.Error(err))
			middleware.RespondWithJSON(w, http.StatusOK, UserListResponse{
				Users:      []*domain.User{},
				Pagination: domain.PageOf(0, page),
			})
			return
		}

		h.logger.Error("Failed to list users", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, UserListResponse{
		Users:      users,
		Pagination: pagination,
	})
}

// GetByID handles fetching a single user
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		respondNotFoundOr(w, err, repository.ErrUserNotFound, "failed to get user")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, user)
}

// Create handles user creation
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("User validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Create(r.Context(), service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		h.logger.Error("Failed to create user", zap.Error(err))

		if errors.Is(err, repository.ErrUserAlreadyExists) {
			middleware.RespondWithConflict(w, "email", repository.ErrUserAlreadyExists.Error())
			return
		}
		if errors.Is(err, repository.ErrStoreUnavailable) {
			middleware.RespondWithError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}

		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	h.logger.Info("User created", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, user)
}

// Update handles partial user updates
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req UpdateUserRequest
	if err := middleware.DecodeStrictAndValidate(r, &req); err != nil {
		h.logger.Debug("User patch validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := service.UserPatch{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		ImageURL: req.ImageURL,
	}
	if req.Cart != nil {
		cart := make([]domain.CartItem, 0, len(*req.Cart))
		for _, item := range *req.Cart {
			productID, err := uuid.Parse(item.ProductID)
			if err != nil {
				middleware.RespondWithError(w, http.StatusBadRequest, "invalid cart product id")
				return
			}
			cart = append(cart, domain.CartItem{ProductID: productID, Quantity: item.Quantity})
		}
		patch.Cart = &cart
	}

	user, err := h.userService.Update(r.Context(), id, patch)
	if err != nil {
		h.logger.Error("Failed to update user", zap.Error(err))

		if errors.Is(err, repository.ErrUserAlreadyExists) {
			middleware.RespondWithConflict(w, "email", repository.ErrUserAlreadyExists.Error())
			return
		}

		respondNotFoundOr(w, err, repository.ErrUserNotFound, "failed to update user")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, user)
}

// UpdateRole handles role-only updates
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req UpdateRoleRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.UpdateRole(r.Context(), id, req.Role)
	if err != nil {
		respondNotFoundOr(w, err, repository.ErrUserNotFound, "failed to update user role")
		return
	}

	h.logger.Info("User role updated",
		zap.String("user_id", id.String()),
		zap.String("role", req.Role),
	)
	middleware.RespondWithJSON(w, http.StatusOK, user)
}

// Delete handles user deletion
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		respondNotFoundOr(w, err, repository.ErrUserNotFound, "failed to delete user")
		return
	}

	h.logger.Info("User deleted", zap.String("user_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "user deleted successfully"})
}
