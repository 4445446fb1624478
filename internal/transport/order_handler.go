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

// OrderItemRequest is one line item in an order creation payload
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// ShippingAddressRequest is the destination for an order
type ShippingAddressRequest struct {
	Name       string `json:"name" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
	Phone      string `json:"phone"`
}

// CreateOrderRequest represents the order creation payload. Item names
// and prices are snapshotted server-side from the referenced products.
type CreateOrderRequest struct {
	UserID          string                 `json:"user_id" validate:"required,uuid"`
	Items           []OrderItemRequest     `json:"items" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address" validate:"required"`
	PaymentMethod   string                 `json:"payment_method" validate:"required"`
	Notes           string                 `json:"notes" validate:"max=2000"`
}

// OrderListResponse is the list envelope for orders.
type OrderListResponse struct {
	Orders     []*domain.Order   `json:"orders"`
	Pagination domain.Pagination `json:"pagination"`
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(adminOnly)
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)
		r.Post("/", h.Create)
	})
}

// List handles filtered, paginated order listing
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)
	filter, err := parseOrderFilter(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, pagination, err := h.orderService.List(r.Context(), filter, page)
	if err != nil {
		if isDegradable(err) {
			h.logger.Warn("Store unavailable, degrading order list", zap.Error(err))
			middleware.RespondWithJSON(w, http.StatusOK, OrderListResponse{
				Orders:     []*domain.Order{},
				Pagination: domain.PageOf(0, page),
			})
			return
		}

		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, OrderListResponse{
		Orders:     orders,
		Pagination: pagination,
	})
}

// GetByID handles fetching a single order with its line items
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orderService.GetByID(r.Context(), id)
	if err != nil {
		respondNotFoundOr(w, err, repository.ErrOrderNotFound, "failed to get order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// Create handles order creation
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Order validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id in items")
			return
		}
		items = append(items, service.OrderItemInput{ProductID: productID, Quantity: item.Quantity})
	}

	order, err := h.orderService.Create(r.Context(), service.CreateOrderInput{
		UserID: userID,
		Items:  items,
		ShippingAddress: domain.ShippingAddress{
			Name:       req.ShippingAddress.Name,
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			State:      req.ShippingAddress.State,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
			Phone:      req.ShippingAddress.Phone,
		},
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		h.logger.Error("Failed to create order", zap.Error(err))

		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			middleware.RespondWithError(w, http.StatusBadRequest, "user not found")
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusBadRequest, "product in items not found")
		case errors.Is(err, repository.ErrStoreUnavailable):
			middleware.RespondWithError(w, http.StatusServiceUnavailable, "store unavailable")
		default:
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create order")
		}
		return
	}

	h.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

func parseOrderFilter(r *http.Request) (repository.OrderFilter, error) {
	q := r.URL.Query()
	filter := repository.OrderFilter{}

	if user := q.Get("user"); user != "" {
		userID, err := uuid.Parse(user)
		if err != nil {
			return filter, errors.New("invalid user filter")
		}
		filter.UserID = &userID
	}

	switch status := domain.OrderStatus(q.Get("status")); status {
	case "":
	case domain.OrderPending, domain.OrderProcessing, domain.OrderShipped, domain.OrderDelivered, domain.OrderCancelled:
		filter.OrderStatus = status
	default:
		return filter, errors.New("invalid status filter")
	}

	switch payment := domain.PaymentStatus(q.Get("payment_status")); payment {
	case "":
	case domain.PaymentPending, domain.PaymentPaid, domain.PaymentFailed, domain.PaymentRefunded:
		filter.PaymentStatus = payment
	default:
		return filter, errors.New("invalid payment_status filter")
	}

	return filter, nil
}
