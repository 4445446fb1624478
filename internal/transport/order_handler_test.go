package transport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"shop-admin/internal/domain"
	"shop-admin/internal/repository"
	"shop-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type orderHarness struct {
	router    chi.Router
	orderRepo *mockOrderRepository
	user      *domain.User
	product   *domain.Product
}

func newOrderHarness(t *testing.T) *orderHarness {
	t.Helper()

	orderRepo := newMockOrderRepository()
	productRepo := newMockProductRepository()
	userRepo := newMockUserRepository()

	now := time.Now()
	user := &domain.User{
		ID:        uuid.New(),
		Name:      "Alice",
		Email:     "alice@example.com",
		Role:      domain.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	userRepo.users[user.ID] = user

	product := &domain.Product{
		ID:        uuid.New(),
		Name:      "Red Shirt",
		Price:     19.99,
		Stock:     10,
		Status:    domain.StatusInStock,
		ImageURLs: []string{"https://img.example/red.png"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	productRepo.products[product.ID] = product

	orderService := service.NewOrderService(orderRepo, productRepo, userRepo)
	handler := NewOrderHandler(orderService, zap.NewNop())

	router := chi.NewRouter()
	handler.RegisterRoutes(router, noAuth)

	return &orderHarness{router: router, orderRepo: orderRepo, user: user, product: product}
}

func (h *orderHarness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func validOrderBody(h *orderHarness) map[string]any {
	return map[string]any{
		"user_id": h.user.ID.String(),
		"items": []map[string]any{
			{"product_id": h.product.ID.String(), "quantity": 2},
		},
		"shipping_address": map[string]any{
			"name":        "Alice",
			"address":     "1 Main St",
			"city":        "Springfield",
			"state":       "IL",
			"postal_code": "62701",
			"country":     "US",
		},
		"payment_method": "card",
	}
}

func TestOrderHandler_Create(t *testing.T) {
	h := newOrderHarness(t)

	rec := h.do(t, http.MethodPost, "/api/orders", validOrderBody(h))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	order := decodeBody[domain.Order](t, rec)
	if !regexp.MustCompile(`^ORD-\d{8}-\d{4}$`).MatchString(order.OrderNumber) {
		t.Errorf("unexpected order number format: %q", order.OrderNumber)
	}
	if len(order.Items) != 1 || order.Items[0].Name != "Red Shirt" || order.Items[0].Price != 19.99 {
		t.Errorf("item snapshot missing: %+v", order.Items)
	}
	if order.TotalAmount != 2*19.99 {
		t.Errorf("expected total %.2f, got %.2f", 2*19.99, order.TotalAmount)
	}

	get := h.do(t, http.MethodGet, "/api/orders/"+order.ID.String(), nil)
	if get.Code != http.StatusOK {
		t.Errorf("expected 200 fetching created order, got %d", get.Code)
	}
}

func TestOrderHandler_Create_Validation(t *testing.T) {
	h := newOrderHarness(t)

	noItems := validOrderBody(h)
	noItems["items"] = []map[string]any{}
	rec := h.do(t, http.MethodPost, "/api/orders", noItems)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty items, got %d", rec.Code)
	}

	badQuantity := validOrderBody(h)
	badQuantity["items"] = []map[string]any{
		{"product_id": h.product.ID.String(), "quantity": 0},
	}
	rec = h.do(t, http.MethodPost, "/api/orders", badQuantity)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for zero quantity, got %d", rec.Code)
	}

	unknownUser := validOrderBody(h)
	unknownUser["user_id"] = uuid.NewString()
	rec = h.do(t, http.MethodPost, "/api/orders", unknownUser)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown user, got %d", rec.Code)
	}
}

func TestOrderHandler_List_FilterValidation(t *testing.T) {
	h := newOrderHarness(t)

	for _, path := range []string{
		"/api/orders?status=bogus",
		"/api/orders?payment_status=bogus",
		"/api/orders?user=not-a-uuid",
	} {
		rec := h.do(t, http.MethodGet, path, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, rec.Code)
		}
	}

	rec := h.do(t, http.MethodGet, "/api/orders?status=pending&payment_status=pending", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestOrderHandler_List_DegradesWhenStoreUnavailable(t *testing.T) {
	h := newOrderHarness(t)
	h.orderRepo.failWith = repository.ErrStoreUnavailable

	rec := h.do(t, http.MethodGet, "/api/orders", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected degraded 200, got %d", rec.Code)
	}

	resp := decodeBody[OrderListResponse](t, rec)
	if resp.Orders == nil || len(resp.Orders) != 0 {
		t.Errorf("expected an empty orders array, got %v", resp.Orders)
	}
}

func TestOrderHandler_GetByID_NotFound(t *testing.T) {
	h := newOrderHarness(t)

	rec := h.do(t, http.MethodGet, "/api/orders/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
