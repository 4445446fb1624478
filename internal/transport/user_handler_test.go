package transport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shop-admin/internal/domain"
	"shop-admin/internal/middleware"
	"shop-admin/internal/repository"
	"shop-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type userHarness struct {
	router   chi.Router
	userRepo *mockUserRepository
}

func newUserHarness(t *testing.T) *userHarness {
	t.Helper()

	userRepo := newMockUserRepository()
	userService := service.NewUserService(userRepo)
	handler := NewUserHandler(userService, zap.NewNop())

	router := chi.NewRouter()
	handler.RegisterRoutes(router, noAuth)

	return &userHarness{router: router, userRepo: userRepo}
}

func (h *userHarness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
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

func TestUserHandler_Create_NeverLeaksPasswordHash(t *testing.T) {
	h := newUserHarness(t)

	rec := h.do(t, http.MethodPost, "/api/users", map[string]any{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "secret-password",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	if strings.Contains(body, "password") || strings.Contains(body, "$2a$") {
		t.Errorf("response must not carry password material: %s", body)
	}

	user := decodeBody[domain.User](t, rec)
	if user.Email != "alice@example.com" || user.Role != domain.RoleUser {
		t.Errorf("unexpected user: %+v", user)
	}

	// The hash exists in storage even though it never leaves the API
	stored := h.userRepo.users[user.ID]
	if stored.PasswordHash == "" || stored.PasswordHash == "secret-password" {
		t.Error("stored user should carry a bcrypt hash")
	}
}

func TestUserHandler_Create_Validation(t *testing.T) {
	h := newUserHarness(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing email", map[string]any{"name": "Alice", "password": "secret-password"}},
		{"bad email", map[string]any{"name": "Alice", "email": "nope", "password": "secret-password"}},
		{"short password", map[string]any{"name": "Alice", "email": "alice@example.com", "password": "short"}},
		{"bad role", map[string]any{"name": "Alice", "email": "alice@example.com", "password": "secret-password", "role": "owner"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := h.do(t, http.MethodPost, "/api/users", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestUserHandler_Create_EmailConflict(t *testing.T) {
	h := newUserHarness(t)

	h.do(t, http.MethodPost, "/api/users", map[string]any{
		"name": "Alice", "email": "alice@example.com", "password": "secret-password",
	})
	rec := h.do(t, http.MethodPost, "/api/users", map[string]any{
		"name": "Alice Two", "email": "ALICE@example.com", "password": "secret-password",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeBody[middleware.ErrorResponse](t, rec)
	if resp.Error.Details["field"] != "email" {
		t.Errorf("expected conflict on field email, got %v", resp.Error.Details)
	}
}

func TestUserHandler_Update_EmptyPasswordPreservesHash(t *testing.T) {
	h := newUserHarness(t)

	rec := h.do(t, http.MethodPost, "/api/users", map[string]any{
		"name": "Alice", "email": "alice@example.com", "password": "secret-password",
	})
	user := decodeBody[domain.User](t, rec)
	originalHash := h.userRepo.users[user.ID].PasswordHash

	rec = h.do(t, http.MethodPut, "/api/users/"+user.ID.String(), map[string]any{
		"name":     "Alice Updated",
		"password": "",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if h.userRepo.users[user.ID].PasswordHash != originalHash {
		t.Error("empty password must leave the stored hash untouched")
	}
	updated := decodeBody[domain.User](t, rec)
	if updated.Name != "Alice Updated" {
		t.Errorf("expected patched name, got %q", updated.Name)
	}
}

func TestUserHandler_Update_RejectsUnknownFields(t *testing.T) {
	h := newUserHarness(t)

	rec := h.do(t, http.MethodPost, "/api/users", map[string]any{
		"name": "Alice", "email": "alice@example.com", "password": "secret-password",
	})
	user := decodeBody[domain.User](t, rec)

	rec = h.do(t, http.MethodPut, "/api/users/"+user.ID.String(), map[string]any{
		"emial": "typo@example.com",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown field, got %d", rec.Code)
	}
}

func TestUserHandler_UpdateRole(t *testing.T) {
	h := newUserHarness(t)

	rec := h.do(t, http.MethodPost, "/api/users", map[string]any{
		"name": "Alice", "email": "alice@example.com", "password": "secret-password",
	})
	user := decodeBody[domain.User](t, rec)

	rec = h.do(t, http.MethodPatch, "/api/users/"+user.ID.String()+"/role", map[string]any{
		"role": "admin",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody[domain.User](t, rec)
	if updated.Role != domain.RoleAdmin {
		t.Errorf("expected admin role, got %q", updated.Role)
	}

	rec = h.do(t, http.MethodPatch, "/api/users/"+user.ID.String()+"/role", map[string]any{
		"role": "owner",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid role, got %d", rec.Code)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	h := newUserHarness(t)

	rec := h.do(t, http.MethodPost, "/api/users", map[string]any{
		"name": "Alice", "email": "alice@example.com", "password": "secret-password",
	})
	user := decodeBody[domain.User](t, rec)

	rec = h.do(t, http.MethodDelete, "/api/users/"+user.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec = h.do(t, http.MethodDelete, "/api/users/"+user.ID.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", rec.Code)
	}
	rec = h.do(t, http.MethodDelete, "/api/users/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", rec.Code)
	}
}

func TestUserHandler_List_DegradesWhenStoreUnavailable(t *testing.T) {
	h := newUserHarness(t)
	h.userRepo.failWith = repository.ErrStoreUnavailable

	rec := h.do(t, http.MethodGet, "/api/users", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected degraded 200, got %d", rec.Code)
	}

	resp := decodeBody[UserListResponse](t, rec)
	if resp.Users == nil || len(resp.Users) != 0 {
		t.Errorf("expected an empty users array, got %v", resp.Users)
	}
	if resp.Pagination.Total != 0 {
		t.Errorf("unexpected degraded pagination: %+v", resp.Pagination)
	}
}
