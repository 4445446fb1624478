package transport

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"shop-admin/internal/imagehost"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type stubUploader struct {
	url     string
	err     error
	gotName string
}

func (s *stubUploader) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	s.gotName = filename
	return s.url, s.err
}

func (s *stubUploader) Delete(ctx context.Context, url string) error { return s.err }

func uploadRequest(t *testing.T, field, filename string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	part.Write([]byte("fake image bytes"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newUploadRouter(uploader imagehost.Uploader) chi.Router {
	handler := NewUploadHandler(uploader, zap.NewNop())
	router := chi.NewRouter()
	handler.RegisterRoutes(router, noAuth)
	return router
}

func TestUploadHandler_Upload(t *testing.T) {
	uploader := &stubUploader{url: "https://cdn.example/e-commerce/widget.png"}
	router := newUploadRouter(uploader)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "file", "widget.png"))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[UploadResponse](t, rec)
	if resp.URL != uploader.url {
		t.Errorf("expected hosted URL, got %q", resp.URL)
	}
	if uploader.gotName != "widget.png" {
		t.Errorf("expected filename to reach the uploader, got %q", uploader.gotName)
	}
}

func TestUploadHandler_MissingFile(t *testing.T) {
	router := newUploadRouter(&stubUploader{url: "https://cdn.example/x.png"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "attachment", "widget.png"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing file part, got %d", rec.Code)
	}
}

func TestUploadHandler_Disabled(t *testing.T) {
	router := newUploadRouter(imagehost.Disabled{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "file", "widget.png"))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when hosting is disabled, got %d", rec.Code)
	}
}
