package transport

import (
	"errors"
	"io"
	"net/http"

	"shop-admin/internal/imagehost"
	"shop-admin/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// 10 MB cap on uploaded images
const maxUploadBytes = 10 << 20

// UploadResponse carries the hosted URL of an uploaded image.
type UploadResponse struct {
	URL string `json:"url"`
}

// UploadHandler handles image upload requests
type UploadHandler struct {
	uploader imagehost.Uploader
	logger   *zap.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploader imagehost.Uploader, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		uploader: uploader,
		logger:   logger,
	}
}

// RegisterRoutes registers the upload route
func (h *UploadHandler) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/upload", func(r chi.Router) {
		r.Use(adminOnly)
		r.Post("/", h.Upload)
	})
}

// Upload accepts a multipart form with a "file" part and returns the
// hosted image URL.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	url, err := h.uploader.Upload(r.Context(), data, header.Filename)
	if err != nil {
		if errors.Is(err, imagehost.ErrDisabled) {
			middleware.RespondWithError(w, http.StatusServiceUnavailable, "image hosting is not configured")
			return
		}

		h.logger.Error("Image upload failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadGateway, "image upload failed")
		return
	}

	h.logger.Info("Image uploaded", zap.String("filename", header.Filename))
	middleware.RespondWithJSON(w, http.StatusCreated, UploadResponse{URL: url})
}
