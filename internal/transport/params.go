package transport

import (
	"errors"
	"net/http"
	"strconv"

	"shop-admin/internal/domain"
	"shop-admin/internal/middleware"
	"shop-admin/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// parsePage reads page/limit query parameters. Non-numeric or out-of-range
// values silently fall back to defaults; list endpoints never reject a
// request over pagination input.
func parsePage(r *http.Request) domain.Page {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return domain.NewPage(page, limit)
}

// idParam parses the {id} route parameter.
func idParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// isDegradable reports whether a list read should degrade to an empty
// result instead of failing.
func isDegradable(err error) bool {
	return errors.Is(err, repository.ErrStoreUnavailable)
}

// respondNotFoundOr maps the common tail of mutation errors: a known
// not-found sentinel becomes 404, store unavailability 503, anything else
// the given fallback message as 500.
func respondNotFoundOr(w http.ResponseWriter, err error, notFound error, fallback string) {
	switch {
	case errors.Is(err, notFound):
		middleware.RespondWithError(w, http.StatusNotFound, notFound.Error())
	case errors.Is(err, repository.ErrStoreUnavailable):
		middleware.RespondWithError(w, http.StatusServiceUnavailable, "store unavailable")
	default:
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
