package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelfview/shelfview/internal/handler/dto"
)

// APIHandler exposes the prepared catalog views as JSON.
type APIHandler struct {
	libraries LibraryLister
	books     CopyLister
	logger    *slog.Logger
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(libraries LibraryLister, books CopyLister, logger *slog.Logger) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIHandler{libraries: libraries, books: books, logger: logger}
}

// ListLibraries returns all libraries, or an empty list when the catalog
// cannot be reached.
//
// GET /api/libraries
func (h *APIHandler) ListLibraries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.LibraryListResponse{
		Data: h.libraries.ListLibraries(r.Context()),
	})
}

// ListCopies returns the sorted, normalized copies of one library.
//
// GET /api/libraries/{library}/copies
func (h *APIHandler) ListCopies(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "library")

	copies, err := h.books.ListCopies(r.Context(), slug)
	if err != nil {
		status, code, message := copiesError(err)
		logCopiesError(h.logger, r, slug, status, err)
		writeError(w, status, code, message)
		return
	}

	writeJSON(w, http.StatusOK, dto.CopyListResponse{
		Library: slug,
		Data:    copies,
	})
}
