// Package handler provides HTTP request handlers.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shelfview/shelfview/internal/handler/dto"
	"github.com/shelfview/shelfview/internal/model"
	"github.com/shelfview/shelfview/internal/service"
)

// LibraryLister is the library side of the catalog as seen by handlers.
type LibraryLister interface {
	ListLibraries(ctx context.Context) []model.Library
	FindBySlug(ctx context.Context, slug string) (model.Library, bool)
}

// CopyLister returns the prepared copies of one library.
type CopyLister interface {
	ListCopies(ctx context.Context, slug string) ([]model.Copy, error)
}

// Handler serves fallback responses shared by every route.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}

// copiesError maps a BookService error to a status, an error code and a
// message suitable for end users.
func copiesError(err error) (int, string, string) {
	switch {
	case errors.Is(err, service.ErrInvalidSlug):
		return http.StatusBadRequest, "INVALID_LIBRARY", "Invalid library identifier"
	case errors.Is(err, service.ErrLibraryNotFound):
		return http.StatusNotFound, "LIBRARY_NOT_FOUND", "Library not found"
	case errors.Is(err, service.ErrCatalogUnavailable):
		return http.StatusBadGateway, "CATALOG_UNAVAILABLE", "The catalog is currently unavailable. Please try again later."
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred"
	}
}

// logCopiesError logs failures that are not the caller's fault.
func logCopiesError(logger *slog.Logger, r *http.Request, slug string, status int, err error) {
	if status < http.StatusInternalServerError {
		return
	}
	logger.Error("failed to load copies",
		"request_id", requestIDFrom(r),
		"library", slug,
		"status", status,
		"error", err,
	)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
