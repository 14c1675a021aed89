package handler

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/shelfview/shelfview/internal/avatar"
	"github.com/shelfview/shelfview/internal/service"
	"github.com/shelfview/shelfview/internal/testutil"
)

// newTestRouter wires the page and API handlers over a fake catalog the same
// way the server does.
func newTestRouter(t *testing.T, fc *testutil.FakeCatalog) http.Handler {
	t.Helper()

	logger := testutil.DiscardLogger()
	opts := service.Options{Logger: logger}
	libraries := service.NewLibraryService(fc, opts)
	normalizer := service.NewNormalizer(avatar.NewGravatar("", 0, ""), service.DefaultNoImagePath, language.English)
	books := service.NewBookService(fc, normalizer, opts)

	pages, err := NewPageHandler(libraries, books, logger)
	if err != nil {
		t.Fatalf("NewPageHandler: %v", err)
	}
	api := NewAPIHandler(libraries, books, logger)

	r := chi.NewRouter()
	r.Get("/", pages.Libraries)
	r.Get("/libraries", pages.Libraries)
	r.Get("/libraries/{library}", pages.Books)
	r.Get("/api/libraries", api.ListLibraries)
	r.Get("/api/libraries/{library}/copies", api.ListCopies)
	r.Handle("/images/*", Static())
	return r
}
