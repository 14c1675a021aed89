package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelfview/shelfview/internal/middleware"
	"github.com/shelfview/shelfview/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page template names.
const (
	pageLibraries = "libraries.html"
	pageBooks     = "books.html"
)

// LibrariesPage is the data rendered by the library list page.
type LibrariesPage struct {
	Libraries []model.Library
}

// BooksPage is the data rendered by the book list page.
type BooksPage struct {
	LibraryName string
	Slug        string
	Copies      []model.Copy
	Error       string
}

// PageHandler renders the HTML screens.
type PageHandler struct {
	libraries LibraryLister
	books     CopyLister
	pages     map[string]*template.Template
	logger    *slog.Logger
}

// NewPageHandler parses the embedded templates and returns a PageHandler.
func NewPageHandler(libraries LibraryLister, books CopyLister, logger *slog.Logger) (*PageHandler, error) {
	pages, err := parsePages(templateFS, pageLibraries, pageBooks)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PageHandler{
		libraries: libraries,
		books:     books,
		pages:     pages,
		logger:    logger,
	}, nil
}

// parsePages builds one template set per page, each layered over base.html.
func parsePages(fsys fs.FS, names ...string) (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		tmpl, err := template.ParseFS(fsys, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

// Libraries renders the list of libraries.
// A failed catalog fetch renders an empty list.
//
// GET /
// GET /libraries
func (h *PageHandler) Libraries(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageLibraries, LibrariesPage{
		Libraries: h.libraries.ListLibraries(r.Context()),
	})
}

// Books renders the sorted, normalized copies of one library.
//
// GET /libraries/{library}
func (h *PageHandler) Books(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "library")
	data := BooksPage{LibraryName: slug, Slug: slug}

	copies, err := h.books.ListCopies(r.Context(), slug)
	if err != nil {
		status, _, message := copiesError(err)
		logCopiesError(h.logger, r, slug, status, err)
		data.Error = message
		h.render(w, r, status, pageBooks, data)
		return
	}

	if lib, ok := h.libraries.FindBySlug(r.Context(), slug); ok && lib.Name != "" {
		data.LibraryName = lib.Name
	}
	data.Copies = copies
	h.render(w, r, http.StatusOK, pageBooks, data)
}

// render executes the page into a buffer so a template failure can still
// produce a clean 500.
func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	tmpl, ok := h.pages[page]
	if !ok {
		h.logger.Error("unknown page template", "page", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		h.logger.Error("template render failed",
			"request_id", requestIDFrom(r),
			"page", page,
			"error", err,
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Static serves the embedded assets under /images.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

func requestIDFrom(r *http.Request) string {
	return middleware.GetRequestID(r.Context())
}
