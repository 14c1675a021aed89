// Package service turns catalog responses into the view-models rendered by
// the handlers.
package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"github.com/shelfview/shelfview/internal/catalog"
	"github.com/shelfview/shelfview/internal/metrics"
	"github.com/shelfview/shelfview/internal/middleware"
	"github.com/shelfview/shelfview/internal/model"
)

// Service errors.
var (
	ErrInvalidSlug        = errors.New("invalid library slug")
	ErrLibraryNotFound    = errors.New("library not found")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// Slug format: 1-128 chars, alphanumeric first, then alphanumeric, '.', '_' or '-'.
var slugRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidSlug reports whether slug is a well-formed library slug.
func ValidSlug(slug string) bool {
	return slugRegex.MatchString(slug)
}

// Catalog is the data-access collaborator.
type Catalog interface {
	GetCopiesByLibrarySlug(ctx context.Context, slug string) (*model.CopiesPage, error)
	GetLibraries(ctx context.Context) ([]model.Library, error)
}

// CatalogCache stores raw catalog responses. Misses are reported with
// cache.ErrCacheMiss.
type CatalogCache interface {
	GetCopies(ctx context.Context, slug string) (*model.CopiesPage, error)
	SetCopies(ctx context.Context, slug string, page *model.CopiesPage) error
	IsNegativelyCached(ctx context.Context, slug string) (bool, error)
	SetNegativeCache(ctx context.Context, slug string) error
	GetLibraries(ctx context.Context) ([]model.Library, error)
	SetLibraries(ctx context.Context, libraries []model.Library) error
}

// Options carries the optional collaborators shared by the services.
type Options struct {
	// Cache may be nil, in which case every request goes upstream.
	Cache   CatalogCache
	Metrics metrics.Recorder
	Logger  *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Metrics == nil {
		o.Metrics = metrics.NewNoop()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// observe records the outcome and duration of one catalog call.
func observe(recorder metrics.Recorder, start time.Time, err error) {
	recorder.ObserveCatalogDuration(time.Since(start))

	switch {
	case err == nil:
		recorder.IncCatalogRequest(metrics.OutcomeSuccess)
	case errors.Is(err, catalog.ErrNotFound):
		recorder.IncCatalogRequest(metrics.OutcomeNotFound)
	default:
		recorder.IncCatalogRequest(metrics.OutcomeError)
	}
}

func requestID(ctx context.Context) string {
	return middleware.GetRequestID(ctx)
}
