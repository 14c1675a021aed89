package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shelfview/shelfview/internal/cache"
	"github.com/shelfview/shelfview/internal/metrics"
	"github.com/shelfview/shelfview/internal/model"
)

// LibraryService builds the library list.
type LibraryService struct {
	catalog Catalog
	cache   CatalogCache
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewLibraryService creates a new LibraryService.
func NewLibraryService(c Catalog, opts Options) *LibraryService {
	opts = opts.withDefaults()
	return &LibraryService{
		catalog: c,
		cache:   opts.Cache,
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}
}

// ListLibraries returns every library in catalog order.
// A failed fetch is logged and yields an empty list; it never errors.
func (s *LibraryService) ListLibraries(ctx context.Context) []model.Library {
	if libraries, ok := s.fromCache(ctx); ok {
		return libraries
	}

	libraries, err := s.fetch(ctx)
	if err != nil {
		s.logger.Error("failed to load libraries",
			"request_id", requestID(ctx),
			"error", err,
		)
		s.metrics.IncLibraryListFallback()
		return []model.Library{}
	}

	return libraries
}

// FindBySlug looks the library up by slug. A failed fetch is logged at warn
// and reported as not found.
func (s *LibraryService) FindBySlug(ctx context.Context, slug string) (model.Library, bool) {
	libraries, ok := s.fromCache(ctx)
	if !ok {
		var err error
		libraries, err = s.fetch(ctx)
		if err != nil {
			s.logger.Warn("library lookup failed",
				"request_id", requestID(ctx),
				"slug", slug,
				"error", err,
			)
			return model.Library{}, false
		}
	}

	for _, lib := range libraries {
		if lib.Slug == slug {
			return lib, true
		}
	}
	return model.Library{}, false
}

func (s *LibraryService) fromCache(ctx context.Context) ([]model.Library, bool) {
	if s.cache == nil {
		return nil, false
	}

	libraries, err := s.cache.GetLibraries(ctx)
	switch {
	case err == nil:
		s.metrics.IncCacheHit()
		return libraries, true
	case errors.Is(err, cache.ErrCacheMiss):
		s.metrics.IncCacheMiss()
	default:
		s.metrics.IncCacheMiss()
		s.logger.Warn("libraries cache lookup failed", "error", err)
	}
	return nil, false
}

// fetch loads the libraries upstream and caches a successful result.
func (s *LibraryService) fetch(ctx context.Context) ([]model.Library, error) {
	start := time.Now()
	libraries, err := s.catalog.GetLibraries(ctx)
	observe(s.metrics, start, err)
	if err != nil {
		return nil, err
	}

	if libraries == nil {
		libraries = []model.Library{}
	}

	if s.cache != nil {
		if err := s.cache.SetLibraries(ctx, libraries); err != nil {
			s.logger.Warn("failed to cache libraries", "error", err)
		}
	}

	return libraries, nil
}
