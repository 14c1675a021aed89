package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shelfview/shelfview/internal/cache"
	"github.com/shelfview/shelfview/internal/catalog"
	"github.com/shelfview/shelfview/internal/metrics"
	"github.com/shelfview/shelfview/internal/model"
)

// BookService builds the book list of one library.
type BookService struct {
	catalog    Catalog
	normalizer *Normalizer
	cache      CatalogCache
	metrics    metrics.Recorder
	logger     *slog.Logger
}

// NewBookService creates a new BookService.
func NewBookService(c Catalog, normalizer *Normalizer, opts Options) *BookService {
	opts = opts.withDefaults()
	return &BookService{
		catalog:    c,
		normalizer: normalizer,
		cache:      opts.Cache,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
	}
}

// ListCopies returns the normalized copies held by the library, sorted by
// title. A response without an embedded collection yields an empty list.
//
// Errors: ErrInvalidSlug, ErrLibraryNotFound, or ErrCatalogUnavailable
// wrapping the upstream cause.
func (s *BookService) ListCopies(ctx context.Context, slug string) ([]model.Copy, error) {
	if !ValidSlug(slug) {
		return nil, ErrInvalidSlug
	}

	page, err := s.loadCopies(ctx, slug)
	if err != nil {
		return nil, err
	}

	return s.normalizer.Prepare(page), nil
}

// loadCopies resolves the raw copies page, cache first.
func (s *BookService) loadCopies(ctx context.Context, slug string) (*model.CopiesPage, error) {
	if s.cache != nil {
		if page, hit, err := s.fromCache(ctx, slug); hit {
			return page, err
		}
	}

	start := time.Now()
	page, err := s.catalog.GetCopiesByLibrarySlug(ctx, slug)
	observe(s.metrics, start, err)

	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			s.rememberMissing(ctx, slug)
			return nil, fmt.Errorf("%w: %s", ErrLibraryNotFound, slug)
		}
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	if s.cache != nil {
		if err := s.cache.SetCopies(ctx, slug, page); err != nil {
			s.logger.Warn("failed to cache copies", "slug", slug, "error", err)
		}
	}

	return page, nil
}

// fromCache answers from the cache when it can. hit is false on a miss or a
// cache failure, in which case the caller goes upstream. A negative entry is
// a hit that yields ErrLibraryNotFound.
func (s *BookService) fromCache(ctx context.Context, slug string) (*model.CopiesPage, bool, error) {
	missing, err := s.cache.IsNegativelyCached(ctx, slug)
	if err != nil {
		s.logger.Warn("negative cache lookup failed", "slug", slug, "error", err)
	} else if missing {
		s.metrics.IncCacheHit()
		return nil, true, fmt.Errorf("%w: %s", ErrLibraryNotFound, slug)
	}

	page, err := s.cache.GetCopies(ctx, slug)
	switch {
	case err == nil:
		s.metrics.IncCacheHit()
		return page, true, nil
	case errors.Is(err, cache.ErrCacheMiss):
		s.metrics.IncCacheMiss()
	default:
		s.metrics.IncCacheMiss()
		s.logger.Warn("copies cache lookup failed", "slug", slug, "error", err)
	}

	return nil, false, nil
}

func (s *BookService) rememberMissing(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetNegativeCache(ctx, slug); err != nil {
		s.logger.Warn("failed to set negative cache", "slug", slug, "error", err)
	}
}
