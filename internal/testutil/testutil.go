// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shelfview/shelfview/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// NewRedisClient connects to REDIS_URL or skips the test.
// The client is closed when the test ends.
func NewRedisClient(t testing.TB) *redis.Client {
	t.Helper()

	opt, err := redis.ParseURL(RequireEnv(t, "REDIS_URL"))
	if err != nil {
		t.Fatalf("parse REDIS_URL: %v", err)
	}

	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}

	return client
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// UniqueSlug generates a unique library slug for tests.
func UniqueSlug(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// ============================================================================
// Fakes
// ============================================================================

// FakeCatalog is an in-memory catalog collaborator.
type FakeCatalog struct {
	mu sync.Mutex

	Libraries    []model.Library
	LibrariesErr error

	Copies    map[string]*model.CopiesPage
	CopiesErr error

	PingErr error

	LibraryCalls int
	CopiesCalls  int
}

// GetLibraries returns the configured libraries or error.
func (f *FakeCatalog) GetLibraries(ctx context.Context) ([]model.Library, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LibraryCalls++
	if f.LibrariesErr != nil {
		return nil, f.LibrariesErr
	}
	return f.Libraries, nil
}

// GetCopiesByLibrarySlug returns the page configured for slug, or an empty
// page when none is configured.
func (f *FakeCatalog) GetCopiesByLibrarySlug(ctx context.Context, slug string) (*model.CopiesPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CopiesCalls++
	if f.CopiesErr != nil {
		return nil, f.CopiesErr
	}
	if page, ok := f.Copies[slug]; ok {
		return page, nil
	}
	return &model.CopiesPage{}, nil
}

// Ping returns PingErr.
func (f *FakeCatalog) Ping(ctx context.Context) error {
	return f.PingErr
}

// Calls returns the number of library and copies calls made so far.
func (f *FakeCatalog) Calls() (libraries, copies int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.LibraryCalls, f.CopiesCalls
}

// PageOf builds a copies page with an embedded collection.
func PageOf(copies ...model.Copy) *model.CopiesPage {
	return &model.CopiesPage{Embedded: &model.EmbeddedCopies{Copies: copies}}
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestCopy creates a copy with a title and nothing else.
func NewTestCopy(title string) model.Copy {
	return model.Copy{Title: title}
}

// NewTestLoanedCopy creates a copy whose last loan was made by email.
func NewTestLoanedCopy(title, email string) model.Copy {
	return model.Copy{
		Title:    title,
		LastLoan: &model.Loan{Email: email},
	}
}

// NewTestLibrary creates a library with sensible defaults.
func NewTestLibrary(id, name, slug string) model.Library {
	return model.Library{ID: model.ID(id), Name: name, Slug: slug}
}
