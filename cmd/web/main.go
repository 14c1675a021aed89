// Package main is the entrypoint for the Shelfview web server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/shelfview/shelfview/internal/avatar"
	"github.com/shelfview/shelfview/internal/cache"
	"github.com/shelfview/shelfview/internal/catalog"
	"github.com/shelfview/shelfview/internal/config"
	"github.com/shelfview/shelfview/internal/handler"
	"github.com/shelfview/shelfview/internal/metrics"
	"github.com/shelfview/shelfview/internal/middleware"
	"github.com/shelfview/shelfview/internal/server"
	"github.com/shelfview/shelfview/internal/service"
)

// redisConnectTimeout bounds the startup connection attempt to Redis.
const redisConnectTimeout = 5 * time.Second

func main() {
	if err := config.LoadDotenv(); err != nil {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	catalogClient, err := catalog.New(cfg.CatalogAPIURL, catalog.Options{
		Timeout:     cfg.CatalogTimeout,
		MaxAttempts: cfg.CatalogMaxAttempts,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to create catalog client",
			slog.String("error", sanitizeError(err, cfg.CatalogAPIURL)),
			slog.String("catalog_url", redactURL(cfg.CatalogAPIURL)),
		)
		os.Exit(1)
	}

	recorder := metrics.NewInMemory()
	cacheClient := connectCache(cfg, logger)

	// A nil *cache.Cache must not reach the services as a non-nil interface.
	opts := service.Options{Metrics: recorder, Logger: logger}
	var readiness handler.HealthChecker
	if cacheClient != nil {
		opts.Cache = cacheClient
		readiness = cacheClient
	}

	normalizer := service.NewNormalizer(
		avatar.NewGravatar(cfg.AvatarBaseURL, cfg.AvatarSize, cfg.AvatarDefault),
		cfg.NoImagePath,
		cfg.Locale(),
	)
	libraryService := service.NewLibraryService(catalogClient, opts)
	bookService := service.NewBookService(catalogClient, normalizer, opts)

	pageHandler, err := handler.NewPageHandler(libraryService, bookService, logger)
	if err != nil {
		logger.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	handlers := routeHandlers{
		base:    handler.New(),
		health:  handler.NewHealthHandler(catalogClient, readiness, logger),
		metrics: handler.NewMetricsHandler(recorder),
		pages:   pageHandler,
		api:     handler.NewAPIHandler(libraryService, bookService, logger),
	}

	srv := server.New(setupRouter(handlers, cfg, logger), server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          logger,
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(ctx context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"catalog_url", redactURL(cfg.CatalogAPIURL),
		"cache_enabled", cacheClient != nil,
		"sort_locale", cfg.Locale().String(),
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// connectCache returns a Redis cache, or nil when caching is disabled or
// Redis cannot be reached at startup.
func connectCache(cfg *config.Config, logger *slog.Logger) *cache.Cache {
	if !cfg.CacheEnabled() {
		logger.Info("response cache disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
	defer cancel()

	c, err := cache.New(ctx, cfg.RedisURL, cache.Options{
		TTL:         cfg.CacheTTL,
		NegativeTTL: cfg.NegativeCacheTTL,
	})
	if err != nil {
		logger.Warn("failed to connect to Redis, continuing without cache",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		return nil
	}

	logger.Info("connected to Redis")
	return c
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routeHandlers struct {
	base    *handler.Handler
	health  *handler.HealthHandler
	metrics *handler.MetricsHandler
	pages   *handler.PageHandler
	api     *handler.APIHandler
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(h routeHandlers, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger, cfg.IsDevelopment()))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))

	// Probes
	r.Get("/healthz", h.health.Healthz)
	r.Get("/readyz", h.health.Readyz)
	r.Get("/metrics", h.metrics.Metrics)

	// Static assets
	r.Handle("/images/*", handler.Static())

	// Pages
	r.Group(func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Get("/", h.pages.Libraries)
		r.Get("/libraries", h.pages.Libraries)
		r.Get("/libraries/{library}", h.pages.Books)
	})

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Get("/libraries", h.api.ListLibraries)
		r.Get("/libraries/{library}/copies", h.api.ListCopies)
	})

	// 404 and 405 handlers
	r.NotFound(h.base.NotFound)
	r.MethodNotAllowed(h.base.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
