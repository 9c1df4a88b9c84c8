package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/memorise/testimony-explorer/internal/adapters/cache"
	"github.com/memorise/testimony-explorer/internal/adapters/database"
	"github.com/memorise/testimony-explorer/internal/api/handlers"
	"github.com/memorise/testimony-explorer/internal/api/middleware"
	"github.com/memorise/testimony-explorer/internal/api/routes"
	"github.com/memorise/testimony-explorer/internal/cohort"
	"github.com/memorise/testimony-explorer/internal/domain/providers"
	"github.com/memorise/testimony-explorer/internal/infrastructure/clients/redis"
	"github.com/memorise/testimony-explorer/internal/infrastructure/clients/sqlite"
	"github.com/memorise/testimony-explorer/internal/infrastructure/observability"
	"github.com/memorise/testimony-explorer/internal/session"
	"github.com/memorise/testimony-explorer/internal/views"
	"github.com/memorise/testimony-explorer/pkg/config"
)

const (
	sessionMaxIdle       = time.Hour
	sessionSweepInterval = 10 * time.Minute
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Open the read-only testimony archive
	archiveClient, err := sqlite.NewClient(&cfg.Archive)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Archive.Path).Msg("failed to open archive")
	}
	defer archiveClient.Close()
	log.Info().Str("path", cfg.Archive.Path).Msg("archive opened")

	// Initialize the cohort cache. Redis is optional; without it the
	// in-process LRU serves the same role for a single instance.
	var cacheProvider providers.CacheProvider
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, falling back to in-memory cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("redis cache initialized")
		}
	}
	if cacheProvider == nil {
		cacheProvider = cache.NewMemoryAdapter(cfg.Cache.MaxEntries, cfg.Cache.TTL)
		log.Info().Int("maxEntries", cfg.Cache.MaxEntries).Msg("in-memory cache initialized")
	}

	// Initialize adapters
	personAdapter := database.NewPersonAdapter(archiveClient)
	keywordAdapter := database.NewKeywordAdapter(archiveClient)
	questionAdapter := database.NewQuestionAdapter(archiveClient)
	placeAdapter := database.NewPlaceAdapter(archiveClient)
	testimonyAdapter := database.NewTestimonyAdapter(archiveClient)
	cohortAdapter := database.NewCohortAdapter(archiveClient)

	resolver := cohort.NewResolver(cohortAdapter, cacheProvider, cfg.Cache.TTL)
	resolver.SetMetrics(metrics)

	// Initialize sessions
	sessions := session.NewManager()
	go func() {
		ticker := time.NewTicker(sessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := sessions.Sweep(sessionMaxIdle); removed > 0 {
					log.Debug().Int("removed", removed).Int("live", sessions.Len()).Msg("swept idle sessions")
				}
			}
		}
	}()

	// Initialize views
	peopleView := views.NewPeopleView(personAdapter)
	aggregatesView := views.NewAggregatesView(personAdapter)
	keywordsView := views.NewKeywordsView(keywordAdapter, testimonyAdapter)
	geoView := views.NewGeoView(placeAdapter)
	placesView := views.NewPlacesView(personAdapter, questionAdapter)
	counterView := views.NewCounterView(personAdapter)
	suggestView := views.NewSuggestView(keywordAdapter, questionAdapter)
	detailView := views.NewDetailView(personAdapter, questionAdapter, placeAdapter, testimonyAdapter)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(sessions, resolver, counterView)
	viewsHandler := handlers.NewViewsHandler(
		sessions,
		resolver,
		peopleView,
		aggregatesView,
		keywordsView,
		geoView,
		suggestView,
		counterView,
		questionAdapter,
	)
	personHandler := handlers.NewPersonHandler(detailView, keywordsView, testimonyAdapter)
	archiveHandler := handlers.NewArchiveHandler(personAdapter, peopleView, placesView)
	suggestHandler := handlers.NewSuggestHandler(suggestView)
	cohortHandler := handlers.NewCohortHandler(resolver)

	cacheMiddleware := middleware.NewCacheMiddleware(cacheProvider)

	// Set up router
	router := routes.NewRouter(
		sessionHandler,
		viewsHandler,
		personHandler,
		archiveHandler,
		suggestHandler,
		cohortHandler,
		cacheMiddleware,
		metrics,
		cfg.Server.AllowedOrigins,
	)
	handler := router.SetupRoutes()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.ListenAddr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
