package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/Paper-Trading-Backend/internal/api"
	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Paper-Trading-Backend/internal/catalog"
	"github.com/ndewijer/Paper-Trading-Backend/internal/config"
	"github.com/ndewijer/Paper-Trading-Backend/internal/database"
	"github.com/ndewijer/Paper-Trading-Backend/internal/logging"
	"github.com/ndewijer/Paper-Trading-Backend/internal/metrics"
	"github.com/ndewijer/Paper-Trading-Backend/internal/repository"
	"github.com/ndewijer/Paper-Trading-Backend/internal/service"
	"github.com/ndewijer/Paper-Trading-Backend/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := logging.Setup(cfg.Log); err != nil {
		log.Fatal().Err(err).Msg("failed to configure logging")
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	log.Info().Str("path", cfg.Database.Path).Str("version", version.Version).Msg("connected to database")

	// Create the catalog pipeline
	metricsRegistry := metrics.NewRegistry()
	loader := catalog.NewLoader(newSource(cfg.Catalog), cfg.Catalog.FetchConcurrency, metricsRegistry)
	catalogRepo := repository.NewCatalogRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	paperTradingService := service.NewPaperTradingService(loader, catalogRepo, metricsRegistry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Serve the cached catalog until the first remote load completes
	if err := paperTradingService.Warm(ctx); err != nil {
		if errors.Is(err, apperrors.ErrCatalogNotCached) {
			log.Info().Msg("no cached catalog, waiting for the first load")
		} else {
			log.Warn().Err(err).Msg("failed to warm catalog from cache")
		}
	}

	go func() {
		loadCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
		// Refresh logs its own failures.
		_, _ = paperTradingService.Refresh(loadCtx)
	}()

	scheduler, err := service.NewScheduler(paperTradingService, cfg.Catalog.RefreshSchedule, 2*time.Minute, cfg.Session.IdleTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}
	scheduler.Start()

	// Create router
	router := api.NewRouter(systemService, paperTradingService, metricsRegistry, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // POST /refresh waits for a full catalog load
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	<-ctx.Done()
	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		log.Warn().Msg("scheduled jobs still running at exit")
	}

	log.Info().Msg("server exited")
}

func newSource(cfg config.CatalogConfig) catalog.Source {
	layout := catalog.Layout{IndexPath: cfg.IndexPath, DatasetPrefix: cfg.DatasetPrefix}
	if cfg.Source == config.SourceDir {
		log.Info().Str("dir", cfg.Dir).Msg("reading catalog from directory")
		return catalog.NewDirSource(cfg.Dir, layout)
	}
	log.Info().Str("base_url", cfg.BaseURL).Msg("reading catalog over HTTP")
	return catalog.NewHTTPSource(cfg.BaseURL, layout, cfg.RequestTimeout)
}
