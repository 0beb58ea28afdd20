package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/filmpulse/filmpulse-backend/internal/db"
	"github.com/filmpulse/filmpulse-backend/internal/handlers"
	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/repos"
	"github.com/filmpulse/filmpulse-backend/internal/server"
	"github.com/filmpulse/filmpulse-backend/internal/services"
	"github.com/filmpulse/filmpulse-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	collectInterval := utils.GetEnvAsMinutes("COLLECT_INTERVAL_MINUTES", 60*time.Minute, log)

	// Mongo (signal + trend storage). The API still serves with it down,
	// reads come back empty and writes are dropped.
	mongoService, err := db.NewMongoService(log)
	if err != nil {
		log.Warn("Mongo init failed, running without persistence", "error", err)
	}
	if mongoService != nil {
		indexCtx, cancelIndex := context.WithTimeout(context.Background(), 15*time.Second)
		if err := mongoService.EnsureIndexes(indexCtx); err != nil {
			log.Warn("Mongo index setup failed", "error", err)
		}
		cancelIndex()
	}
	theMongo := mongoService.Database()

	// Registry DB (postgres, sqlite fallback)
	registryDB, err := db.NewRegistryDBService(log)
	if err != nil {
		log.Warn("Registry DB init failed, registry is memory-only", "error", err)
	}
	if err := registryDB.AutoMigrateAll(); err != nil {
		log.Warn("Registry DB auto migration failed", "error", err)
	}
	theDB := registryDB.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	signalRepo := repos.NewRawSignalRepo(theMongo, log)
	snapshotRepo := repos.NewSnapshotRepo(theMongo, log)
	trendDayRepo := repos.NewTrendDayRepo(theMongo, log)
	analysisRepo := repos.NewTrailerAnalysisRepo(theMongo, log)
	trackedFilmRepo := repos.NewTrackedFilmRepo(theDB, log)

	// Services
	log.Info("Setting up Services from main...")
	classifier := services.NewSentimentClassifier(log)
	trendCollector := services.NewTrendCollector(log)
	twitterCollector := services.NewTwitterCollector(log, classifier)
	youtubeCollector := services.NewYouTubeCollector(log, classifier)
	trendCache, err := services.NewTrendCache(log)
	if err != nil {
		log.Warn("Trend cache unavailable, lookups go straight to source", "error", err)
	}
	aggregator := services.NewAggregatorService(log, signalRepo, snapshotRepo)
	collectionService := services.NewCollectionService(
		log,
		trendCollector,
		twitterCollector,
		youtubeCollector,
		signalRepo,
		trendDayRepo,
		aggregator,
	)
	queryService := services.NewTrendQueryService(log, signalRepo, snapshotRepo, trendDayRepo, analysisRepo)
	lookupService := services.NewTrendLookupService(log, trendCollector, trendCache)

	registry := services.NewRegistry(trackedFilmRepo, log)
	if err := registry.Load(context.Background()); err != nil {
		log.Warn("Could not load tracked films from registry DB", "error", err)
	}

	scheduler := services.NewScheduler(registry, collectionService, collectInterval, log)
	scheduler.Start()

	// Handlers
	log.Info("Setting up handlers from main...")
	trendsHandler := handlers.NewTrendsHandler(log, registry, collectionService, queryService, lookupService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		TrendsHandler: trendsHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		fmt.Printf("Server listening on :%s\n", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down...")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("Server shutdown failed", "error", err)
	}
	trendCache.Close()
	mongoService.Close(shutdownCtx)
}
