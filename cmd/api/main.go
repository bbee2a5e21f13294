package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"trustguard/internal/api"
	"trustguard/internal/api/handlers"
	"trustguard/internal/config"
	"trustguard/internal/domain/services"
	"trustguard/internal/domain/services/ai"
	"trustguard/internal/domain/services/rules"
	"trustguard/internal/infrastructure/cache"
	"trustguard/internal/infrastructure/database"
	"trustguard/internal/infrastructure/database/repository"
	"trustguard/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting TrustGuard")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to PostgreSQL. The ledger cannot run without it.
	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer db.Close()

	// Connect to Redis. The service degrades to uncached, unlimited
	// operation when Redis is unavailable.
	redisCache, err := cache.NewRedis(ctx, cfg.Redis, log)
	if err != nil {
		log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache and rate limiting")
		redisCache = nil
	}
	defer func() {
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// Initialize repositories
	store := repository.NewStore(db)
	messages := repository.NewMessageRepository(db.Pool())
	entities := repository.NewEntityRepository(db.Pool())
	reports := repository.NewReportRepository(db.Pool())

	// Initialize services
	engine := rules.New(log)
	chain := ai.ChainFromConfig(cfg.AI, log)
	ledger := services.NewLedger(store, log)

	var entityCache services.EntityCache
	if redisCache != nil {
		entityCache = redisCache
	}
	directory := services.NewDirectory(store, entityCache, log)
	pipeline := services.NewPipeline(engine, chain, messages, log)

	// Initialize handlers
	h := handlers.NewHandlers(handlers.Dependencies{
		Pipeline:  pipeline,
		Ledger:    ledger,
		Directory: directory,
		Messages:  messages,
		Entities:  entities,
		Reports:   reports,
		Cache:     redisCache,
		DB:        db,
		Logger:    log,
	})

	// Create router
	router := api.NewRouter(*cfg, h, redisCache, log)

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}
