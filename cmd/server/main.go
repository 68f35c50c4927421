package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/comment-gateway-api/internal/api"
	"github.com/comment-gateway-api/internal/config"
	"github.com/comment-gateway-api/internal/database"
	"github.com/comment-gateway-api/internal/ratelimit"
	"github.com/comment-gateway-api/internal/repository"
	"github.com/comment-gateway-api/internal/service"
	"github.com/comment-gateway-api/internal/verification"
	"github.com/comment-gateway-api/pkg/logger"
)

func main() {
	migrateDown := flag.Bool("migrate-down", false, "roll back all migrations and exit")
	flag.Parse()

	// Bootstrap logger until configuration is known
	log := logger.New(config.LogConfig{})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log = logger.New(cfg.Log)
	log.Info().Msg("Starting comment gateway...")

	// Initialize database. A configured store that cannot be reached is fatal;
	// only an unconfigured one selects the in-memory backend.
	var db *database.DB
	if cfg.Database.Configured() {
		db, err = database.New(&cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		if *migrateDown {
			if err := db.MigrateDown(cfg.Database.MigrationsPath); err != nil {
				log.Fatal().Err(err).Msg("Failed to roll back migrations")
			}
			log.Info().Msg("Migrations rolled back")
			return
		}

		if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	} else if *migrateDown {
		log.Fatal().Msg("DATABASE_URL is required to roll back migrations")
	}

	if cfg.Verification.Secret == "" {
		log.Warn().Msg("VERIFY_SECRET is not set; all comment submissions will be rejected")
	}

	// Initialize repositories
	repos := repository.New(db, cfg.Storage.MemoryCap, log)

	// Rate limiter with background sweeping of expired windows
	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	limiter := ratelimit.New(cfg.RateLimit.Window, cfg.RateLimit.MaxRequests, ratelimit.WithLogger(log))
	go limiter.StartSweeper(rootCtx, cfg.RateLimit.SweepInterval)

	verifier := verification.NewHTTPVerifier(cfg.Verification, nil, log)

	// Initialize services
	services := service.NewServices(repos, limiter, verifier, cfg, log)

	// Initialize router
	router := api.NewRouter(services, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("storage", repos.Comment.Mode()).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Stop sweeper
	stopBackground()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
