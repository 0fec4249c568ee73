package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/bonafide-backend/internal/certificate"
	"github.com/stemsi/bonafide-backend/internal/config"
	"github.com/stemsi/bonafide-backend/internal/database"
	"github.com/stemsi/bonafide-backend/internal/handler"
	"github.com/stemsi/bonafide-backend/internal/logger"
	"github.com/stemsi/bonafide-backend/internal/notify"
	"github.com/stemsi/bonafide-backend/internal/repository"
	"github.com/stemsi/bonafide-backend/internal/router"
	"github.com/stemsi/bonafide-backend/internal/service"
	"github.com/stemsi/bonafide-backend/internal/session"
	"github.com/stemsi/bonafide-backend/internal/validator"
	"github.com/stemsi/bonafide-backend/internal/worker"
)

// renderQueueSize bounds the in-process certificate queue.
const renderQueueSize = 256

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, "bonafide-server")
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("store", cfg.StoreBackend).
		Str("sessions", cfg.SessionBackend).
		Str("ledger_scope", string(cfg.LedgerScope)).
		Bool("allow_reprocess", cfg.AllowReprocess).
		Msg("Starting Bonafide Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Identity Store & Request Ledger ───────────────────────────────
	var (
		identityRepo repository.IdentityRepository
		ledgerRepo   repository.LedgerRepository
	)
	healthChecks := make(map[string]handler.HealthCheck)
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		if cfg.AutoMigrate {
			if err := database.MigrateUp(cfg.DatabaseURL, cfg.MigrationsDir, log); err != nil {
				log.Fatal().Err(err).Msg("Failed to migrate PostgreSQL")
			}
		}
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		identityRepo, ledgerRepo = postgresRepositories(pool)
		healthChecks["postgres"] = pool.Ping
	default:
		identityRepo = repository.NewMemoryIdentityRepository()
		ledgerRepo = repository.NewMemoryLedgerRepository()
	}

	// ─── Sessions, Render Queue & Status Events ───────────────────────
	var (
		sessions session.Store
		queue    worker.Queue
		broker   notify.Broker
	)
	switch cfg.SessionBackend {
	case config.BackendRedis:
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		sessions, queue, broker = redisBackends(rdb, log)
		healthChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	default:
		sessions = session.NewMemoryStore()
		queue = worker.NewMemoryQueue(renderQueueSize)
		broker = notify.NewMemoryBroker()
	}

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, sessions)
	identityService := service.NewIdentityService(identityRepo, authService, log)
	ledgerService := service.NewLedgerService(ledgerRepo, identityService, queue, broker, service.PolicyFromConfig(cfg), log)
	logoService := service.NewLogoService(cfg)
	certificateService := service.NewCertificateService(ledgerService, identityService,
		certificate.NewRenderer(logoService.Load), cfg.CertificateDir, log)

	if cfg.SeedDemo {
		if err := identityService.SeedDemo(ctx); err != nil {
			log.Warn().Err(err).Msg("Demo seed failed")
		}
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:          handler.NewAuthHandler(authService, identityService, log),
		College:       handler.NewCollegeHandler(identityService, log),
		Media:         handler.NewMediaHandler(logoService, log),
		Dashboard:     handler.NewDashboardHandler(identityService, ledgerService, log),
		StudentPortal: handler.NewStudentPortalHandler(identityService, ledgerService, log),
		Admin:         handler.NewAdminHandler(identityService, ledgerService, log),
		Certificate:   handler.NewCertificateHandler(identityService, certificateService, log),
		Export:        handler.NewExportHandler(identityService, ledgerService, log),
		WS:            handler.NewWSHandler(broker, identityService, log, cfg.AllowedOrigins),
		System:        handler.NewSystemHandler(queue, backendNames(cfg), healthChecks, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	certificateWorker := worker.NewCertificateWorker(queue, certificateService, log)
	go func() {
		defer close(workerDone)
		certificateWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the certificate worker and wait for its queue to drain.
	workerCancel()
	select {
	case <-workerDone:
	case <-time.After(10 * time.Second):
		log.Warn().Msg("Certificate worker did not drain in time")
	}

	log.Info().Msg("Shutdown complete")
}

func postgresRepositories(pool *pgxpool.Pool) (repository.IdentityRepository, repository.LedgerRepository) {
	return repository.NewPostgresIdentityRepository(pool), repository.NewPostgresLedgerRepository(pool)
}

func redisBackends(rdb *redis.Client, log zerolog.Logger) (session.Store, worker.Queue, notify.Broker) {
	return session.NewRedisStore(rdb),
		worker.NewRedisQueue(rdb, config.WorkerKey.CertificateRenderQueue),
		notify.NewRedisBroker(rdb, log)
}

func backendNames(cfg *config.Config) map[string]string {
	return map[string]string{
		"store":    cfg.StoreBackend,
		"sessions": cfg.SessionBackend,
	}
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
