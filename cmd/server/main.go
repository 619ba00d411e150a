package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/etudesn/notacompta/internal/adapter/http"
	"github.com/etudesn/notacompta/internal/adapter/http/handler"
	postgresRepo "github.com/etudesn/notacompta/internal/adapter/repository/postgres"
	redisRepo "github.com/etudesn/notacompta/internal/adapter/repository/redis"
	"github.com/etudesn/notacompta/internal/infrastructure/chart"
	"github.com/etudesn/notacompta/internal/infrastructure/config"
	"github.com/etudesn/notacompta/internal/infrastructure/logger"
	"github.com/etudesn/notacompta/internal/infrastructure/metrics"
	"github.com/etudesn/notacompta/internal/infrastructure/postgres"
	"github.com/etudesn/notacompta/internal/infrastructure/redis"
	"github.com/etudesn/notacompta/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("migrations applied")

	// Connect to Redis. The server degrades without it: no balance cache,
	// no idempotency replay.
	var cache usecase.Cache
	var idempotencyStore usecase.IdempotencyStore
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, running without cache and idempotency")
	} else {
		defer redisClient.Close()
		cache = redisRepo.NewCache(redisClient)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		log.Info().Msg("connected to redis")
	}

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	seqRepo := postgresRepo.NewSequenceRepository(pool)
	invoiceRepo := postgresRepo.NewInvoiceRepository(pool)
	sessionRepo := postgresRepo.NewReconciliationRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// Seed the OHADA chart of accounts. A failed seed is not fatal: with an
	// empty chart every posting fails account validation instead.
	if accounts, err := chart.Load(time.Now()); err != nil {
		log.Error().Err(err).Msg("failed to load chart of accounts")
	} else if err := accountRepo.Seed(ctx, accounts); err != nil {
		log.Error().Err(err).Msg("failed to seed chart of accounts")
	} else {
		log.Info().Int("accounts", len(accounts)).Msg("chart of accounts seeded")
	}

	// Initialize use cases
	chartUC := usecase.NewChartUseCase(accountRepo)
	clientUC := usecase.NewClientAccountUseCase(accountRepo, entryRepo, seqRepo)
	entryUC := usecase.NewEntryUseCase(txManager, entryRepo, seqRepo, chartUC, idGen, retrier)
	invoiceUC := usecase.NewInvoiceUseCase(invoiceRepo, seqRepo, idGen)
	postingUC := usecase.NewPostingUseCase(entryUC, clientUC, invoiceRepo)
	statementUC := usecase.NewStatementUseCase(entryRepo, cache)
	reconciliationUC := usecase.NewReconciliationUseCase(txManager, sessionRepo, entryRepo, idGen, retrier)

	// Metrics
	m := metrics.New()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			m.DBConnections.Set(float64(pool.Stat().TotalConns()))
		}
	}()

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		BaremeHandler:         handler.NewBaremeHandler(m),
		ChartHandler:          handler.NewChartHandler(chartUC),
		ClientAccountHandler:  handler.NewClientAccountHandler(clientUC, m),
		EntryHandler:          handler.NewEntryHandler(entryUC, m),
		PostingHandler:        handler.NewPostingHandler(postingUC),
		InvoiceHandler:        handler.NewInvoiceHandler(invoiceUC, postingUC, m),
		StatementHandler:      handler.NewStatementHandler(statementUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC, m),
		HealthHandler:         handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:      idempotencyStore,
		Metrics:               m,
		Logger:                appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
