package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/mvr/thenumber/internal/adapter/http"
	"github.com/mvr/thenumber/internal/adapter/http/handler"
	sqliteRepo "github.com/mvr/thenumber/internal/adapter/repository/sqlite"
	"github.com/mvr/thenumber/internal/cache"
	"github.com/mvr/thenumber/internal/domain"
	"github.com/mvr/thenumber/internal/infrastructure/auth"
	"github.com/mvr/thenumber/internal/infrastructure/config"
	"github.com/mvr/thenumber/internal/infrastructure/logger"
	"github.com/mvr/thenumber/internal/infrastructure/metrics"
	"github.com/mvr/thenumber/internal/infrastructure/sqlite"
	"github.com/mvr/thenumber/internal/usecase"
)

func main() {
	// .env is optional; real environment variables win either way.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger.SetGlobal(appLogger)

	m := metrics.New()

	// The storage layer refuses to run without a key; fail before touching
	// the database.
	fieldCipher, err := sqliteRepo.NewFieldCipher(cfg.EncryptionKey, m)
	if err != nil {
		log.Fatal().Err(err).Msg("DB_ENCRYPTION_KEY is required (base64, 32 bytes)")
	}
	log.Info().Str("key", sqliteRepo.MaskKey(cfg.EncryptionKey)).Msg("field encryption enabled")

	// Apply schema migrations, then open the main connection
	if err := sqlite.RunMigrations(cfg.DatabasePath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DatabaseTimeout)
	db, err := sqlite.Open(ctx, cfg.DatabasePath)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	log.Info().Str("path", cfg.DatabasePath).Msg("database ready")

	// Initialize repositories
	expenseRepo := sqliteRepo.NewExpenseRepository(db, fieldCipher, m)
	txRepo := sqliteRepo.NewTransactionRepository(db, fieldCipher, m)
	configRepo := sqliteRepo.NewConfigRepository(db, fieldCipher, m)
	idGen := sqliteRepo.NewULIDGenerator()
	numberCache := cache.NewLRU[*domain.BudgetResult](cfg.CacheSize, cfg.CacheTTL)

	// Initialize use cases
	budgetUC := usecase.NewBudgetUseCase(configRepo, expenseRepo, txRepo, numberCache, m)
	configUC := usecase.NewConfigUseCase(configRepo, numberCache, m)
	expenseUC := usecase.NewExpenseUseCase(expenseRepo, idGen, numberCache, m)
	transactionUC := usecase.NewTransactionUseCase(txRepo, idGen, numberCache, m)

	// Initialize handlers
	budgetHandler := handler.NewBudgetHandler(budgetUC, configUC)
	expenseHandler := handler.NewExpenseHandler(expenseUC)
	transactionHandler := handler.NewTransactionHandler(transactionUC)
	healthHandler := handler.NewHealthHandler(db)

	routerCfg := httpAdapter.RouterConfig{
		BudgetHandler:      budgetHandler,
		ExpenseHandler:     expenseHandler,
		TransactionHandler: transactionHandler,
		HealthHandler:      healthHandler,
		Logger:             appLogger,
		Metrics:            m,
	}
	if cfg.AuthEnabled && cfg.JWTSecret != "" {
		routerCfg.JWTManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		log.Info().Msg("JWT authentication enabled")
	} else {
		log.Info().Msg("authentication disabled, running as local user")
	}

	router := httpAdapter.NewRouter(routerCfg)

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
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
