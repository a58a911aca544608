package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"proxy-payout-gateway/config"
	chainAdapter "proxy-payout-gateway/internal/adapter/chain"
	httpHandler "proxy-payout-gateway/internal/adapter/http/handler"
	fileStorage "proxy-payout-gateway/internal/adapter/storage/file"
	redisStorage "proxy-payout-gateway/internal/adapter/storage/redis"
	"proxy-payout-gateway/internal/core/ports"
	"proxy-payout-gateway/internal/service"
	"proxy-payout-gateway/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Proxy Payout Gateway")

	ctx := context.Background()

	// Initialize the employee vault (file-backed, encrypted at rest)
	store, err := fileStorage.NewEmployeeStore(cfg.Vault.FilePath, log)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Vault.FilePath).Msg("Failed to open employee store")
	}
	log.Info().Str("path", cfg.Vault.FilePath).Msg("Employee store loaded")

	cipher, err := service.NewVaultCipher(cfg.Vault.Passphrase)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize vault cipher")
	}
	vaultSvc := service.NewVaultService(store, cipher, log)

	// Initialize the chain client factory
	chainFactory, err := chainAdapter.NewClientFactory(cfg.Chain, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize chain client")
	}
	log.Info().Str("node", cfg.Chain.NodeURL).Msg("Chain node configured")

	// Initialize the payout orchestrator
	payoutSvc := service.NewPayoutService(vaultSvc, chainFactory, service.PayoutConfig{
		ConfirmInterval:    cfg.Chain.ConfirmInterval,
		ConfirmMaxAttempts: cfg.Chain.ConfirmMaxAttempts,
	}, log)

	healthCheckers := []ports.HealthChecker{chainAdapter.NewHealthCheck(chainFactory)}

	// Redis is optional; without it rate limiting is disabled.
	var rateLimitStore *redisStorage.RateLimitStore
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected")

		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	} else {
		log.Warn().Msg("Redis disabled, rate limiting is off")
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		PayoutSvc:      payoutSvc,
		Vault:          vaultSvc,
		APIKey:         cfg.API.Key,
		RateLimitStore: rateLimitStore,
		HealthCheckers: healthCheckers,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
