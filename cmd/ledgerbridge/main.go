package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ledgerbridge/ledgerbridge/internal/accounts"
	"github.com/ledgerbridge/ledgerbridge/internal/app"
	"github.com/ledgerbridge/ledgerbridge/internal/ledger"
	"github.com/ledgerbridge/ledgerbridge/internal/payments"
	"github.com/ledgerbridge/ledgerbridge/internal/platform/cache"
	"github.com/ledgerbridge/ledgerbridge/internal/resolve"
	"github.com/ledgerbridge/ledgerbridge/internal/returns"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, accounts cache disabled", slog.Any("error", err))
			redisClient = nil
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
		}
	}

	ledgerClient := ledger.NewClient(cfg.LedgerBaseURL, cfg.LedgerAPIKey, cfg.LedgerTimeout)
	resolver := resolve.NewResolver(ledgerClient, logger)

	accountsService := accounts.NewService(ledgerClient, accounts.NewCache(redisClient, cfg.AccountsCacheTTL), logger)
	accountsHandler := accounts.NewHandler(logger, accountsService)

	paymentsService := payments.NewService(ledgerClient, resolver, logger)
	paymentsHandler := payments.NewHandler(logger, paymentsService)

	returnsService := returns.NewService(ledgerClient, logger)
	returnsHandler := returns.NewHandler(logger, returnsService)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AccountsHandler: accountsHandler,
		PaymentsHandler: paymentsHandler,
		ReturnsHandler:  returnsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
