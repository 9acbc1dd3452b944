// Package main запускает HTTP-сервер бэк-офиса Karibu Groceries.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/config"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/handler"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/locker"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/middleware"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/notify"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/repository"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	var repo service.Repository
	if cfg.DatabaseURI != "" {
		pg, err := repository.NewPostgresRepository(cfg.DatabaseURI)
		if err != nil {
			sugar.Fatalw("database initialization error", "error", err.Error())
		}
		repo = pg
	} else {
		sugar.Warn("DATABASE_URI is empty, using in-memory storage")
		repo = repository.NewMemoryRepository()
	}

	var stockLock locker.Locker = locker.Noop{}
	if cfg.RedisAddress != "" {
		rl, err := locker.NewRedisLocker(cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			sugar.Fatalw("redis initialization error", "error", err.Error())
		}
		defer rl.Close()
		stockLock = rl
	}

	var notifier service.Notifier
	if cfg.RestockWebhookAddress != "" {
		notifier = notify.NewClient(cfg.RestockWebhookAddress)
	}

	svc := service.NewService(repo, stockLock, notifier, logger)
	defer svc.Close()

	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 10*time.Second)
	if err := svc.EnsureDirector(bootstrapCtx, cfg.DirectorUsername, cfg.DirectorPassword, cfg.DirectorEmail); err != nil {
		cancelBootstrap()
		sugar.Fatalw("director bootstrap error", "error", err.Error())
	}
	cancelBootstrap()

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret, cfg.TokenTTL)
	h := handler.NewHandler(svc, logger, authMiddleware)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Доставка уведомлений о нехватке продукции
	g.Go(func() error {
		svc.StartRestockNotifications(ctx)
		return nil
	})

	g.Go(func() error {
		sugar.Infow("starting back-office server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
