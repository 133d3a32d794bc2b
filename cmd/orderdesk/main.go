// Package main запускает HTTP-сервер сервиса приёма заказов.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/orderdesk/internal/config"
	"github.com/mmeshcher/orderdesk/internal/handler"
	"github.com/mmeshcher/orderdesk/internal/middleware"
	"github.com/mmeshcher/orderdesk/internal/model"
	"github.com/mmeshcher/orderdesk/internal/repository"
	"github.com/mmeshcher/orderdesk/internal/router"
	"github.com/mmeshcher/orderdesk/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		sugar.Fatalw("record store initialization error", "error", err.Error())
	}
	defer closeStore()

	menu, err := loadMenu(cfg)
	if err != nil {
		sugar.Fatalw("menu initialization error", "error", err.Error())
	}

	publisher, closePublisher := newPublisher(cfg, logger)
	defer closePublisher()

	users := repository.NewCollection[model.User](store, "users")
	tokens := repository.NewCollection[model.Token](store, "tokens")
	carts := repository.NewCollection[model.Cart](store, "shoppingcarts")
	orders := repository.NewCollection[model.Order](store, "orders")

	sessions := service.NewSessionManager(users, tokens)
	accounts := service.NewAccounts(users)
	cartManager := service.NewCartManager(carts, menu, publisher)
	checkout := service.NewCheckout(
		sessions,
		cartManager,
		orders,
		newPaymentGateway(cfg, logger),
		newNotifier(cfg, logger),
		publisher,
	)

	rt := router.New()
	handler.NewUserHandler(accounts, sessions, logger).Mount(rt)
	handler.NewTokenHandler(sessions, logger).Mount(rt)
	handler.NewMenuHandler(menu, sessions).Mount(rt)
	handler.NewCartHandler(cartManager, sessions, logger).Mount(rt)
	handler.NewOrderHandler(checkout, logger).Mount(rt)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewMetrics(registry, handler.Resources...)
	if err != nil {
		sugar.Fatalw("metrics initialization error", "error", err.Error())
	}

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           handler.NewHTTPHandler(rt, logger, metrics, registry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("starting orderdesk server", "addr", cfg.RunAddress, "menuItems", len(menu.Items()))
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
