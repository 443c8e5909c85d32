package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nathanyu/payment-transfer/internal/authorizer"
	"github.com/nathanyu/payment-transfer/internal/config"
	"github.com/nathanyu/payment-transfer/internal/handler"
	"github.com/nathanyu/payment-transfer/internal/middleware"
	"github.com/nathanyu/payment-transfer/internal/notifier"
	"github.com/nathanyu/payment-transfer/internal/queue"
	"github.com/nathanyu/payment-transfer/internal/service"
	"github.com/nathanyu/payment-transfer/internal/store"
	"github.com/nathanyu/payment-transfer/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName = "payment-transfer"

func main() {
	cfg := config.Load()

	telemetry.InitLogger(serviceName)

	cleanup, err := telemetry.InitTracer(serviceName)
	if err != nil {
		slog.Warn("failed to initialize tracer", "error", err)
	} else {
		defer cleanup()
	}

	gin.SetMode(cfg.GinMode)

	slog.Info("starting payment-transfer service", "env", cfg.Env)

	// 1. Connect to Postgres and apply schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	dbPool, err := store.Connect(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := store.Migrate(context.Background(), dbPool); err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready")

	// 2. Optional NATS event publisher
	var publisher *queue.Publisher
	if cfg.NATSUrl != "" {
		publisher, err = queue.Connect(cfg.NATSUrl)
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		slog.Info("connected to NATS", "url", cfg.NATSUrl)
	}

	// 3. Wire the core
	accounts := store.NewAccountStore(dbPool)
	ledger := store.NewTransferLedger(dbPool)
	transactor := store.NewTransactor(dbPool)
	auth := authorizer.New(cfg.AuthorizerURL)
	notif := notifier.New(cfg.NotifierURL)

	svc := service.New(accounts, ledger, transactor, auth, notif, publisher)
	h := handler.NewHandler(svc)

	// 4. Setup Gin router with middleware
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Tracing())
	router.Use(middleware.Metrics())
	handler.SetupRoutes(router, h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// 5. Metrics server (separate port for Prometheus scraping)
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler: metricsMux,
	}

	go func() {
		slog.Info("HTTP server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	go func() {
		slog.Info("metrics server listening", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server forced to shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("metrics server forced to shutdown", "error", err)
	}

	slog.Info("service stopped")
}
