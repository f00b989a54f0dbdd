package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glav/paymeback/internal/api"
	"github.com/glav/paymeback/internal/cache"
	"github.com/glav/paymeback/internal/config"
	"github.com/glav/paymeback/internal/models"
	"github.com/glav/paymeback/internal/service"
	"github.com/glav/paymeback/internal/storage/sqlite"
	"github.com/glav/paymeback/pkg/logging"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open ledger store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	cacheCfg := cache.DefaultConfig()
	cacheCfg.TTL = cfg.CacheTTL
	cacheCfg.Capacity = cfg.CacheCapacity
	planCache, err := cache.New[*models.PaymentPlanDetail](cacheCfg)
	if err != nil {
		slog.Error("failed to create plan cache", "error", err)
		os.Exit(1)
	}

	plans := service.NewPaymentPlanService(store, planCache)
	router := api.NewRouter(api.NewHandler(plans, store))

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server listening", "addr", srv.Addr, "db", cfg.DBPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
