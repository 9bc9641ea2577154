// Package main is the entry point for the kiosko API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"kiosko/internal/app"
	"kiosko/internal/config"
	v1 "kiosko/internal/infrastructure/http/v1"
	"kiosko/internal/infrastructure/scheduler"
	"kiosko/pkg/logger"
)

func main() {
	envFile := flag.String("env", ".env", "path to an optional .env file")
	noScheduler := flag.Bool("no-scheduler", false, "do not run background jobs in this process")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: !cfg.App.IsProduction(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()
	log.Infow("starting kiosko server", "env", cfg.App.Env, "timezone", cfg.App.Timezone)

	rt, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer rt.Close()

	// --- Background jobs ---
	var sched *scheduler.Scheduler
	if !*noScheduler {
		sched = scheduler.New(cfg.Location(), log)
		if err := sched.Add(scheduler.AlertsJob(cfg.Shop.AlertsCron, rt.Services.Alerts)); err != nil {
			log.Fatalw("failed to schedule alerts", "error", err)
		}
		sched.Start()
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Services:     rt.Services,
		Pool:         rt.Pool,
		Logger:       log,
		Location:     cfg.Location(),
		ExpiringDays: cfg.Shop.ExpiringWindowDays,
		Debug:        !cfg.App.IsProduction(),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		storage := "postgres"
		if rt.Pool == nil {
			storage = "memory"
		}
		log.Infow("server starting", "port", cfg.HTTP.Port, "storage", storage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}
	if sched != nil {
		sched.Stop(shutdownCtx)
	}

	log.Info("server stopped")
}
