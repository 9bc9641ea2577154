// Package main is the entry point for the kiosko background worker. It runs the
// scheduled jobs without serving HTTP, for deployments where API servers start
// with -no-scheduler.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kiosko/internal/app"
	"kiosko/internal/config"
	"kiosko/internal/infrastructure/scheduler"
	"kiosko/pkg/logger"
)

func main() {
	envFile := flag.String("env", ".env", "path to an optional .env file")
	once := flag.Bool("once", false, "run every job once and exit")
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting kiosko worker")

	rt, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer rt.Close()

	jobs := []scheduler.Job{
		scheduler.AlertsJob(cfg.Shop.AlertsCron, rt.Services.Alerts),
	}

	sched := scheduler.New(cfg.Location(), log)
	if *once {
		for _, job := range jobs {
			sched.RunNow(job)
		}
		return
	}

	for _, job := range jobs {
		if err := sched.Add(job); err != nil {
			log.Fatalw("failed to schedule job", "job", job.Name, "error", err)
		}
	}
	sched.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	stopCtx, stop := context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
	defer stop()
	sched.Stop(stopCtx)

	log.Info("worker stopped")
}
