package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArachnoVa-id/roetix-reservation/internal/di"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/config"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/logger"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/telemetry"
)

// The sweeper binary runs the hold and order sweepers without the HTTP
// API. Multiple replicas are safe: each run is guarded by a Redis lock.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if _, err := logger.Init(&logger.Config{
		Level:       "info",
		ServiceName: cfg.App.Name + "-sweeper",
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting reservation sweeper...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName + "-sweeper",
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		appLog.Fatal(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Failed to build container: %v", err))
	}
	defer container.Close()

	if err := container.TransactionSweeper.Start(ctx); err != nil {
		appLog.Fatal(fmt.Sprintf("Failed to start transaction sweeper: %v", err))
	}
	if err := container.OrderSweeper.Start(ctx); err != nil {
		appLog.Fatal(fmt.Sprintf("Failed to start order sweeper: %v", err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down sweepers...")

	container.OrderSweeper.Stop()
	container.TransactionSweeper.Stop()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		appLog.Warn(fmt.Sprintf("Telemetry shutdown failed: %v", err))
	}

	appLog.Info("Sweepers exited gracefully")
}
