package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/config"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/repository/postgres"
	internalworker "github.com/dteti-sys-rsch/wafi-dental-care/internal/worker"
	"github.com/dteti-sys-rsch/wafi-dental-care/pkg/logger"
	"github.com/dteti-sys-rsch/wafi-dental-care/pkg/messaging/redis"
	"github.com/dteti-sys-rsch/wafi-dental-care/pkg/metrics"
	"github.com/dteti-sys-rsch/wafi-dental-care/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.InfoLevel,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     cfg.Server.Debug,
	})
	log.Logger = *appLogger.Zerolog()

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewBroker(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)
	m := metrics.NewMetrics("wafi_dental_care_worker")

	processor := worker.NewOutboxProcessor(outboxRepo, broker, m,
		cfg.Outbox.BatchSize, cfg.Outbox.PollInterval)
	cleanup := internalworker.NewOutboxCleanupWorker(outboxRepo,
		cfg.Outbox.RetentionDays, cfg.Outbox.CleanupInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Start(ctx)
	go cleanup.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()
}
