package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go-hris-workflow/internal/config"
	"go-hris-workflow/internal/messaging/kafka"
	"go-hris-workflow/internal/messaging/kafka/producer"
	"go-hris-workflow/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker drains the outbox into Kafka until SIGINT/SIGTERM.
func RunWorker(cfg config.Config, logger *zap.Logger) error {
	log := logger.Named("app.worker")

	if cfg.StoreDriver != config.StoreDriverPostgres {
		return errors.New("worker requires STORE_DRIVER=postgres")
	}
	if cfg.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, logger)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.DB.MaxRetries, logger)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	worker := producer.NewWorker(kafka.NewOutboxRepository(gormDB), kafkaWriter, cfg.OutboxPollInterval, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker.Run(ctx)
	log.Info("worker shutting down")
	return nil
}
