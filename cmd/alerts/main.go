package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/tair/qr-order/internal/config"
	"github.com/tair/qr-order/internal/notifier"
	"github.com/tair/qr-order/kafka"
	"github.com/tair/qr-order/pkg/logger"
)

const groupID = "qrmenu-alerts"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("qrmenu-alerts", true)
		logger.Logger.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger.Init("qrmenu-alerts", cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	if len(cfg.KafkaBrokers) == 0 {
		logger.Logger.Fatal().Msg("KAFKA_BROKERS is required")
	}

	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, groupID, []string{cfg.KafkaOrderTopic})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}
	defer consumer.Close()

	consumer.RegisterHandler(notifier.EventNewOrder, func(ctx context.Context, e kafka.OrderEvent) error {
		logger.Info(ctx).
			Str("order_id", e.OrderID).
			Str("table_id", e.TableID).
			Msg(e.Message)
		return nil
	})
	consumer.RegisterHandler(notifier.EventOrderUpdated, func(ctx context.Context, e kafka.OrderEvent) error {
		logger.Debug(ctx).
			Str("order_id", e.OrderID).
			Str("status", e.Status).
			Msg("Order updated")
		return nil
	})
	consumer.RegisterHandler(notifier.EventStaffBroadcast, func(ctx context.Context, e kafka.OrderEvent) error {
		event := logger.Info(ctx)
		if e.Kind() == "stock-alert" {
			event = logger.Warn(ctx).RawJSON("payload", e.Payload)
		}
		event.
			Str("kind", e.Kind()).
			Msg(e.Message)
		return nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start consumer")
	}
	<-ctx.Done()
	logger.Logger.Info().Msg("Alerts consumer stopped")
}
