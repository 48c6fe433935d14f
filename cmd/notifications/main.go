package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"stayindia/internal/notifications/email"
	"stayindia/internal/notifications/repository"
	"stayindia/internal/notifications/worker"
	"stayindia/pkg/config"
	"stayindia/pkg/kafka"
	kafka_config "stayindia/pkg/kafka/config"
)

const ServiceName = "notifications"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Notifications service")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reminderRepo := repository.NewMongoReminderRepository(cfg)
	mailer := email.NewSMTPMailer(cfg)
	w := worker.New(reminderRepo, mailer, cfg)

	kafkaCfg := kafka_config.Load()
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		kafka_config.TopicBookingEvents,
		kafka_config.GroupNotifications,
		kafka_config.TopicBookingEventsDLQ,
		w.HandleBookingConfirmed,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			cfg.Log.Warn("Failed to close Kafka consumer", "error", err)
		}
	}()

	go w.Start(ctx)

	cfg.Log.Info("Consuming booking events",
		"topic", kafka_config.TopicBookingEvents,
		"group", kafka_config.GroupNotifications,
	)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	cfg.Log.Info("Notifications service shutting down")
}
