package main

import (
	"context"

	"fixhub/internal/health"
	"fixhub/internal/notifications/gateway"
	"fixhub/internal/notifications/handler"
	"fixhub/internal/notifications/repository"
	"fixhub/internal/notifications/service"
	"fixhub/internal/notifications/worker"
	"fixhub/pkg/app"
	"fixhub/pkg/config"
	"fixhub/pkg/kafka"
	kafka_config "fixhub/pkg/kafka/config"
	kafka_middleware "fixhub/pkg/kafka/middleware"
)

const ServiceName = "notifications"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Notifications service")

	dispatchService := initServices(cfg)
	consumer := initConsumer(cfg, dispatchService)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewNotificationHandler(dispatchService, cfg.Log),
		health.NewHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.OnShutdown(func() {
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka consumer", "error", err)
		}
	})

	if err := consumer.Start(context.Background()); err != nil {
		cfg.Log.Fatal("Failed to start booking events consumer", "error", err)
	}

	serverApp.Run()
}

func initServices(cfg *config.Config) service.DispatchService {
	tokenRepo := repository.NewMongoTokenRepository(cfg)
	pushGateway := gateway.NewHTTPPushGateway(cfg)
	dispatchService := service.NewDispatchService(tokenRepo, pushGateway, cfg)

	cfg.Log.Info("Dispatch service initialized", "database", cfg.MongoDatabaseName)
	return dispatchService
}

func initConsumer(cfg *config.Config, dispatchService service.DispatchService) *kafka.Consumer {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	finder := worker.NewMatchingClientFinder(cfg.MatchingServiceURL)
	eventWorker := worker.NewBookingEventWorker(dispatchService, finder, cfg)

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.BookingEventsTopic,
		cfg.BookingEventsGroupID,
		cfg.BookingEventsDLQTopic,
		eventWorker.Handle,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	return consumer
}
