package main

import (
	"fixhub/internal/health"
	"fixhub/internal/matching/handler"
	"fixhub/internal/matching/repository"
	"fixhub/internal/matching/service"
	"fixhub/pkg/app"
	"fixhub/pkg/config"
)

const ServiceName = "matching"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Matching service")
	matchingService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewMatchingHandler(matchingService, cfg.Log),
		health.NewHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.MatchingService {
	directoryRepo := repository.NewMongoDirectoryRepository(cfg)
	matchingService := service.NewMatchingService(directoryRepo, cfg)

	cfg.Log.Info("Matching service initialized",
		"database", cfg.MongoDatabaseName,
		"workers", cfg.MatchWorkers,
	)
	return matchingService
}
