package main

import (
	"ginhawa/internal/housekeeping/handler"
	"ginhawa/internal/housekeeping/repository"
	"ginhawa/internal/housekeeping/service"
	"ginhawa/internal/housekeeping/validator"
	"ginhawa/pkg/app"
	"ginhawa/pkg/config"
	"ginhawa/pkg/events"
)

const ServiceName = "housekeeping"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	serverApp := app.NewApplication(ServiceName, cfg)
	publisher, err := events.NewPublisher(cfg.KafkaEnabled, cfg.EventsTopic, cfg.EventsDLQTopic, ServiceName, serverApp.Metrics(), cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create event publisher", "error", err)
	}

	cfg.Log.Info("Starting Housekeeping service")
	housekeepingService := initServices(cfg, publisher)

	serverApp.OnShutdown(publisher.Close)
	serverApp.SetApp(handler.NewHousekeepingHandler(housekeepingService, serverApp.Guard(), cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher events.Publisher) service.HousekeepingService {
	housekeepingValidator := validator.NewHousekeepingValidator(cfg.Log)
	housekeepingRepo := repository.NewMongoHousekeepingRepository(cfg)
	housekeepingService := service.NewHousekeepingService(
		housekeepingRepo,
		housekeepingValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Housekeeping service initialized", "database", cfg.MongoDatabaseName)
	return housekeepingService
}
