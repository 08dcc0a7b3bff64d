package main

import (
	orderhandler "ginhawa/internal/orders/handler"
	orderrepo "ginhawa/internal/orders/repository"
	orderservice "ginhawa/internal/orders/service"
	ordervalidator "ginhawa/internal/orders/validator"
	reservationhandler "ginhawa/internal/reservations/handler"
	reservationrepo "ginhawa/internal/reservations/repository"
	reservationservice "ginhawa/internal/reservations/service"
	reservationvalidator "ginhawa/internal/reservations/validator"
	"ginhawa/pkg/app"
	"ginhawa/pkg/config"
	"ginhawa/pkg/events"
)

const ServiceName = "dining"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	serverApp := app.NewApplication(ServiceName, cfg)
	publisher, err := events.NewPublisher(cfg.KafkaEnabled, cfg.EventsTopic, cfg.EventsDLQTopic, ServiceName, serverApp.Metrics(), cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create event publisher", "error", err)
	}

	cfg.Log.Info("Starting Dining service")
	orderService, reservationService := initServices(cfg, publisher)

	serverApp.OnShutdown(publisher.Close)
	serverApp.SetApp(
		orderhandler.NewOrderHandler(orderService, serverApp.Guard(), cfg.Log),
		reservationhandler.NewReservationHandler(reservationService, serverApp.Guard(), cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher events.Publisher) (orderservice.OrderService, reservationservice.ReservationService) {
	orderService := orderservice.NewOrderService(
		orderrepo.NewMongoOrderRepository(cfg),
		ordervalidator.NewOrderValidator(cfg.Log),
		publisher,
		cfg,
	)
	reservationService := reservationservice.NewReservationService(
		reservationrepo.NewMongoReservationRepository(cfg),
		reservationvalidator.NewReservationValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Dining services initialized", "database", cfg.MongoDatabaseName)
	return orderService, reservationService
}
