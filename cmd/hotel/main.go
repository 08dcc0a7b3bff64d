package main

import (
	bookinghandler "ginhawa/internal/bookings/handler"
	bookingrepo "ginhawa/internal/bookings/repository"
	bookingservice "ginhawa/internal/bookings/service"
	bookingvalidator "ginhawa/internal/bookings/validator"
	frontofficehandler "ginhawa/internal/frontoffice/handler"
	frontofficeservice "ginhawa/internal/frontoffice/service"
	roomhandler "ginhawa/internal/rooms/handler"
	roomrepo "ginhawa/internal/rooms/repository"
	roomservice "ginhawa/internal/rooms/service"
	"ginhawa/pkg/app"
	"ginhawa/pkg/config"
	mongotx "ginhawa/pkg/db/mongo"
	"ginhawa/pkg/events"
)

const ServiceName = "hotel"

type services struct {
	rooms       roomservice.RoomService
	bookings    bookingservice.BookingService
	frontOffice frontofficeservice.FrontOfficeService
}

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	serverApp := app.NewApplication(ServiceName, cfg)
	publisher, err := events.NewPublisher(cfg.KafkaEnabled, cfg.EventsTopic, cfg.EventsDLQTopic, ServiceName, serverApp.Metrics(), cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create event publisher", "error", err)
	}

	cfg.Log.Info("Starting Hotel service")
	svc := initServices(cfg, publisher)

	serverApp.OnShutdown(publisher.Close)
	guard := serverApp.Guard()
	serverApp.SetApp(
		roomhandler.NewRoomHandler(svc.rooms, guard, cfg.Log),
		bookinghandler.NewBookingHandler(svc.bookings, guard, cfg.Log),
		frontofficehandler.NewFrontOfficeHandler(svc.frontOffice, guard, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher events.Publisher) services {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	bookingValidator := bookingvalidator.NewBookingValidator(cfg.Log)
	bookingRepo := bookingrepo.NewMongoBookingRepository(cfg)
	roomRepo := roomrepo.NewMongoRoomRepository(cfg)

	txManager := mongotx.NewTransactionManager(cfg.Client.Mongo)
	locker := mongotx.NewLocker(db, cfg.WriteTimeout, func(name string, err error) {
		cfg.Log.Warn("Failed to release lock", "lock", name, "error", err)
	})

	svc := services{
		rooms:    roomservice.NewRoomService(roomRepo, cfg),
		bookings: bookingservice.NewBookingService(bookingRepo, bookingValidator, publisher, cfg),
		frontOffice: frontofficeservice.NewFrontOfficeService(
			bookingRepo,
			roomRepo,
			txManager,
			locker,
			bookingValidator,
			publisher,
			cfg,
		),
	}

	cfg.Log.Info("Hotel services initialized", "database", cfg.MongoDatabaseName)
	return svc
}
