package main

import (
	"ginhawa/internal/billing/consumer"
	"ginhawa/internal/billing/handler"
	"ginhawa/internal/billing/repository"
	"ginhawa/internal/billing/service"
	"ginhawa/internal/billing/validator"
	"ginhawa/pkg/app"
	"ginhawa/pkg/config"
)

const ServiceName = "billing"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Billing service")
	billingService := initServices(cfg)

	serverApp := app.NewApplication(ServiceName, cfg)

	worker, err := consumer.NewWorker(cfg, consumer.NewRouter(billingService, cfg.Log), serverApp.Metrics())
	if err != nil {
		cfg.Log.Fatal("Failed to create billing event consumer", "error", err)
	}
	if worker != nil {
		serverApp.AddWorker(worker)
	}

	serverApp.SetApp(handler.NewInvoiceHandler(billingService, serverApp.Guard(), cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.BillingService {
	invoiceValidator := validator.NewInvoiceValidator(cfg.Log)
	invoiceRepo := repository.NewMongoInvoiceRepository(cfg)
	billingService := service.NewBillingService(
		invoiceRepo,
		invoiceValidator,
		cfg,
	)

	cfg.Log.Info("Billing service initialized", "database", cfg.MongoDatabaseName)
	return billingService
}
