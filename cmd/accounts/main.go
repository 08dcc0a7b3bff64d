package main

import (
	"ginhawa/internal/accounts/handler"
	"ginhawa/internal/accounts/repository"
	"ginhawa/internal/accounts/service"
	"ginhawa/internal/accounts/validator"
	"ginhawa/pkg/app"
	"ginhawa/pkg/auth"
	"ginhawa/pkg/config"
)

const ServiceName = "accounts"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Accounts service")
	accountService := initServices(cfg)

	serverApp := app.NewApplication(ServiceName, cfg)
	serverApp.SetApp(handler.NewAccountHandler(accountService, serverApp.Guard(), cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.AccountService {
	var issuer *auth.TokenIssuer
	if cfg.AuthEnabled() {
		issuer = auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	} else {
		cfg.Log.Warn("JWT_SECRET not set, logins will not return tokens")
	}

	accountValidator := validator.NewAccountValidator(cfg.Log)
	accountRepo := repository.NewMongoAccountRepository(cfg)
	accountService := service.NewAccountService(
		accountRepo,
		accountValidator,
		issuer,
		cfg,
	)

	cfg.Log.Info("Account service initialized", "database", cfg.MongoDatabaseName)
	return accountService
}
