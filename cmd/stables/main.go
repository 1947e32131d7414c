package main

import (
	"paddock/internal/stables/handler"
	"paddock/internal/stables/repository"
	"paddock/internal/stables/service"
	"paddock/internal/stables/validator"
	"paddock/pkg/app"
	"paddock/pkg/config"
)

const ServiceName = "stables"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting Stables service")
	stableService := initServices(cfg)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewStableHandler(stableService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.StableService {
	stableValidator := validator.NewStableValidator(cfg.Log)
	stableRepo := repository.NewMongoStableRepository(cfg)
	stableService := service.NewStableService(
		stableRepo,
		stableValidator,
		cfg,
	)

	cfg.Log.Info("Stable service initialized", "database", cfg.MongoDatabaseName)
	return stableService
}
