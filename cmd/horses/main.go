package main

import (
	"paddock/internal/horses/handler"
	"paddock/internal/horses/repository"
	"paddock/internal/horses/service"
	"paddock/internal/horses/validator"
	"paddock/pkg/app"
	"paddock/pkg/config"
)

const ServiceName = "horses"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting Horses service")
	horseService := initServices(cfg)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewHorseHandler(horseService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.HorseService {
	horseValidator := validator.NewHorseValidator(cfg.Log)
	horseRepo := repository.NewMongoHorseRepository(cfg)
	horseService := service.NewHorseService(
		horseRepo,
		horseValidator,
		cfg,
	)

	cfg.Log.Info("Horse service initialized", "database", cfg.MongoDatabaseName)
	return horseService
}
