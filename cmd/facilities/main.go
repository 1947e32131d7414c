package main

import (
	"paddock/internal/facilities/handler"
	"paddock/internal/facilities/repository"
	"paddock/internal/facilities/service"
	"paddock/internal/facilities/validator"
	"paddock/pkg/app"
	"paddock/pkg/config"
)

const ServiceName = "facilities"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting Facilities service")
	facilityService := initServices(cfg)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewFacilityHandler(facilityService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.FacilityService {
	facilityValidator := validator.NewFacilityValidator(cfg.Log)
	facilityRepo := repository.NewMongoFacilityRepository(cfg)
	facilityService := service.NewFacilityService(
		facilityRepo,
		facilityValidator,
		cfg,
	)

	cfg.Log.Info("Facility service initialized", "database", cfg.MongoDatabaseName)
	return facilityService
}
