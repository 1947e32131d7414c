package main

import (
	"paddock/internal/reservations/handler"
	"paddock/internal/reservations/repository"
	"paddock/internal/reservations/service"
	"paddock/internal/reservations/validator"
	"paddock/pkg/app"
	"paddock/pkg/client"
	"paddock/pkg/config"
	"paddock/pkg/kafka"
	kafkaconfig "paddock/pkg/kafka/config"
	kafkamiddleware "paddock/pkg/kafka/middleware"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting Reservations service")

	producer := initProducer(cfg)
	if producer != nil {
		defer producer.Close()
	}

	reservationService := initServices(cfg, producer)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewReservationHandler(reservationService, cfg.Log))
	serverApp.Run()
}

// initProducer returns nil when Kafka is unreachable. Reservation writes are
// the source of truth; event delivery is best-effort on top of them.
func initProducer(cfg *config.Config) *kafka.Producer {
	kcfg := kafkaconfig.Load()
	producer, err := kafka.NewProducer(kcfg, config.TopicReservationEvents, config.TopicReservationEventsDLQ, cfg.Log)
	if err != nil {
		cfg.Log.Warn("Kafka producer unavailable, events disabled", "error", err)
		return nil
	}
	producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafkamiddleware.MetricsProducerMiddleware())
	return producer
}

func initServices(cfg *config.Config, producer *kafka.Producer) service.ReservationService {
	reservationValidator := validator.NewReservationValidator(cfg.Log)
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	facilityClient := client.NewFacilityClient(cfg.FacilitiesBaseURL)
	stableClient := client.NewStableClient(cfg.StablesBaseURL)

	var publisher service.EventPublisher
	if producer != nil {
		publisher = producer
	}

	reservationService := service.NewReservationService(
		reservationRepo,
		reservationValidator,
		facilityClient,
		stableClient,
		publisher,
		cfg,
	)

	cfg.Log.Info("Reservation service initialized",
		"database", cfg.MongoDatabaseName,
		"facilities_base_url", cfg.FacilitiesBaseURL,
		"stables_base_url", cfg.StablesBaseURL,
	)
	return reservationService
}
