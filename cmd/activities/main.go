package main

import (
	"context"

	"paddock/internal/activities/consumer"
	"paddock/internal/activities/handler"
	"paddock/internal/activities/repository"
	"paddock/internal/activities/service"
	"paddock/internal/activities/validator"
	"paddock/pkg/app"
	"paddock/pkg/config"
	"paddock/pkg/kafka"
	kafkaconfig "paddock/pkg/kafka/config"
	kafkamiddleware "paddock/pkg/kafka/middleware"
)

const (
	ServiceName       = "activities"
	workloadGroupRole = "workload"
)

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting Activities service")

	kcfg := kafkaconfig.Load()
	producer := initProducer(cfg, kcfg)
	if producer != nil {
		defer producer.Close()
	}

	activityService := initServices(cfg, producer)

	reservationConsumer := initConsumer(cfg, kcfg, activityService)
	if reservationConsumer != nil {
		defer reservationConsumer.Close()
	}

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewActivityHandler(activityService, cfg.Log))
	serverApp.Run()
}

func initProducer(cfg *config.Config, kcfg *kafkaconfig.Config) *kafka.Producer {
	producer, err := kafka.NewProducer(kcfg, config.TopicActivityEvents, config.TopicActivityEventsDLQ, cfg.Log)
	if err != nil {
		cfg.Log.Warn("Kafka producer unavailable, events disabled", "error", err)
		return nil
	}
	producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafkamiddleware.MetricsProducerMiddleware())
	return producer
}

// initConsumer starts the reservation event consumer that keeps the workload
// ledger in sync with bookings. Returns nil when Kafka is unreachable; chores
// and fairness reports still work, reservation credits just stop accruing.
func initConsumer(cfg *config.Config, kcfg *kafkaconfig.Config, svc service.ActivityService) *kafka.Consumer {
	msgHandler := consumer.NewReservationEventHandler(svc, cfg.Log)
	reservationConsumer, err := kafka.NewConsumer(
		kcfg,
		config.TopicReservationEvents,
		kcfg.ConsumerGroupID(workloadGroupRole),
		config.TopicReservationEventsDLQ,
		msgHandler,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Warn("Kafka consumer unavailable, reservation credits disabled", "error", err)
		return nil
	}
	reservationConsumer.Use(kafkamiddleware.LoggingConsumerMiddleware(cfg.Log))
	reservationConsumer.Use(kafkamiddleware.MetricsConsumerMiddleware())

	go func() {
		if err := reservationConsumer.Start(context.Background()); err != nil {
			cfg.Log.Error("Reservation event consumer stopped", "error", err)
		}
	}()

	return reservationConsumer
}

func initServices(cfg *config.Config, producer *kafka.Producer) service.ActivityService {
	activityValidator := validator.NewActivityValidator(cfg.Log)
	activityRepo := repository.NewMongoActivityRepository(cfg)

	var publisher service.EventPublisher
	if producer != nil {
		publisher = producer
	}

	activityService := service.NewActivityService(
		activityRepo,
		activityValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Activity service initialized", "database", cfg.MongoDatabaseName)
	return activityService
}
