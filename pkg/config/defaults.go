package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "paddock"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultFacilitiesBaseURL = "http://localhost:8083"
	DefaultStablesBaseURL    = "http://localhost:8081"

	DefaultDefaultSlotGranularityMin = 30
	DefaultDefaultMaxHorsesPerSlot   = 1
	DefaultDefaultOpenFrom           = "08:00"
	DefaultDefaultOpenTo             = "20:00"
	DefaultMaxSuggestedSlots         = 3
	DefaultReservationWorkloadPoints = 1

	DefaultPaginationLimit = 100

	// Kafka topic names shared by the reservations producer and the
	// activities workload consumer.
	TopicReservationEvents    = "reservation-events"
	TopicReservationEventsDLQ = "reservation-events-dlq"
	TopicActivityEvents       = "activity-events"
	TopicActivityEventsDLQ    = "activity-events-dlq"
)
