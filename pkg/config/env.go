package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvBookingChannelSecret = "BOOKING_CHANNEL_SECRET"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvFacilitiesBaseURL = "FACILITIES_BASE_URL"
	EnvStablesBaseURL    = "STABLES_BASE_URL"

	EnvDefaultSlotGranularityMin = "DEFAULT_SLOT_GRANULARITY_MIN"
	EnvDefaultMaxHorsesPerSlot   = "DEFAULT_MAX_HORSES_PER_SLOT"
	EnvDefaultOpenFrom           = "DEFAULT_OPEN_FROM"
	EnvDefaultOpenTo             = "DEFAULT_OPEN_TO"
	EnvMaxSuggestedSlots         = "MAX_SUGGESTED_SLOTS"
	EnvReservationWorkloadPoints = "RESERVATION_WORKLOAD_POINTS"
)
