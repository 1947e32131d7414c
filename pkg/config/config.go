package config

import (
	"fmt"
	"os"
	"paddock/pkg/client"
	"paddock/pkg/logger"
	"regexp"
	"strconv"
	"time"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	// Shared secret for HMAC-signed requests coming from external booking
	// channels. Empty disables signature verification.
	BookingChannelSecret string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	FacilitiesBaseURL string
	StablesBaseURL    string

	DefaultSlotGranularityMin int
	DefaultMaxHorsesPerSlot   int
	DefaultOpenFrom           string
	DefaultOpenTo             string
	MaxSuggestedSlots         int
	ReservationWorkloadPoints int

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		BookingChannelSecret: getEnvStr(EnvBookingChannelSecret, ""),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		FacilitiesBaseURL: getEnvStr(EnvFacilitiesBaseURL, DefaultFacilitiesBaseURL),
		StablesBaseURL:    getEnvStr(EnvStablesBaseURL, DefaultStablesBaseURL),

		DefaultSlotGranularityMin: getEnvNum(EnvDefaultSlotGranularityMin, DefaultDefaultSlotGranularityMin),
		DefaultMaxHorsesPerSlot:   getEnvNum(EnvDefaultMaxHorsesPerSlot, DefaultDefaultMaxHorsesPerSlot),
		DefaultOpenFrom:           getEnvStr(EnvDefaultOpenFrom, DefaultDefaultOpenFrom),
		DefaultOpenTo:             getEnvStr(EnvDefaultOpenTo, DefaultDefaultOpenTo),
		MaxSuggestedSlots:         getEnvNum(EnvMaxSuggestedSlots, DefaultMaxSuggestedSlots),
		ReservationWorkloadPoints: getEnvNum(EnvReservationWorkloadPoints, DefaultReservationWorkloadPoints),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.FormatJSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

var (
	clockRegex         = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	mongoSchemeRegex   = regexp.MustCompile(`^mongodb(\+srv)?://`)
	mongoCredentialsRe = regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
)

func (cfg *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		problems = append(problems, "MongoURI cannot be empty")
	} else if !mongoSchemeRegex.MatchString(cfg.MongoURI) {
		problems = append(problems, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		problems = append(problems, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if !clockRegex.MatchString(cfg.DefaultOpenFrom) {
		problems = append(problems, fmt.Sprintf("DefaultOpenFrom must be in HH:MM format (00:00-23:59), got: %s", cfg.DefaultOpenFrom))
	}
	if !clockRegex.MatchString(cfg.DefaultOpenTo) {
		problems = append(problems, fmt.Sprintf("DefaultOpenTo must be in HH:MM format (00:00-23:59), got: %s", cfg.DefaultOpenTo))
	}

	if cfg.RateLimitRequests <= 0 {
		problems = append(problems, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		problems = append(problems, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		problems = append(problems, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxRequestSize <= 0 {
		problems = append(problems, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.DefaultSlotGranularityMin < 5 || cfg.DefaultSlotGranularityMin > 240 {
		problems = append(problems, fmt.Sprintf("DefaultSlotGranularityMin must be between 5 and 240, got: %d", cfg.DefaultSlotGranularityMin))
	}
	if cfg.DefaultMaxHorsesPerSlot < 1 {
		problems = append(problems, fmt.Sprintf("DefaultMaxHorsesPerSlot must be at least 1, got: %d", cfg.DefaultMaxHorsesPerSlot))
	}
	if cfg.MaxSuggestedSlots < 0 {
		problems = append(problems, fmt.Sprintf("MaxSuggestedSlots cannot be negative, got: %d", cfg.MaxSuggestedSlots))
	}
	if cfg.ReservationWorkloadPoints < 0 {
		problems = append(problems, fmt.Sprintf("ReservationWorkloadPoints cannot be negative, got: %d", cfg.ReservationWorkloadPoints))
	}

	if len(problems) > 0 {
		msg := "Configuration validation failed:\n"
		for i, p := range problems {
			msg += fmt.Sprintf("  %d. %s\n", i+1, p)
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"booking_channel_secret_set", cfg.BookingChannelSecret != "",
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"facilities_base_url", cfg.FacilitiesBaseURL,
		"stables_base_url", cfg.StablesBaseURL,
		"default_slot_granularity_min", cfg.DefaultSlotGranularityMin,
		"default_max_horses_per_slot", cfg.DefaultMaxHorsesPerSlot,
		"default_open_from", cfg.DefaultOpenFrom,
		"default_open_to", cfg.DefaultOpenTo,
		"max_suggested_slots", cfg.MaxSuggestedSlots,
		"reservation_workload_points", cfg.ReservationWorkloadPoints,
	)
}

func redactMongoURI(uri string) string {
	return mongoCredentialsRe.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
