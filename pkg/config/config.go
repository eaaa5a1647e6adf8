package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"fixhub/pkg/client"
	"fixhub/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	MatchingServiceURL string

	PushGatewayURL  string
	PushGatewayKey  string
	PushSendTimeout time.Duration

	MatchWorkers       int
	MaxMatchCandidates int
	DefaultMatchSort   string

	TokenCleanupRetries int

	BookingEventsTopic    string
	BookingEventsDLQTopic string
	BookingEventsGroupID  string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		MatchingServiceURL: getEnvStr(EnvMatchingServiceURL, DefaultMatchingServiceURL),

		PushGatewayURL:  getEnvStr(EnvPushGatewayURL, DefaultPushGatewayURL),
		PushGatewayKey:  getEnvStr(EnvPushGatewayKey, ""),
		PushSendTimeout: getEnvDuration(EnvPushSendTimeout, DefaultPushSendTimeout),

		MatchWorkers:       getEnvNum(EnvMatchWorkers, DefaultMatchWorkers),
		MaxMatchCandidates: getEnvNum(EnvMaxMatchCandidates, DefaultMaxMatchCandidates),
		DefaultMatchSort:   getEnvStr(EnvDefaultMatchSort, DefaultDefaultMatchSort),

		TokenCleanupRetries: getEnvNum(EnvTokenCleanupRetries, DefaultTokenCleanupRetries),

		BookingEventsTopic:    getEnvStr(EnvBookingEventsTopic, DefaultBookingEventsTopic),
		BookingEventsDLQTopic: getEnvStr(EnvBookingEventsDLQTopic, DefaultBookingEventsDLQTopic),
		BookingEventsGroupID:  getEnvStr(EnvBookingEventsGroupID, DefaultBookingEventsGroupID),

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

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errs = append(errs, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errs = append(errs, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.MatchingServiceURL != "" && !regexp.MustCompile(`^https?://`).MatchString(cfg.MatchingServiceURL) {
		errs = append(errs, fmt.Sprintf("MatchingServiceURL must start with 'http://' or 'https://', got: %s", cfg.MatchingServiceURL))
	}

	if cfg.PushGatewayURL == "" {
		errs = append(errs, "PushGatewayURL cannot be empty")
	} else if !regexp.MustCompile(`^https?://`).MatchString(cfg.PushGatewayURL) {
		errs = append(errs, fmt.Sprintf("PushGatewayURL must start with 'http://' or 'https://', got: %s", cfg.PushGatewayURL))
	}
	if cfg.PushSendTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("PushSendTimeout must be positive, got: %s", cfg.PushSendTimeout))
	}

	if cfg.MatchWorkers <= 0 {
		errs = append(errs, fmt.Sprintf("MatchWorkers must be positive, got: %d", cfg.MatchWorkers))
	}
	if cfg.MaxMatchCandidates <= 0 {
		errs = append(errs, fmt.Sprintf("MaxMatchCandidates must be positive, got: %d", cfg.MaxMatchCandidates))
	}
	switch cfg.DefaultMatchSort {
	case "rating", "price", "jobs":
	default:
		errs = append(errs, fmt.Sprintf("DefaultMatchSort must be one of [rating, price, jobs], got: %s", cfg.DefaultMatchSort))
	}

	if cfg.TokenCleanupRetries < 0 {
		errs = append(errs, fmt.Sprintf("TokenCleanupRetries cannot be negative, got: %d", cfg.TokenCleanupRetries))
	}

	if cfg.BookingEventsTopic == "" {
		errs = append(errs, "BookingEventsTopic cannot be empty")
	}
	if cfg.BookingEventsGroupID == "" {
		errs = append(errs, "BookingEventsGroupID cannot be empty")
	}

	if len(errs) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, e := range errs {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"matching_service_url", cfg.MatchingServiceURL,
		"push_gateway_url", cfg.PushGatewayURL,
		"push_gateway_key_set", cfg.PushGatewayKey != "",
		"push_send_timeout", cfg.PushSendTimeout,
		"match_workers", cfg.MatchWorkers,
		"max_match_candidates", cfg.MaxMatchCandidates,
		"default_match_sort", cfg.DefaultMatchSort,
		"token_cleanup_retries", cfg.TokenCleanupRetries,
		"booking_events_topic", cfg.BookingEventsTopic,
		"booking_events_dlq_topic", cfg.BookingEventsDLQTopic,
		"booking_events_group_id", cfg.BookingEventsGroupID,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
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
