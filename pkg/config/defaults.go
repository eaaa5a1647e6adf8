package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "fixhub"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultMatchingServiceURL = "http://localhost:8082"

	DefaultPushGatewayURL  = "http://localhost:9400"
	DefaultPushSendTimeout = 10 * time.Second

	DefaultMatchWorkers       = 8
	DefaultMaxMatchCandidates = 500
	DefaultDefaultMatchSort   = "rating"

	DefaultTokenCleanupRetries = 1

	DefaultBookingEventsTopic    = "booking-events"
	DefaultBookingEventsDLQTopic = "booking-events-dlq"
	DefaultBookingEventsGroupID  = "notifications"

	DefaultPaginationLimit = 100
)
