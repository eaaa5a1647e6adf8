package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvMatchingServiceURL = "MATCHING_SERVICE_URL"

	EnvPushGatewayURL  = "PUSH_GATEWAY_URL"
	EnvPushGatewayKey  = "PUSH_GATEWAY_KEY"
	EnvPushSendTimeout = "PUSH_SEND_TIMEOUT"

	EnvMatchWorkers       = "MATCH_WORKERS"
	EnvMaxMatchCandidates = "MAX_MATCH_CANDIDATES"
	EnvDefaultMatchSort   = "DEFAULT_MATCH_SORT"

	EnvTokenCleanupRetries = "TOKEN_CLEANUP_RETRIES"

	EnvBookingEventsTopic    = "BOOKING_EVENTS_TOPIC"
	EnvBookingEventsDLQTopic = "BOOKING_EVENTS_DLQ_TOPIC"
	EnvBookingEventsGroupID  = "BOOKING_EVENTS_GROUP_ID"
)
