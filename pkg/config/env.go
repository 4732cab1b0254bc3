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

	EnvMaxBookingDurationMin = "MAX_BOOKING_DURATION_MIN"
	EnvMinBookingDurationMin = "MIN_BOOKING_DURATION_MIN"

	EnvLockTTL            = "BOOKING_LOCK_TTL"
	EnvLockRetryInterval  = "BOOKING_LOCK_RETRY_INTERVAL"
	EnvLockAcquireTimeout = "BOOKING_LOCK_ACQUIRE_TIMEOUT"
)
