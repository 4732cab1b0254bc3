package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "reservo"
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

	DefaultPaginationLimit = 100

	// Service durations are bounded so the conflict prefilter window stays
	// sound: no active booking can start earlier than the candidate start
	// minus the maximum duration and still overlap the candidate.
	DefaultMaxBookingDurationMin = 480
	DefaultMinBookingDurationMin = 5

	DefaultLockTTL            = 10 * time.Second
	DefaultLockRetryInterval  = 25 * time.Millisecond
	DefaultLockAcquireTimeout = 2 * time.Second
)
