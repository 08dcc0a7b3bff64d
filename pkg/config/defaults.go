package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "ginhawa"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 120
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100

	DefaultHotelTimeZone = "Asia/Manila"

	DefaultTokenTTL   = 12 * time.Hour
	DefaultBcryptCost = 10

	DefaultRedisDB          = 0
	DefaultRedisConnTimeout = 2 * time.Second

	DefaultKafkaEnabled   = false
	DefaultEventsTopic    = "ginhawa.events"
	DefaultEventsDLQTopic = "ginhawa.events.dlq"
	DefaultConsumerGroup  = "ginhawa-billing"

	DefaultLockTTL = 10 * time.Second

	DefaultSeedPassword = "ginhawa-demo"
)
