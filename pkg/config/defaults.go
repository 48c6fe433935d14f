package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "stayindia"
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

	// A reservation may span at most one year.
	DefaultMaxBookingSpanDays = 365
	DefaultBookingLockTTL     = 10 * time.Second

	// Nightly price bounds in minor currency units.
	DefaultMinNightlyPrice = 100
	DefaultMaxNightlyPrice = 1_000_000

	// Check-in reminders go out at 08:00 on the check-in day.
	DefaultReminderSendHour     = 8
	DefaultReminderPollInterval = 1 * time.Minute
	DefaultReminderBatchSize    = 50

	DefaultSMTPHost   = "localhost"
	DefaultSMTPPort   = 587
	DefaultSMTPFrom   = "no-reply@stayindia.example"
	DefaultSenderName = "StayIndia"

	DefaultPaginationLimit = 100
)
