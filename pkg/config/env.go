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

	EnvMaxBookingSpanDays = "MAX_BOOKING_SPAN_DAYS"
	EnvBookingLockTTL     = "BOOKING_LOCK_TTL"

	EnvMinNightlyPrice = "MIN_NIGHTLY_PRICE"
	EnvMaxNightlyPrice = "MAX_NIGHTLY_PRICE"

	EnvReminderSendHour     = "REMINDER_SEND_HOUR"
	EnvReminderPollInterval = "REMINDER_POLL_INTERVAL"
	EnvReminderBatchSize    = "REMINDER_BATCH_SIZE"

	EnvSMTPHost   = "SMTP_HOST"
	EnvSMTPPort   = "SMTP_PORT"
	EnvSMTPUser   = "SMTP_USER"
	EnvSMTPPass   = "SMTP_PASS"
	EnvSMTPFrom   = "SMTP_FROM"
	EnvSenderName = "SMTP_SENDER_NAME"
)
