package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"stayindia/pkg/client"
	"stayindia/pkg/logger"
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

	MaxBookingSpanDays int
	BookingLockTTL     time.Duration

	MinNightlyPrice int64
	MaxNightlyPrice int64

	ReminderSendHour     int
	ReminderPollInterval time.Duration
	ReminderBatchSize    int

	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	SMTPFrom   string
	SenderName string

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

		MaxBookingSpanDays: getEnvNum(EnvMaxBookingSpanDays, DefaultMaxBookingSpanDays),
		BookingLockTTL:     getEnvDuration(EnvBookingLockTTL, DefaultBookingLockTTL),

		MinNightlyPrice: int64(getEnvNum(EnvMinNightlyPrice, DefaultMinNightlyPrice)),
		MaxNightlyPrice: int64(getEnvNum(EnvMaxNightlyPrice, DefaultMaxNightlyPrice)),

		ReminderSendHour:     getEnvNum(EnvReminderSendHour, DefaultReminderSendHour),
		ReminderPollInterval: getEnvDuration(EnvReminderPollInterval, DefaultReminderPollInterval),
		ReminderBatchSize:    getEnvNum(EnvReminderBatchSize, DefaultReminderBatchSize),

		SMTPHost:   getEnvStr(EnvSMTPHost, DefaultSMTPHost),
		SMTPPort:   getEnvNum(EnvSMTPPort, DefaultSMTPPort),
		SMTPUser:   getEnvStr(EnvSMTPUser, ""),
		SMTPPass:   getEnvStr(EnvSMTPPass, ""),
		SMTPFrom:   getEnvStr(EnvSMTPFrom, DefaultSMTPFrom),
		SenderName: getEnvStr(EnvSenderName, DefaultSenderName),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.FormatJSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
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

	for name, d := range map[string]time.Duration{
		"MongoConnTimeout":     cfg.MongoConnTimeout,
		"RateLimitWindow":      cfg.RateLimitWindow,
		"RequestTimeout":       cfg.RequestTimeout,
		"IdempotencyTTL":       cfg.IdempotencyTTL,
		"ReadTimeout":          cfg.ReadTimeout,
		"WriteTimeout":         cfg.WriteTimeout,
		"IdleTimeout":          cfg.IdleTimeout,
		"ShutdownTimeout":      cfg.ShutdownTimeout,
		"BookingLockTTL":       cfg.BookingLockTTL,
		"ReminderPollInterval": cfg.ReminderPollInterval,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.MaxBookingSpanDays <= 0 {
		errs = append(errs, fmt.Sprintf("MaxBookingSpanDays must be positive, got: %d", cfg.MaxBookingSpanDays))
	}

	if cfg.MinNightlyPrice <= 0 {
		errs = append(errs, fmt.Sprintf("MinNightlyPrice must be positive, got: %d", cfg.MinNightlyPrice))
	}
	if cfg.MaxNightlyPrice < cfg.MinNightlyPrice {
		errs = append(errs, fmt.Sprintf("MaxNightlyPrice (%d) must be >= MinNightlyPrice (%d)", cfg.MaxNightlyPrice, cfg.MinNightlyPrice))
	}

	if cfg.ReminderSendHour < 0 || cfg.ReminderSendHour > 23 {
		errs = append(errs, fmt.Sprintf("ReminderSendHour must be between 0 and 23, got: %d", cfg.ReminderSendHour))
	}
	if cfg.ReminderBatchSize <= 0 {
		errs = append(errs, fmt.Sprintf("ReminderBatchSize must be positive, got: %d", cfg.ReminderBatchSize))
	}

	if cfg.SMTPPort < 1 || cfg.SMTPPort > 65535 {
		errs = append(errs, fmt.Sprintf("SMTPPort must be between 1 and 65535, got: %d", cfg.SMTPPort))
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
		"max_booking_span_days", cfg.MaxBookingSpanDays,
		"booking_lock_ttl", cfg.BookingLockTTL,
		"min_nightly_price", cfg.MinNightlyPrice,
		"max_nightly_price", cfg.MaxNightlyPrice,
		"reminder_send_hour", cfg.ReminderSendHour,
		"reminder_poll_interval", cfg.ReminderPollInterval,
		"reminder_batch_size", cfg.ReminderBatchSize,
		"smtp_host", cfg.SMTPHost,
		"smtp_port", cfg.SMTPPort,
		"smtp_credentials_set", cfg.SMTPUser != "",
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
