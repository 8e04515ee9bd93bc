package batchwatch

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds configuration for a batchwatch process.
type Config struct {
	// Store selects the backend: memory, redis, postgres, bun, sqlite or mongo.
	Store string

	// DSN is the backend connection string. Ignored by the memory store.
	DSN string

	// Table is the table (or collection) holding job records.
	Table string

	// Codec selects the value encoding for key/value backends (msgpack or json).
	Codec string

	// HTTPAddr is the listen address of the query API.
	HTTPAddr string

	// StoreTimeout bounds every individual store call.
	StoreTimeout time.Duration

	// CacheTTL is how long a scanned record set is served before the next
	// read goes back to the store. Zero disables the cache.
	CacheTTL time.Duration

	// ScanPageSize is the number of records requested per store page.
	ScanPageSize int

	// ScanRate limits page requests per second during a scan. Zero means
	// unlimited.
	ScanRate float64

	// AMQPURL enables the AMQP ingestion consumer when non-empty.
	AMQPURL string

	// AMQPQueue is the queue the consumer reads events from.
	AMQPQueue string

	// ReportSchedule is the cron expression for the periodic statistics
	// report. Empty disables it.
	ReportSchedule string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Store:          "memory",
		Table:          "batchwatch_records",
		Codec:          "msgpack",
		HTTPAddr:       ":8080",
		StoreTimeout:   10 * time.Second,
		CacheTTL:       60 * time.Second,
		ScanPageSize:   100,
		AMQPQueue:      "batchwatch.events",
		ReportSchedule: "@every 1m",
		LogLevel:       "info",
	}
}

// LoadConfig overlays BATCHWATCH_* environment variables on DefaultConfig.
// Unparsable values fall back to the default.
func LoadConfig() Config {
	d := DefaultConfig()
	return Config{
		Store:          strings.ToLower(getEnv("BATCHWATCH_STORE", d.Store)),
		DSN:            getEnv("BATCHWATCH_DSN", d.DSN),
		Table:          getEnv("BATCHWATCH_TABLE", d.Table),
		Codec:          getEnv("BATCHWATCH_CODEC", d.Codec),
		HTTPAddr:       getEnv("BATCHWATCH_HTTP_ADDR", d.HTTPAddr),
		StoreTimeout:   getEnvAsDuration("BATCHWATCH_STORE_TIMEOUT", d.StoreTimeout),
		CacheTTL:       getEnvAsDuration("BATCHWATCH_CACHE_TTL", d.CacheTTL),
		ScanPageSize:   getEnvAsInt("BATCHWATCH_SCAN_PAGE_SIZE", d.ScanPageSize),
		ScanRate:       getEnvAsFloat("BATCHWATCH_SCAN_RATE", d.ScanRate),
		AMQPURL:        getEnv("BATCHWATCH_AMQP_URL", d.AMQPURL),
		AMQPQueue:      getEnv("BATCHWATCH_AMQP_QUEUE", d.AMQPQueue),
		ReportSchedule: getEnv("BATCHWATCH_REPORT_SCHEDULE", d.ReportSchedule),
		LogLevel:       getEnv("BATCHWATCH_LOG_LEVEL", d.LogLevel),
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
