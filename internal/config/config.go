package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds configuration for the image gateway.
type Config struct {
	HTTPPort   string
	JWTSecret  []byte
	JWTTTL     time.Duration
	Database   DatabaseConfig
	Redis      RedisConfig
	Storage    StorageConfig
	Prediction PredictionConfig
	Credits    CreditsConfig
	RateLimit  RateLimitConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StorageConfig holds S3 settings for the two image buckets.
type StorageConfig struct {
	Region          string
	GeneratedBucket string
	UploadsBucket   string
	// PublicBaseURL overrides the default virtual-hosted S3 URL when the
	// buckets sit behind a CDN. Leave empty for plain S3 URLs.
	PublicBaseURL string
}

// PredictionConfig holds settings for the upstream prediction provider.
type PredictionConfig struct {
	BaseURL      string
	APIToken     string
	ModelVersion string
	PollInterval time.Duration
	PollAttempts int
	HTTPTimeout  time.Duration
}

// CreditsConfig holds credit ledger policy settings.
type CreditsConfig struct {
	SignupGrant int
	CacheTTL    time.Duration
}

// RateLimitConfig holds per-user limits on the generate endpoint.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
}

func getEnvInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}

	return duration
}

func getEnvString(key string, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	predictionToken := os.Getenv("PREDICTION_API_TOKEN")
	if predictionToken == "" {
		return nil, fmt.Errorf("PREDICTION_API_TOKEN is required")
	}

	cfg := &Config{
		HTTPPort:  getEnvString("HTTP_PORT", "8080"),
		JWTSecret: []byte(getEnvString("JWT_SECRET", "supersecretkey")),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),
		Database: DatabaseConfig{
			URL:             dbURL,
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 1*time.Minute),
		},
		Redis: RedisConfig{
			Address:      getEnvString("REDIS_ADDRESS", "localhost:6379"),
			Password:     getEnvString("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Storage: StorageConfig{
			Region:          getEnvString("STORAGE_REGION", "us-east-1"),
			GeneratedBucket: getEnvString("STORAGE_GENERATED_BUCKET", "generated-images"),
			UploadsBucket:   getEnvString("STORAGE_UPLOADS_BUCKET", "user-uploads"),
			PublicBaseURL:   getEnvString("STORAGE_PUBLIC_BASE_URL", ""),
		},
		Prediction: PredictionConfig{
			BaseURL:      getEnvString("PREDICTION_BASE_URL", "https://api.replicate.com/v1"),
			APIToken:     predictionToken,
			ModelVersion: getEnvString("PREDICTION_MODEL_VERSION", "858e56734846d24469ed35a07ca2161aaf4f83588d7060e32964926e1b73b7be"),
			PollInterval: getEnvDuration("PREDICTION_POLL_INTERVAL", 1*time.Second),
			PollAttempts: getEnvInt("PREDICTION_POLL_ATTEMPTS", 60),
			HTTPTimeout:  getEnvDuration("PREDICTION_HTTP_TIMEOUT", 30*time.Second),
		},
		Credits: CreditsConfig{
			SignupGrant: getEnvInt("CREDITS_SIGNUP_GRANT", 50),
			CacheTTL:    getEnvDuration("CREDITS_CACHE_TTL", 30*time.Second),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnvString("RATE_LIMIT_ENABLED", "true") == "true",
			RequestsPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 10),
		},
	}

	return cfg, nil
}
