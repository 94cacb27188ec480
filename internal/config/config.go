package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	S3        S3Config
	AI        AIConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Upload    UploadConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds settings for S3-compatible object storage of raw uploads.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Enabled   bool   `mapstructure:"enabled"`
}

// AIConfig holds settings for the generation provider and the per-chunk
// call discipline.
type AIConfig struct {
	APIKey          string  `mapstructure:"api_key"`
	Model           string  `mapstructure:"model"`
	TimeoutSecs     int     `mapstructure:"timeout_secs"`
	MaxAttempts     int     `mapstructure:"max_attempts"`
	BackoffSecs     int     `mapstructure:"backoff_secs"`
	ChunkMaxChars   int     `mapstructure:"chunk_max_chars"`
	MinTextChars    int     `mapstructure:"min_text_chars"`
	Temperature     float64 `mapstructure:"temperature"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens"`
}

// CacheConfig holds fingerprint cache settings.
type CacheConfig struct {
	MaxEntries int           `mapstructure:"max_entries"`
	TTL        time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds sliding-window admission control settings.
type RateLimitConfig struct {
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

// UploadConfig holds file upload limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxFileSizeBytes returns the upload limit in bytes.
func (u *UploadConfig) MaxFileSizeBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the MEDISCAN_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MEDISCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "mediscan")
	v.SetDefault("db.password", "mediscan_secret")
	v.SetDefault("db.name", "mediscan_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "mediscan-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.enabled", false)

	// AI defaults
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "gemini-2.5-flash")
	v.SetDefault("ai.timeout_secs", 120)
	v.SetDefault("ai.max_attempts", 2)
	v.SetDefault("ai.backoff_secs", 2)
	v.SetDefault("ai.chunk_max_chars", 6000)
	v.SetDefault("ai.min_text_chars", 50)
	v.SetDefault("ai.temperature", 0.2)
	v.SetDefault("ai.max_output_tokens", 4096)

	// Cache defaults
	v.SetDefault("cache.max_entries", 100)
	v.SetDefault("cache.ttl", "1h")

	// Rate limit defaults
	v.SetDefault("rate_limit.max_requests", 5)
	v.SetDefault("rate_limit.window", "60s")

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 10)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:8080,http://127.0.0.1:8080")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "MEDISCAN_SERVER_PORT",
		"server.read_timeout":      "MEDISCAN_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "MEDISCAN_SERVER_WRITE_TIMEOUT",
		"server.environment":       "MEDISCAN_SERVER_ENVIRONMENT",
		"db.host":                  "MEDISCAN_DB_HOST",
		"db.port":                  "MEDISCAN_DB_PORT",
		"db.user":                  "MEDISCAN_DB_USER",
		"db.password":              "MEDISCAN_DB_PASSWORD",
		"db.name":                  "MEDISCAN_DB_NAME",
		"db.sslmode":               "MEDISCAN_DB_SSLMODE",
		"db.max_open":              "MEDISCAN_DB_MAX_OPEN",
		"db.max_idle":              "MEDISCAN_DB_MAX_IDLE",
		"s3.region":                "MEDISCAN_S3_REGION",
		"s3.bucket":                "MEDISCAN_S3_BUCKET",
		"s3.endpoint":              "MEDISCAN_S3_ENDPOINT",
		"s3.access_key":            "MEDISCAN_S3_ACCESS_KEY",
		"s3.secret_key":            "MEDISCAN_S3_SECRET_KEY",
		"s3.enabled":               "MEDISCAN_S3_ENABLED",
		"ai.api_key":               "MEDISCAN_AI_API_KEY",
		"ai.model":                 "MEDISCAN_AI_MODEL",
		"ai.timeout_secs":          "MEDISCAN_AI_TIMEOUT_SECS",
		"ai.max_attempts":          "MEDISCAN_AI_MAX_ATTEMPTS",
		"ai.backoff_secs":          "MEDISCAN_AI_BACKOFF_SECS",
		"ai.chunk_max_chars":       "MEDISCAN_AI_CHUNK_MAX_CHARS",
		"ai.min_text_chars":        "MEDISCAN_AI_MIN_TEXT_CHARS",
		"ai.temperature":           "MEDISCAN_AI_TEMPERATURE",
		"ai.max_output_tokens":     "MEDISCAN_AI_MAX_OUTPUT_TOKENS",
		"cache.max_entries":        "MEDISCAN_CACHE_MAX_ENTRIES",
		"cache.ttl":                "MEDISCAN_CACHE_TTL",
		"rate_limit.max_requests":  "MEDISCAN_RATE_LIMIT_MAX_REQUESTS",
		"rate_limit.window":        "MEDISCAN_RATE_LIMIT_WINDOW",
		"upload.max_file_size_mb":  "MEDISCAN_UPLOAD_MAX_FILE_SIZE_MB",
		"cors.allowed_origins":     "MEDISCAN_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Origins arrive comma-separated from the env; split and trim each entry.
	cfg.CORS.AllowedOrigins = splitAndTrim(strings.Join(cfg.CORS.AllowedOrigins, ","))

	if cfg.AI.Temperature < 0 || cfg.AI.Temperature > 1 {
		return nil, fmt.Errorf("ai.temperature must be between 0.0 and 1.0, got %v", cfg.AI.Temperature)
	}

	return &cfg, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
