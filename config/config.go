package config

import (
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Server   ServerConfig
	Auth     AuthConfig
	Jobs     JobsConfig
	Channel  ChannelConfig
	Log      LogConfig
}

// DatabaseConfig holds MySQL connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// RedisConfig holds the rules-cache / job-lock Redis settings
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string
	Port string
}

// AuthConfig holds JWT verification settings. Tokens are issued by the
// external auth collaborator; this service only verifies them.
type AuthConfig struct {
	JWTSecret string
}

// JobsConfig holds background-job scheduling settings
type JobsConfig struct {
	RecomputeCron    string // RECOMPUTE_CRON: nightly category recompute (cron spec)
	FollowupScanCron string // FOLLOWUP_SCAN_CRON: periodic follow-up due scan (cron spec)
	LockTTLSeconds   int    // JOB_LOCK_TTL_SECONDS: redis lock TTL for the recompute runner
}

// ChannelConfig holds the outbound message collaborator endpoint
type ChannelConfig struct {
	WebhookURL     string // CHANNEL_WEBHOOK_URL: where rendered messages are POSTed
	TimeoutSeconds int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level       string
	Environment string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "127.0.0.1"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   getEnv("DB_NAME", "bizledger"),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("PORT", getEnv("SERVER_PORT", "8080")),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		},
		Jobs: JobsConfig{
			RecomputeCron:    getEnv("RECOMPUTE_CRON", "0 2 * * *"),
			FollowupScanCron: getEnv("FOLLOWUP_SCAN_CRON", "*/30 * * * *"),
			LockTTLSeconds:   getEnvInt("JOB_LOCK_TTL_SECONDS", 600),
		},
		Channel: ChannelConfig{
			WebhookURL:     os.Getenv("CHANNEL_WEBHOOK_URL"),
			TimeoutSeconds: getEnvInt("CHANNEL_TIMEOUT_SECONDS", 10),
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
