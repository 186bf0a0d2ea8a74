package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the process-wide immutable configuration, loaded once at startup
// and passed explicitly into constructors.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Notifx    NotifxConfig
	RateLimit RateLimitConfig
}

// Load reads the full configuration from the environment.
func Load() *Config {
	return &Config{
		Server:    loadServerConfig(),
		Database:  loadDatabaseConfig(),
		Redis:     loadRedisConfig(),
		Auth:      loadAuthConfig(),
		Notifx:    loadNotifxConfig(),
		RateLimit: loadRateLimitConfig(),
	}
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int
	CORSOrigins string
	AppName     string
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:        getEnvInt("PORT", 4000),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		AppName:     getEnv("APP_NAME", "Turnkey Auth"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
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
