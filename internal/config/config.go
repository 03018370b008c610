package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string

	// TLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Cache store
	CacheBackend string // "sqlite" (default), "postgres" or "redis"
	SQLitePath   string // env: DB_PATH
	DatabaseURL  string
	RedisURL     string

	// Google Custom Search
	GoogleAPIKey string // env: API_KEY
	GoogleCSEID  string // env: CSE_ID
	SearchSuffix string // appended to every image query, default "dish"

	// AI menu parser (optional; menu analysis is disabled without a key)
	AIBaseURL string
	AIAPIKey  string
	AIModel   string

	// Bulk resolution
	MaxBulkKeywords int // per-request keyword cap
	BulkConcurrency int // fan-out limit inside one bulk request

	// Dev seeding
	SeedFile string // optional YAML file with cache entries to preload
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:         getEnv("ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
		TLSEnabled:  getEnv("TLS_ENABLED", "") != "",
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", ""),

		CacheBackend: getEnv("CACHE_BACKEND", "sqlite"),
		SQLitePath:   getEnv("DB_PATH", "cache.db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379"),

		GoogleAPIKey: getEnv("API_KEY", ""),
		GoogleCSEID:  getEnv("CSE_ID", ""),
		SearchSuffix: getEnv("SEARCH_SUFFIX", "dish"),

		AIBaseURL: getEnv("AI_BASE_URL", ""),
		AIAPIKey:  getEnv("AI_API_KEY", ""),
		AIModel:   getEnv("AI_MODEL", ""),

		MaxBulkKeywords: getEnvInt("MAX_BULK_KEYWORDS", 50),
		BulkConcurrency: getEnvInt("BULK_CONCURRENCY", 8),

		SeedFile: getEnv("SEED_FILE", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}
