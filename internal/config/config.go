// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds all service configuration
type Config struct {
	HTTPPort       string
	StoreBackend   string
	SessionBackend string

	MongoURI   string
	MongoDB    string
	RedisAddr  string
	SQLitePath string

	HostUsername string
	HostPassword string
	JWTSecret    string
	SessionTTL   time.Duration

	CORS CORSConfig
}

// CORSConfig controls the CORS response headers
type CORSConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not read .env: %v", err)
	}

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	cfg := &Config{
		HTTPPort:       getEnv("PORT", "8080"),
		StoreBackend:   strings.ToLower(getEnv("STORE_BACKEND", BackendMongo)),
		SessionBackend: strings.ToLower(getEnv("SESSION_BACKEND", BackendRedis)),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "carsurvey"),
		RedisAddr:      redisAddr(getEnv("REDIS_URI", "localhost:6379")),
		SQLitePath:     getEnv("SQLITE_PATH", "./data/carsurvey.db"),
		HostUsername:   getEnv("HOST_USERNAME", "admin"),
		HostPassword:   getEnv("HOST_PASSWORD", "password123"),
		JWTSecret:      getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		SessionTTL:     ttl,
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET, POST, PATCH, OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type, Authorization"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the selected backends are known and required fields are set
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	switch c.StoreBackend {
	case BackendMongo, BackendRedis, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	switch c.SessionBackend {
	case BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}
	if c.StoreBackend == BackendSQLite && c.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH cannot be empty")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	return nil
}

// NeedsRedis reports whether any selected backend talks to Redis
func (c *Config) NeedsRedis() bool {
	return c.StoreBackend == BackendRedis || c.SessionBackend == BackendRedis
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// redisAddr strips a redis:// prefix so the value can go straight into redis.Options.Addr
func redisAddr(uri string) string {
	return strings.TrimPrefix(uri, "redis://")
}
