// Package config provides configuration management for the application
package config

import (
	"os"
	"strconv"
	"time"
)

// ServerConfig holds HTTP server and push-cadence configuration
type ServerConfig struct {
	Port string
	// Interval between periodic full-status pushes
	PushInterval time.Duration
	// Seed the default campus rooms when the store is empty
	SeedRooms bool
}

// AuthConfig holds bearer-token verification configuration
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	Issuer    string
}

// RedisConfig holds Redis/Valkey configuration
type RedisConfig struct {
	Enabled bool
	// URI is prioritized if provided, otherwise individual connection parameters are used
	URI       string
	Host      string
	Port      string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
	// TTL for room records (0 means no expiration)
	RoomTTL time.Duration
}

// GetServerConfig loads server configuration from environment variables
func GetServerConfig() ServerConfig {
	pushSeconds, _ := strconv.Atoi(getEnv("PUSH_INTERVAL_SECONDS", "30"))

	return ServerConfig{
		Port:         getEnv("PORT", "8080"),
		PushInterval: time.Duration(pushSeconds) * time.Second,
		SeedRooms:    getEnvBool("SEED_ROOMS", false),
	}
}

// GetAuthConfig loads authentication configuration from environment variables
func GetAuthConfig() AuthConfig {
	ttlHours, _ := strconv.Atoi(getEnv("TOKEN_TTL_HOURS", "24"))

	return AuthConfig{
		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  time.Duration(ttlHours) * time.Hour,
		Issuer:    getEnv("TOKEN_ISSUER", "roomboard"),
	}
}

// GetRedisConfig loads Redis/Valkey configuration from environment variables
func GetRedisConfig() RedisConfig {
	// Parse TTL from environment variable (in hours)
	ttlHours, _ := strconv.Atoi(getEnv("REDIS_ROOM_TTL_HOURS", "0"))
	ttl := time.Duration(ttlHours) * time.Hour

	// Parse DB index
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	return RedisConfig{
		Enabled:   getEnvBool("REDIS_ENABLED", false),
		URI:       getEnv("REDIS_URI_ROOMBOARD", ""),
		Host:      getEnv("REDIS_HOST_ROOMBOARD", getEnv("REDIS_ADDRESS", "localhost")),
		Port:      getEnv("REDIS_PORT_ROOMBOARD", "6379"),
		Username:  getEnv("REDIS_USERNAME_ROOMBOARD", ""),
		Password:  getEnv("REDIS_PASSWORD_ROOMBOARD", getEnv("REDIS_PASSWORD", "")),
		DB:        db,
		KeyPrefix: getEnv("REDIS_KEY_PREFIX", "roomboard:"),
		RoomTTL:   ttl,
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool retrieves a boolean environment variable
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
