package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port                 string
	AllowedOrigins       []string
	FrontendURL          string
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	RedisURL             string
	RedisPassword        string
	LogLevel             string
	LogFormat            string
	CellWidth            int
	SessionIdleTimeout   time.Duration
	ResultRetentionDays  int
	CleanupInterval      time.Duration
	Debug                bool
}

// LoadConfig reads the configuration from the environment. Problems with
// individual values fall back to defaults and are reported in warnings so
// the caller can log them once a logger exists.
func LoadConfig() (*Config, []string) {
	var warnings []string
	warn := func(msg string) { warnings = append(warnings, msg) }

	port := GetEnv("PORT", "8080")

	// Frontend & CORS
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")
	allowedOriginsStr := GetEnv("ALLOWED_ORIGINS", "")

	// Build allowed origins list (Frontend URL + Localhost + CSV values)
	allowedOrigins := []string{
		frontendURL,
		"http://localhost:" + port,
	}
	if allowedOriginsStr != "" {
		for _, origin := range strings.Split(allowedOriginsStr, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	// Results store
	dbURL := GetEnv("DATABASE_URL", GetEnv("DATABASE_URI", ""))
	dbMaxOpenConns := getEnvAsInt("DB_MAX_OPEN_CONNS", 10, warn)
	dbMaxIdleConns := getEnvAsInt("DB_MAX_IDLE_CONNS", 10, warn)
	dbConnMaxLifetimeMin := getEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5, warn)

	// Scoreboard
	redisURL := GetEnv("REDIS_URL", "")
	redisPassword := GetEnv("REDIS_PASSWORD", "")

	cellWidth := getEnvAsInt("CELL_WIDTH", 4, warn)
	if cellWidth < 2 {
		warn(fmt.Sprintf("CELL_WIDTH must be at least 2, got %d, using 2", cellWidth))
		cellWidth = 2
	}

	idleMinutes := getEnvAsPositiveInt("SESSION_IDLE_MINUTES", 30, warn)
	retentionDays := getEnvAsInt("RESULT_RETENTION_DAYS", 30, warn)
	cleanupMinutes := getEnvAsPositiveInt("CLEANUP_INTERVAL_MINUTES", 60, warn)

	return &Config{
		Port:                 port,
		AllowedOrigins:       allowedOrigins,
		FrontendURL:          frontendURL,
		DatabaseURL:          dbURL,
		DBMaxOpenConns:       dbMaxOpenConns,
		DBMaxIdleConns:       dbMaxIdleConns,
		DBConnMaxLifetimeMin: dbConnMaxLifetimeMin,
		RedisURL:             redisURL,
		RedisPassword:        redisPassword,
		LogLevel:             GetEnv("LOG_LEVEL", "info"),
		LogFormat:            GetEnv("LOG_FORMAT", "json"),
		CellWidth:            cellWidth,
		SessionIdleTimeout:   time.Duration(idleMinutes) * time.Minute,
		ResultRetentionDays:  retentionDays,
		CleanupInterval:      time.Duration(cleanupMinutes) * time.Minute,
		Debug:                GetEnvAsBool("DEBUG", false),
	}, warnings
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int, warn func(string)) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		warn(fmt.Sprintf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue))
		return defaultValue
	}
	return value
}

// getEnvAsPositiveInt is getEnvAsInt for settings where zero or less makes
// no sense (tickers, timeouts).
func getEnvAsPositiveInt(key string, defaultValue int, warn func(string)) int {
	value := getEnvAsInt(key, defaultValue, warn)
	if value < 1 {
		warn(fmt.Sprintf("%s must be at least 1, got %d, using default: %d", key, value, defaultValue))
		return defaultValue
	}
	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
