package config

import (
	"os"
	"strconv"
)

// MongoConfig holds document store connection settings.
type MongoConfig struct {
	// URI, when set, is used verbatim and takes precedence over the
	// individual Host/Port/User/Password/Options fields.
	URI               string
	Host              string
	Port              string
	User              string
	Password          string
	Options           string
	Database          string
	MaxPoolSize       int
	ConnectTimeoutSec int
	OpTimeoutSec      int
}

// LogConfig controls the process-wide structured logger.
type LogConfig struct {
	Level     string
	Format    string
	AddSource bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost            string
	Port               string
	BodyLimitBytes     int
	ShutdownTimeoutSec int
	Mongo              MongoConfig
	Log                LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:            getEnv("APP_HOST", "localhost:8080"),
		Port:               getEnv("PORT", "8080"),
		BodyLimitBytes:     getEnvInt("BODY_LIMIT_BYTES", 16*1024*1024),
		ShutdownTimeoutSec: getEnvInt("SHUTDOWN_TIMEOUT_SEC", 10),
		Mongo: MongoConfig{
			URI:               getEnv("MONGO_URI", ""),
			Host:              getEnv("MONGO_HOST", ""),
			Port:              getEnv("MONGO_PORT", "27017"),
			User:              getEnv("MONGO_USER", ""),
			Password:          getEnv("MONGO_PASSWORD", ""),
			Options:           getEnv("MONGO_OPTIONS", ""),
			Database:          getEnv("MONGO_DATABASE", "multimedia_db"),
			MaxPoolSize:       getEnvInt("MONGO_MAX_POOL_SIZE", 20),
			ConnectTimeoutSec: getEnvInt("MONGO_CONNECT_TIMEOUT_SEC", 10),
			OpTimeoutSec:      getEnvInt("MONGO_OP_TIMEOUT_SEC", 10),
		},
		Log: LogConfig{
			Level:     getEnv("LOG_LEVEL", "info"),
			Format:    getEnv("LOG_FORMAT", "json"),
			AddSource: getEnvBool("LOG_ADD_SOURCE", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
