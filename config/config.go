package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	LogLevel  string
	LogFormat string
}

type ServerConfig struct {
	Port            int
	ReadTimeout     int // seconds
	WriteTimeout    int // seconds
	IdleTimeout     int // seconds
	ShutdownTimeout int // seconds
	CORSOrigin      string
}

type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // seconds, 0 keeps connections forever
	BusyTimeoutMS   int
}

// Load creates a new Config from environment variables with defaults.
// Values from a .env file in the working directory are applied first and
// never override variables already present in the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:            getEnvInt("PORT", 5001),
			ReadTimeout:     getEnvInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvInt("WRITE_TIMEOUT", 15),
			IdleTimeout:     getEnvInt("IDLE_TIMEOUT", 60),
			ShutdownTimeout: getEnvInt("SHUTDOWN_TIMEOUT", 30),
			CORSOrigin:      getEnv("CORS_ORIGIN", "*"),
		},
		Database: DatabaseConfig{
			Path:            getEnv("DB_PATH", "data/library.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 1),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 1),
			ConnMaxLifetime: getEnvInt("DB_CONN_MAX_LIFETIME", 0),
			BusyTimeoutMS:   getEnvInt("DB_BUSY_TIMEOUT_MS", 5000),
		},
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
