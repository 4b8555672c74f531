package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv             string
	LogLevel           slog.Level
	LogFile            string
	LogMaxSizeMB       int64
	LogMaxBackups      int64
	LogMaxAgeDays      int64
	ApiServicePort     string
	ApiPrefix          string
	DBDriver           string
	SQLitePath         string
	PostgreSQLHost     string
	PostgreSQLPort     int64
	PostgreSQLUser     string
	PostgreSQLPassword string
	PostgreSQLDatabase string
	PostgreSQLSSLMode  string
	DBMaxRetries       int64
	JWTSecret          string
	TokenExpiration    int64 // Token lifetime in seconds
	BcryptCost         int64
	RedisEnabled       bool
	RedisHost          string
	RedisPort          int64
	RedisPassword      string
	RedisDatabase      int64
	LoginRateLimit     int64 // Attempts allowed per window
	LoginRateWindow    int64 // Window length in seconds
	ShutdownTimeout    int64 // Seconds
}

// LoadConfig builds the configuration from defaults, the optional YAML file
// named by CONFIG_FILE and the environment, in increasing precedence.
func LoadConfig() (*Config, error) {
	file, err := loadFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}
	env := func(key, fallback string) string {
		return getEnv(key, file.value(key, fallback))
	}
	envInt := func(key string, fallback int64) int64 {
		return getEnvAsInt64(key, file.int64Value(key, fallback))
	}

	cfg := &Config{
		AppEnv:             env("APP_ENV", "development"),            // Default development
		LogLevel:           parseLogLevel(env("LOG_LEVEL", "INFO")),  // Default INFO
		LogFile:            env("LOG_FILE", ""),                      // Default stdout only
		LogMaxSizeMB:       envInt("LOG_MAX_SIZE_MB", 100),           // Default 100 MB
		LogMaxBackups:      envInt("LOG_MAX_BACKUPS", 5),             // Default 5 files
		LogMaxAgeDays:      envInt("LOG_MAX_AGE_DAYS", 30),           // Default 30 days
		ApiServicePort:     env("API_SERVICE_PORT", "8080"),          // Default 8080
		ApiPrefix:          env("API_PREFIX", "/api"),                // Default /api
		DBDriver:           env("DB_DRIVER", "postgres"),             // Default postgres
		SQLitePath:         env("SQLITE_PATH", "carmarket.db"),       // Used when DB_DRIVER=sqlite
		PostgreSQLHost:     env("POSTGRESQL_HOST", "db"),             // Default db
		PostgreSQLPort:     envInt("POSTGRESQL_PORT", 5432),          // Default 5432
		PostgreSQLUser:     env("POSTGRESQL_USER", "carmarket_user"), // Default user
		PostgreSQLPassword: env("POSTGRESQL_PASSWORD", "carmarket_password"),
		PostgreSQLDatabase: env("POSTGRESQL_DATABASE", "carmarket_db"), // Default database name
		PostgreSQLSSLMode:  env("POSTGRESQL_SSLMODE", "disable"),       // Default disable
		DBMaxRetries:       envInt("DB_MAX_RETRIES", 5),                // Default 5 attempts
		JWTSecret:          env("JWT_SECRET", "carmarket_secret"),      // Default secret key
		TokenExpiration:    envInt("TOKEN_EXPIRATION", 86400),          // Default 1 day
		BcryptCost:         envInt("BCRYPT_COST", 10),                  // Default bcrypt.DefaultCost
		RedisEnabled:       env("REDIS_ENABLED", "true") != "false",    // Default enabled
		RedisHost:          env("REDIS_HOST", "redis"),                 // Default redis
		RedisPort:          envInt("REDIS_PORT", 6379),                 // Default 6379
		RedisPassword:      env("REDIS_PASSWORD", ""),                  // Default empty
		RedisDatabase:      envInt("REDIS_DATABASE", 0),                // Default 0
		LoginRateLimit:     envInt("LOGIN_RATE_LIMIT", 10),             // Default 10 attempts
		LoginRateWindow:    envInt("LOGIN_RATE_WINDOW", 60),            // Default 1 minute
		ShutdownTimeout:    envInt("SHUTDOWN_TIMEOUT", 15),             // Default 15 seconds
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
		c.PostgreSQLHost,
		c.PostgreSQLUser,
		c.PostgreSQLPassword,
		c.PostgreSQLDatabase,
		c.PostgreSQLPort,
		c.PostgreSQLSSLMode,
	)
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenExpiration) * time.Second
}

func (c *Config) IsProduction() bool {
	return strings.ToLower(c.AppEnv) == "production"
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.TokenExpiration <= 0 {
		return fmt.Errorf("TOKEN_EXPIRATION must be positive, got %d", c.TokenExpiration)
	}
	if c.IsProduction() && c.JWTSecret == "carmarket_secret" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if !strings.HasPrefix(c.ApiPrefix, "/") {
		c.ApiPrefix = "/" + c.ApiPrefix
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
			return value
		}
	}
	return fallback
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
