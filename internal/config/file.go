package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the optional YAML configuration file. Every leaf maps to
// one environment key, and the environment always wins over the file.
type fileConfig struct {
	App struct {
		Env string `yaml:"env"`
	} `yaml:"app"`
	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  *int64 `yaml:"max_size_mb"`
		MaxBackups *int64 `yaml:"max_backups"`
		MaxAgeDays *int64 `yaml:"max_age_days"`
	} `yaml:"log"`
	Server struct {
		Port            string `yaml:"port"`
		Prefix          string `yaml:"prefix"`
		ShutdownTimeout *int64 `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Database struct {
		Driver     string `yaml:"driver"`
		SQLitePath string `yaml:"sqlite_path"`
		Host       string `yaml:"host"`
		Port       *int64 `yaml:"port"`
		User       string `yaml:"user"`
		Password   string `yaml:"password"`
		Name       string `yaml:"dbname"`
		SSLMode    string `yaml:"sslmode"`
		MaxRetries *int64 `yaml:"max_retries"`
	} `yaml:"database"`
	Redis struct {
		Enabled  *bool  `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     *int64 `yaml:"port"`
		Password string `yaml:"password"`
		DB       *int64 `yaml:"db"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret       string `yaml:"jwt_secret"`
		TokenExpiration *int64 `yaml:"token_expiration"`
		BcryptCost      *int64 `yaml:"bcrypt_cost"`
		LoginRateLimit  *int64 `yaml:"login_rate_limit"`
		LoginRateWindow *int64 `yaml:"login_rate_window"`
	} `yaml:"auth"`

	values map[string]string
}

func loadFile(path string) (*fileConfig, error) {
	fc := &fileConfig{}
	if path == "" {
		fc.values = map[string]string{}
		return fc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	fc.values = fc.flatten()
	return fc, nil
}

func (fc *fileConfig) flatten() map[string]string {
	out := map[string]string{}
	str := func(key, v string) {
		if v != "" {
			out[key] = v
		}
	}
	num := func(key string, v *int64) {
		if v != nil {
			out[key] = strconv.FormatInt(*v, 10)
		}
	}

	str("APP_ENV", fc.App.Env)
	str("LOG_LEVEL", fc.Log.Level)
	str("LOG_FILE", fc.Log.File)
	num("LOG_MAX_SIZE_MB", fc.Log.MaxSizeMB)
	num("LOG_MAX_BACKUPS", fc.Log.MaxBackups)
	num("LOG_MAX_AGE_DAYS", fc.Log.MaxAgeDays)
	str("API_SERVICE_PORT", fc.Server.Port)
	str("API_PREFIX", fc.Server.Prefix)
	num("SHUTDOWN_TIMEOUT", fc.Server.ShutdownTimeout)
	str("DB_DRIVER", fc.Database.Driver)
	str("SQLITE_PATH", fc.Database.SQLitePath)
	str("POSTGRESQL_HOST", fc.Database.Host)
	num("POSTGRESQL_PORT", fc.Database.Port)
	str("POSTGRESQL_USER", fc.Database.User)
	str("POSTGRESQL_PASSWORD", fc.Database.Password)
	str("POSTGRESQL_DATABASE", fc.Database.Name)
	str("POSTGRESQL_SSLMODE", fc.Database.SSLMode)
	num("DB_MAX_RETRIES", fc.Database.MaxRetries)
	if fc.Redis.Enabled != nil {
		out["REDIS_ENABLED"] = strconv.FormatBool(*fc.Redis.Enabled)
	}
	str("REDIS_HOST", fc.Redis.Host)
	num("REDIS_PORT", fc.Redis.Port)
	str("REDIS_PASSWORD", fc.Redis.Password)
	num("REDIS_DATABASE", fc.Redis.DB)
	str("JWT_SECRET", fc.Auth.JWTSecret)
	num("TOKEN_EXPIRATION", fc.Auth.TokenExpiration)
	num("BCRYPT_COST", fc.Auth.BcryptCost)
	num("LOGIN_RATE_LIMIT", fc.Auth.LoginRateLimit)
	num("LOGIN_RATE_WINDOW", fc.Auth.LoginRateWindow)
	return out
}

func (fc *fileConfig) value(key, fallback string) string {
	if v, ok := fc.values[key]; ok {
		return v
	}
	return fallback
}

func (fc *fileConfig) int64Value(key string, fallback int64) int64 {
	if v, ok := fc.values[key]; ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
