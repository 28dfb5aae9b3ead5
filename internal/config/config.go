// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/MemDbg/TaskManagerCLI/internal/database"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
}

type AppConfig struct {
	Environment  string
	ItemsPerPage int
}

type DatabaseConfig struct {
	Driver        string
	Host          string
	Port          int
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MaintenanceDB string
	Path          string
}

type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Environment:  getEnv("APP_ENV", "development"),
			ItemsPerPage: getEnvAsInt("ITEMS_PER_PAGE", 5),
		},
		Database: DatabaseConfig{
			Driver:        getEnv("DB_DRIVER", database.DriverPostgres),
			Host:          getEnv("DB_HOST", "127.0.0.1"),
			Port:          getEnvAsInt("DB_PORT", 5432),
			User:          getEnv("DB_USER", "postgres"),
			Password:      os.Getenv("DB_PASSWORD"),
			DBName:        getEnv("DB_NAME", "task_manager_db"),
			SSLMode:       getEnv("DB_SSL_MODE", "disable"),
			MaintenanceDB: getEnv("DB_MAINTENANCE_NAME", "postgres"),
			Path:          getEnv("DB_PATH", "./task_manager.db"),
		},
		Log: LogConfig{
			Level:      os.Getenv("LOG_LEVEL"),
			File:       getEnv("LOG_FILE", "taskmanager.log"),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 10),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 28),
			Compress:   getEnvAsBool("LOG_COMPRESS", true),
		},
	}

	// Development runs log at debug unless LOG_LEVEL says otherwise.
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
		if cfg.IsDevelopment() {
			cfg.Log.Level = "debug"
		}
	}

	return cfg, nil
}

// ValidateConfig checks values that would only fail later at connect time.
func (c *Config) ValidateConfig() error {
	var errs []string

	switch c.Database.Driver {
	case database.DriverPostgres:
		if c.Database.Host == "" {
			errs = append(errs, "DB_HOST is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("DB_PORT %d out of range", c.Database.Port))
		}
		if c.Database.DBName == "" {
			errs = append(errs, "DB_NAME is required")
		}
	case database.DriverSQLite:
		if c.Database.Path == "" {
			errs = append(errs, "DB_PATH is required for sqlite3")
		}
	default:
		errs = append(errs, fmt.Sprintf("unsupported DB_DRIVER %q (want %s or %s)",
			c.Database.Driver, database.DriverPostgres, database.DriverSQLite))
	}

	if c.App.ItemsPerPage <= 0 {
		errs = append(errs, "ITEMS_PER_PAGE must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// ToDatabaseConfig converts the database section for the connection manager.
func (c *Config) ToDatabaseConfig() database.Config {
	return database.Config{
		Driver:        c.Database.Driver,
		Host:          c.Database.Host,
		Port:          c.Database.Port,
		User:          c.Database.User,
		Password:      c.Database.Password,
		DBName:        c.Database.DBName,
		SSLMode:       c.Database.SSLMode,
		MaintenanceDB: c.Database.MaintenanceDB,
		Path:          c.Database.Path,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
