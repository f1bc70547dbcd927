package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"github.com/simaogato/assetval-backend/internal/domain"
)

// Config represents the full application configuration surface.
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Revaluation RevaluationConfig
	Engine      domain.EngineConfig
	LogLevel    string
}

// ServerConfig holds the listening ports and the API token shared by both transports.
type ServerConfig struct {
	GRPCPort string
	HTTPPort string
	APIToken string
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	ConnString string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
}

// RevaluationConfig holds the nightly revaluation job settings.
type RevaluationConfig struct {
	Enabled      bool
	CronSchedule string
}

// DSN returns the explicit connection string, or builds one from the individual fields.
func (d DatabaseConfig) DSN() string {
	if d.ConnString != "" {
		return d.ConnString
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// A missing .env is fine when configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	engine, err := loadEngineConfig()
	if err != nil {
		return nil, err
	}

	revaluationEnabled, err := strconv.ParseBool(getenvWithDefault("REVALUATION_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("REVALUATION_ENABLED: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			GRPCPort: getenvWithDefault("GRPC_PORT", "8080"),
			HTTPPort: getenvWithDefault("HTTP_PORT", "8081"),
			APIToken: getenvWithDefault("API_TOKEN", "dev-token"),
		},
		Database: DatabaseConfig{
			ConnString: os.Getenv("DB_CONN_STR"),
			Host:       getenvWithDefault("DB_HOST", "localhost"),
			Port:       getenvWithDefault("DB_PORT", "5432"),
			User:       getenvWithDefault("DB_USER", "postgres"),
			Password:   getenvWithDefault("DB_PASSWORD", "postgres"),
			Name:       getenvWithDefault("DB_NAME", "assetval"),
		},
		Revaluation: RevaluationConfig{
			Enabled:      revaluationEnabled,
			CronSchedule: getenvWithDefault("REVALUATION_CRON_SCHEDULE", "0 2 * * *"),
		},
		Engine:   engine,
		LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.GRPCPort == "" {
		return errors.New("GRPC_PORT must be provided")
	}
	if c.Server.HTTPPort == "" {
		return errors.New("HTTP_PORT must be provided")
	}
	if c.Server.APIToken == "" {
		return errors.New("API_TOKEN must be provided")
	}

	if c.Database.ConnString == "" && (c.Database.Host == "" || c.Database.Name == "") {
		return errors.New("DB_CONN_STR or DB_HOST and DB_NAME must be provided")
	}

	if c.Revaluation.Enabled {
		if _, err := cron.ParseStandard(c.Revaluation.CronSchedule); err != nil {
			return fmt.Errorf("REVALUATION_CRON_SCHEDULE is invalid: %w", err)
		}
	}

	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine config: %w", err)
	}

	return nil
}

// loadEngineConfig overlays the engine defaults with environment values
func loadEngineConfig() (domain.EngineConfig, error) {
	cfg := domain.DefaultEngineConfig()

	var err error
	if cfg.DefaultDepreciationRate, err = getenvDecimal("DEFAULT_DEPRECIATION_RATE", cfg.DefaultDepreciationRate); err != nil {
		return cfg, err
	}
	if cfg.DefaultLifespanYears, err = getenvInt("DEFAULT_LIFESPAN_YEARS", cfg.DefaultLifespanYears); err != nil {
		return cfg, err
	}
	if cfg.HighValueThreshold, err = getenvDecimal("HIGH_VALUE_THRESHOLD", cfg.HighValueThreshold); err != nil {
		return cfg, err
	}
	if cfg.SalvageFloorRatio, err = getenvDecimal("SALVAGE_FLOOR_RATIO", cfg.SalvageFloorRatio); err != nil {
		return cfg, err
	}
	if cfg.MaxRemainingLifeYears, err = getenvInt("MAX_REMAINING_LIFE_YEARS", cfg.MaxRemainingLifeYears); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvDecimal(key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return fallback, fmt.Errorf("%s must be a decimal number: %w", key, err)
	}
	return d, nil
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
