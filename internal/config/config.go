package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Port           int
	LogLevel       string
	LogPretty      bool
	StoreDriver    string // memory, sqlite, postgres
	DBDSN          string
	DBHost         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBPort         string
	CORSOrigins    []string
	SessionTTL     time.Duration
	SessionSweep   string
	MaxUploadBytes int64
}

// Load reads configuration from the environment, after loading .env if it exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("STORE_DRIVER", "memory")
	v.SetDefault("DB_DSN", "file::memory:?cache=shared")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "gradebook")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("SESSION_TTL", 2*time.Hour)
	v.SetDefault("SESSION_SWEEP", "@every 5m")
	v.SetDefault("MAX_UPLOAD_BYTES", int64(10<<20))
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:           v.GetInt("PORT"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogPretty:      v.GetBool("LOG_PRETTY"),
		StoreDriver:    strings.ToLower(v.GetString("STORE_DRIVER")),
		DBDSN:          v.GetString("DB_DSN"),
		DBHost:         v.GetString("DB_HOST"),
		DBUser:         v.GetString("DB_USER"),
		DBPassword:     v.GetString("DB_PASSWORD"),
		DBName:         v.GetString("DB_NAME"),
		DBPort:         v.GetString("DB_PORT"),
		CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
		SessionTTL:     v.GetDuration("SESSION_TTL"),
		SessionSweep:   v.GetString("SESSION_SWEEP"),
		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("STORE_DRIVER must be one of memory, sqlite, postgres (got %q)", c.StoreDriver)
	}
	if c.Port <= 0 {
		return fmt.Errorf("PORT must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// PostgresDSN assembles the connection string from the DB_* settings.
func (c *Config) PostgresDSN() string {
	return "host=" + c.DBHost + " user=" + c.DBUser + " password=" + c.DBPassword + " dbname=" + c.DBName + " port=" + c.DBPort + " sslmode=disable"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
