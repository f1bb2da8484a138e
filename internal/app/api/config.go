package api

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"
	"gopkg.in/yaml.v3"

	"github.com/Apurer/dogshouse-service/internal/platform/postgres"
	"github.com/Apurer/dogshouse-service/internal/platform/ratelimit"
)

const (
	defaultConfigPath    = "config.yaml"
	defaultPermitLimit   = 10
	defaultWindowSeconds = 1
	defaultQueueLimit    = 2
)

// Config carries the settings for the API process. Values come from an optional YAML file and
// are then overridden by the environment.
type Config struct {
	Port              string
	PostgresDSN       string
	PostgresDriver    string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	RedisAddr         string
	LogLevel          string
	App               AppSettings
	RateLimiting      RateLimiting
}

// AppSettings is reported by the ping endpoint.
type AppSettings struct {
	ApplicationName string `yaml:"applicationName"`
	Version         string `yaml:"version"`
}

// RateLimiting configures the fixed window admission gate.
type RateLimiting struct {
	PermitLimit   int `yaml:"permitLimit"`
	WindowSeconds int `yaml:"windowSeconds"`
	QueueLimit    int `yaml:"queueLimit"`
}

// GateOptions converts the settings into gate options.
func (r RateLimiting) GateOptions() ratelimit.Options {
	return ratelimit.Options{
		PermitLimit: r.PermitLimit,
		Window:      time.Duration(r.WindowSeconds) * time.Second,
		QueueLimit:  r.QueueLimit,
	}
}

type fileSettings struct {
	AppSettings  AppSettings  `yaml:"appSettings"`
	RateLimiting RateLimiting `yaml:"rateLimiting"`
}

// LoadConfig reads the settings file and environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	file, err := readSettingsFile()
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		PostgresDriver:    strings.ToLower(envDefault("POSTGRES_DRIVER", postgres.DriverPgx)),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		LogLevel:          envDefault("LOG_LEVEL", "info"),
		App: AppSettings{
			ApplicationName: envDefault("APP_NAME", file.AppSettings.ApplicationName),
			Version:         envDefault("APP_VERSION", file.AppSettings.Version),
		},
		RateLimiting: RateLimiting{
			PermitLimit:   orDefault(file.RateLimiting.PermitLimit, defaultPermitLimit),
			WindowSeconds: orDefault(file.RateLimiting.WindowSeconds, defaultWindowSeconds),
			QueueLimit:    file.RateLimiting.QueueLimit,
		},
	}
	if file.RateLimiting == (RateLimiting{}) {
		cfg.RateLimiting.QueueLimit = defaultQueueLimit
	}

	overrides := []struct {
		key    string
		target *int
	}{
		{"RATE_LIMIT_PERMIT_LIMIT", &cfg.RateLimiting.PermitLimit},
		{"RATE_LIMIT_WINDOW_SECONDS", &cfg.RateLimiting.WindowSeconds},
		{"RATE_LIMIT_QUEUE_LIMIT", &cfg.RateLimiting.QueueLimit},
	}
	for _, o := range overrides {
		raw := strings.TrimSpace(os.Getenv(o.key))
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s must be an integer", o.key)
		}
		*o.target = value
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.PostgresDriver {
	case postgres.DriverPgx, postgres.DriverPQ:
	default:
		return fmt.Errorf("POSTGRES_DRIVER must be %q or %q", postgres.DriverPgx, postgres.DriverPQ)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return errors.New("PORT must be numeric")
	}
	if c.RateLimiting.PermitLimit <= 0 {
		return errors.New("rate limiting permit limit must be a positive integer")
	}
	if c.RateLimiting.WindowSeconds <= 0 {
		return errors.New("rate limiting window seconds must be a positive integer")
	}
	if c.RateLimiting.QueueLimit < 0 {
		return errors.New("rate limiting queue limit cannot be negative")
	}
	return nil
}

// readSettingsFile loads DOGSHOUSE_CONFIG, or config.yaml when it exists. A missing default file is not an error.
func readSettingsFile() (fileSettings, error) {
	path, explicit := strings.TrimSpace(os.Getenv("DOGSHOUSE_CONFIG")), true
	if path == "" {
		path, explicit = defaultConfigPath, false
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return fileSettings{}, nil
		}
		return fileSettings{}, fmt.Errorf("read settings file %s: %w", path, err)
	}
	var settings fileSettings
	if err := yaml.Unmarshal(raw, &settings); err != nil {
		return fileSettings{}, fmt.Errorf("parse settings file %s: %w", path, err)
	}
	return settings, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func orDefault(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
