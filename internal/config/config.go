package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port int `yaml:"port"`

	Storage StorageConfig `yaml:"storage"`
	Timer   TimerConfig   `yaml:"timer"`
	Log     LogConfig     `yaml:"log"`

	// DevUser is the identity used when no auth header is present. Empty
	// rejects unauthenticated requests.
	DevUser string `yaml:"dev_user"`
}

type StorageConfig struct {
	Driver      string `yaml:"driver"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

type TimerConfig struct {
	TickInterval     time.Duration `yaml:"tick_interval"`
	SessionRetention time.Duration `yaml:"session_retention"`
	SessionMaxAge    time.Duration `yaml:"session_max_age"`
	CleanupInterval  time.Duration `yaml:"cleanup_interval"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		Port: 8080,
		Storage: StorageConfig{
			Driver:     "sqlite",
			SQLitePath: "data/intervals.db",
		},
		Timer: TimerConfig{
			TickInterval:     50 * time.Millisecond,
			SessionRetention: time.Hour,
			SessionMaxAge:    12 * time.Hour,
			CleanupInterval:  5 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		DevUser: "dev-user",
	}
}

// Load layers defaults, the YAML file at path (if any) and the environment,
// then validates the result. An empty path falls back to INTERVALS_CONFIG.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("INTERVALS_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides fields from the environment. A value that does not
// parse is an error rather than a silent fallback.
func (c *Config) applyEnv() error {
	var errs []error
	c.Port = envInt("PORT", c.Port, &errs)
	c.Storage.Driver = envStr("STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.SQLitePath = envStr("SQLITE_PATH", c.Storage.SQLitePath)
	c.Storage.PostgresDSN = envStr("DATABASE_URL", c.Storage.PostgresDSN)
	c.Timer.TickInterval = envDuration("TICK_INTERVAL", c.Timer.TickInterval, &errs)
	c.Timer.SessionRetention = envDuration("SESSION_RETENTION", c.Timer.SessionRetention, &errs)
	c.Timer.SessionMaxAge = envDuration("SESSION_MAX_AGE", c.Timer.SessionMaxAge, &errs)
	c.Timer.CleanupInterval = envDuration("CLEANUP_INTERVAL", c.Timer.CleanupInterval, &errs)
	c.Log.Level = envStr("LOG_LEVEL", c.Log.Level)
	c.Log.Format = envStr("LOG_FORMAT", c.Log.Format)
	if v, ok := os.LookupEnv("DEV_USER"); ok {
		c.DevUser = v
	}
	return errors.Join(errs...)
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}

	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return errors.New("SQLITE_PATH must not be empty")
		}
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return errors.New("DATABASE_URL must not be empty for the postgres driver")
		}
	case "memory":
	default:
		return fmt.Errorf("STORAGE_DRIVER must be sqlite, postgres or memory, got %q", c.Storage.Driver)
	}

	if c.Timer.TickInterval <= 0 || c.Timer.TickInterval >= time.Second {
		return fmt.Errorf("TICK_INTERVAL must be between 0 and 1s, got %s", c.Timer.TickInterval)
	}
	if c.Timer.SessionRetention <= 0 {
		return fmt.Errorf("SESSION_RETENTION must be positive, got %s", c.Timer.SessionRetention)
	}
	if c.Timer.SessionMaxAge <= 0 {
		return fmt.Errorf("SESSION_MAX_AGE must be positive, got %s", c.Timer.SessionMaxAge)
	}
	if c.Timer.CleanupInterval <= 0 {
		return fmt.Errorf("CLEANUP_INTERVAL must be positive, got %s", c.Timer.CleanupInterval)
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Log.Format)
	}
	return nil
}

// DSN is the storage address for the configured driver.
func (c *Config) DSN() string {
	if c.Storage.Driver == "postgres" {
		return c.Storage.PostgresDSN
	}
	return c.Storage.SQLitePath
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be an integer, got %q", key, v))
		return fallback
	}
	return i
}

func envDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be a duration such as 50ms, got %q", key, v))
		return fallback
	}
	return d
}
