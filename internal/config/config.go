package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string         `yaml:"environment" default:"development"`
	Server      ServerConfig   `yaml:"server"`
	Database    DatabaseConfig `yaml:"database"`
	Auth        AuthConfig     `yaml:"auth"`
	Cache       CacheConfig    `yaml:"cache"`
	Log         LogConfig      `yaml:"log"`
	Metrics     MetricsConfig  `yaml:"metrics"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" default:"8008"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"15s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
}

type DatabaseConfig struct {
	Path     string `yaml:"path" default:"job-portal.db"`
	LogLevel string `yaml:"log_level" default:"warn"` // silent, error, warn, info
}

type AuthConfig struct {
	Secret   string        `yaml:"secret" default:"development-insecure-secret-change-me"`
	Issuer   string        `yaml:"issuer" default:"job-portal-api"`
	Audience string        `yaml:"audience" default:"job-portal-clients"`
	TokenTTL time.Duration `yaml:"token_ttl" default:"24h"`
}

// CacheConfig holds the per-route TTLs of the read cache.
type CacheConfig struct {
	DefaultTTL      time.Duration `yaml:"default_ttl" default:"5m"`
	JobListTTL      time.Duration `yaml:"job_list_ttl" default:"30s"`
	JobDetailTTL    time.Duration `yaml:"job_detail_ttl" default:"60s"`
	EmployerTTL     time.Duration `yaml:"employer_ttl" default:"5m"`
	ApplicationsTTL time.Duration `yaml:"applications_ttl" default:"60s"`
	FAQTTL          time.Duration `yaml:"faq_ttl" default:"5m"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"json"` // json or console
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

// Default returns a config populated only from struct defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file on top of the defaults.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML, then a .env file when present, and
// overrides with environment variables.
func LoadWithEnv(path string, envFiles ...string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// missing .env files are fine; the process environment still applies
	_ = godotenv.Load(envFiles...)

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.Secret = v
	}
	if v := os.Getenv("JWT_ISSUER"); v != "" {
		c.Auth.Issuer = v
	}
	if v := os.Getenv("JWT_AUDIENCE"); v != "" {
		c.Auth.Audience = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("CACHE_DEFAULT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CACHE_DEFAULT_TTL: %w", err)
		}
		c.Cache.DefaultTTL = d
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("auth.secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log.format must be 'json' or 'console', got '%s'", c.Log.Format)
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
