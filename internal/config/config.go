package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the service configuration. Values come from defaults, then an optional
// YAML file, then environment variables (highest precedence).
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Chat      ChatConfig      `yaml:"chat"`
	Cron      CronConfig      `yaml:"cron"`
	Budget    BudgetConfig    `yaml:"budget"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

type ServerConfig struct {
	Port           string   `yaml:"port" env:"API_PORT"`
	Env            string   `yaml:"env" env:"API_ENV"`
	StaticDir      string   `yaml:"static_dir" env:"STATIC_DIR"`
	LogLevel       string   `yaml:"log_level" env:"LOG_LEVEL"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// DatabaseConfig selects the optional relational store. An empty URL means no database.
type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DATABASE_DRIVER"` // "postgres" or "sqlite"
	URL    string `yaml:"url" env:"DATABASE_URL"`
}

type ChatConfig struct {
	APIKey string `yaml:"api_key" env:"GOOGLE_GENERATIVE_AI_API_KEY"`
	Model  string `yaml:"model" env:"CHAT_MODEL"`
}

type CronConfig struct {
	Secret string `yaml:"secret" env:"CRON_SECRET"`
}

type BudgetConfig struct {
	SnapshotDir string `yaml:"snapshot_dir" env:"SNAPSHOT_DIR"`
}

type DashboardConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl" env:"DASHBOARD_CACHE_TTL"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      "8080",
			Env:       "development",
			StaticDir: "./web/dist",
			LogLevel:  "info",
		},
		Database: DatabaseConfig{
			Driver: "postgres",
		},
		Chat: ChatConfig{
			Model: "gemini-2.0-flash",
		},
		Budget: BudgetConfig{
			SnapshotDir: "./data",
		},
		Dashboard: DashboardConfig{
			CacheTTL: 60 * time.Second,
		},
	}
}

// Load builds the configuration. path may be empty, in which case only defaults and
// the environment are used.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked merges defaults, file and environment but does not validate.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	// Hosted Postgres integrations export POSTGRES_URL rather than DATABASE_URL.
	if c.Database.URL == "" {
		c.Database.URL = os.Getenv("POSTGRES_URL")
	}
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	return c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("server.port is required")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Dashboard.CacheTTL < 0 {
		return errors.New("dashboard.cache_ttl must be >= 0")
	}
	return nil
}

// Production reports whether the service runs in the production environment.
func (c *Config) Production() bool {
	return c.Server.Env == "production"
}

// HasDatabase reports whether a database is attached.
func (c *Config) HasDatabase() bool {
	return strings.TrimSpace(c.Database.URL) != ""
}
