package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres PostgresConfig `yaml:"postgres"`
	NATS     NATSConfig     `yaml:"nats"`
	PUBG     PUBGConfig     `yaml:"pubg"`
	Monitor  MonitorConfig  `yaml:"monitor"`
	HTTP     HTTPConfig     `yaml:"http"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// PUBGConfig holds upstream PUBG API configuration.
type PUBGConfig struct {
	APIKey               string `yaml:"api_key"`
	BaseURL              string `yaml:"base_url"`
	Shard                string `yaml:"shard"`
	MaxRequestsPerMinute int    `yaml:"max_requests_per_minute"`
}

// MonitorConfig holds monitoring loop configuration.
type MonitorConfig struct {
	CheckInterval      time.Duration `yaml:"check_interval"`
	MaxMatchesPerCycle int           `yaml:"max_matches_per_cycle"`
}

// HTTPConfig holds the management API configuration.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config

	// Try reading configuration from the file first; a missing file is fine
	// as long as the env vars cover the required fields.
	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("NATS_SUBJECT"); v != "" {
		cfg.NATS.Subject = v
	}
	if v := os.Getenv("PUBG_API_KEY"); v != "" {
		cfg.PUBG.APIKey = v
	}
	if v := os.Getenv("PUBG_API_URL"); v != "" {
		cfg.PUBG.BaseURL = v
	}
	if v := os.Getenv("PUBG_SHARD"); v != "" {
		cfg.PUBG.Shard = v
	}
	if v := os.Getenv("PUBG_MAX_REQUESTS_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PUBG_MAX_REQUESTS_PER_MINUTE: %w", err)
		}
		cfg.PUBG.MaxRequestsPerMinute = n
	}
	if v := os.Getenv("CHECK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CHECK_INTERVAL: %w", err)
		}
		cfg.Monitor.CheckInterval = d
	}
	if v := os.Getenv("MAX_MATCHES_PER_CYCLE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_MATCHES_PER_CYCLE: %w", err)
		}
		cfg.Monitor.MaxMatchesPerCycle = n
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.PUBG.BaseURL == "" {
		c.PUBG.BaseURL = "https://api.pubg.com"
	}
	if c.PUBG.Shard == "" {
		c.PUBG.Shard = "steam"
	}
	if c.PUBG.MaxRequestsPerMinute <= 0 {
		c.PUBG.MaxRequestsPerMinute = 10
	}
	if c.Monitor.CheckInterval <= 0 {
		c.Monitor.CheckInterval = 60 * time.Second
	}
	if c.Monitor.MaxMatchesPerCycle <= 0 {
		c.Monitor.MaxMatchesPerCycle = 5
	}
	if c.NATS.Subject == "" {
		c.NATS.Subject = "pubg.match.summary"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
}

func (c *Config) validate() error {
	var missing []string
	if c.Postgres.DSN == "" {
		missing = append(missing, "postgres.dsn (DATABASE_URL)")
	}
	if c.PUBG.APIKey == "" {
		missing = append(missing, "pubg.api_key (PUBG_API_KEY)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v", missing)
	}
	return nil
}
