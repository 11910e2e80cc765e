package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Optimizer OptimizerConfig `yaml:"optimizer" json:"optimizer" jsonschema:"description=Optimization boundary configuration"`

	Injection InjectionConfig `yaml:"injection" json:"injection" jsonschema:"description=Trigger injection configuration"`

	Sessions SessionsConfig `yaml:"sessions" json:"sessions" jsonschema:"description=Session store configuration"`
}

// OptimizerConfig holds the optimization boundary settings
type OptimizerConfig struct {
	Endpoint  string        `yaml:"endpoint" json:"endpoint" jsonschema:"required,description=Optimization service endpoint URL"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=0,description=Deadline per optimization call (0 = no deadline)"`
	UserAgent string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Cartscope/1.0,description=User agent for boundary requests"`
}

// InjectionConfig holds the trigger injection retry settings
type InjectionConfig struct {
	Attempts int           `yaml:"attempts" json:"attempts" jsonschema:"default=5,minimum=1,description=Maximum injection attempts per page load"`
	Delay    time.Duration `yaml:"delay" json:"delay" jsonschema:"default=1s,description=Fixed delay between injection attempts"`
}

// SessionsConfig holds the session store eviction settings
type SessionsConfig struct {
	MaxEntries int           `yaml:"max_entries" json:"max_entries" jsonschema:"default=1024,description=Maximum retained sessions (0 = unlimited)"`
	TTL        time.Duration `yaml:"ttl" json:"ttl" jsonschema:"default=0,description=Session expiry (0 = never expires)"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// set defaults for server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	// set defaults for optimizer; timeout stays 0 - no deadline by default
	if cfg.Optimizer.UserAgent == "" {
		cfg.Optimizer.UserAgent = "Cartscope/1.0"
	}

	// set defaults for injection
	if cfg.Injection.Attempts == 0 {
		cfg.Injection.Attempts = 5
	}
	if cfg.Injection.Delay == 0 {
		cfg.Injection.Delay = time.Second
	}

	// set defaults for sessions; ttl stays 0 - sessions never expire by default
	if cfg.Sessions.MaxEntries == 0 {
		cfg.Sessions.MaxEntries = 1024
	}

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// validate checks configuration for correctness
func validate(cfg *Config) error {

	// validate optimizer config
	if cfg.Optimizer.Endpoint == "" {
		return fmt.Errorf("optimizer.endpoint is required")
	}
	if u, err := url.Parse(cfg.Optimizer.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("optimizer.endpoint must be a valid URL")
	}
	if cfg.Optimizer.Timeout < 0 {
		return fmt.Errorf("optimizer.timeout must be non-negative")
	}

	// validate injection config
	if cfg.Injection.Attempts < 1 {
		return fmt.Errorf("injection.attempts must be at least 1")
	}
	if cfg.Injection.Delay < 0 {
		return fmt.Errorf("injection.delay must be non-negative")
	}

	// validate sessions config
	if cfg.Sessions.MaxEntries < 0 {
		return fmt.Errorf("sessions.max_entries must be non-negative")
	}
	if cfg.Sessions.TTL < 0 {
		return fmt.Errorf("sessions.ttl must be non-negative")
	}

	// validate server config
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetOptimizerConfig returns optimization boundary configuration
func (c *Config) GetOptimizerConfig() OptimizerConfig {
	return c.Optimizer
}

// GetInjectionConfig returns trigger injection configuration
func (c *Config) GetInjectionConfig() InjectionConfig {
	return c.Injection
}

// GetSessionsConfig returns session store configuration
func (c *Config) GetSessionsConfig() SessionsConfig {
	return c.Sessions
}
