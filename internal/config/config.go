package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server   Server   `yaml:"server"`
	Transfer Transfer `yaml:"transfer"`
	LogLevel string   `yaml:"log_level"`
}

// Server represents the Nexus server connection configuration
type Server struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Transfer represents transfer-specific configuration
type Transfer struct {
	Concurrency int    `yaml:"concurrency"`
	Glob        string `yaml:"glob"`
	DryRun      bool   `yaml:"dry_run"`
	Quiet       bool   `yaml:"quiet"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// Load loads configuration in increasing precedence: defaults,
// environment variables, YAML file, command line flags.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	cfg := &Config{
		Server: Server{
			URL:      "http://localhost:8081",
			Username: "admin",
			Password: "admin",
		},
		Transfer: Transfer{
			Concurrency: 8,
		},
		LogLevel: "info",
	}

	loadFromEnv(cfg)

	if configFile != "" {
		if err := loadFromFile(cfg, configFile); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if flags != nil {
		if err := loadFromFlags(cfg, flags); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("NEXUS_URL"); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv("NEXUS_USER"); v != "" {
		cfg.Server.Username = v
	}
	if v := os.Getenv("NEXUS_PASS"); v != "" {
		cfg.Server.Password = v
	}
}

func loadFromFile(cfg *Config, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func loadFromFlags(cfg *Config, flags *pflag.FlagSet) error {
	if flags.Changed("url") {
		cfg.Server.URL, _ = flags.GetString("url")
	}
	if flags.Changed("username") {
		cfg.Server.Username, _ = flags.GetString("username")
	}
	if flags.Changed("password") {
		cfg.Server.Password, _ = flags.GetString("password")
	}

	if flags.Changed("concurrency") {
		cfg.Transfer.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("glob") {
		cfg.Transfer.Glob, _ = flags.GetString("glob")
	}
	if flags.Changed("dry-run") {
		cfg.Transfer.DryRun, _ = flags.GetBool("dry-run")
	}
	if flags.Changed("quiet") {
		cfg.Transfer.Quiet, _ = flags.GetBool("quiet")
	}
	if flags.Changed("metrics-addr") {
		cfg.Transfer.MetricsAddr, _ = flags.GetString("metrics-addr")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	return nil
}

func (c *Config) validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server URL is required")
	}

	if c.Transfer.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}

	return nil
}
