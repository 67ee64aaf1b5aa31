package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Coros     CorosConfig     `yaml:"coros"`
	Calendar  CalendarConfig  `yaml:"calendar"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type CorosConfig struct {
	APIBaseURL     string `yaml:"api_base_url"`
	Region         string `yaml:"region"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	DictionaryPath string `yaml:"dictionary_path"`
}

type CalendarConfig struct {
	Name   string `yaml:"name"`
	ProdID string `yaml:"prodid"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// Timeout returns the COROS API request timeout.
func (c CorosConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix COROSCAL_ and underscore-separated
// paths:
//
//	COROSCAL_SERVER_HOST, COROSCAL_SERVER_PORT,
//	COROSCAL_COROS_API_BASE_URL, COROSCAL_COROS_REGION,
//	COROSCAL_COROS_DICTIONARY_PATH,
//	COROSCAL_CALENDAR_NAME, COROSCAL_CALENDAR_PRODID
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("COROSCAL_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("COROSCAL_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("COROSCAL_COROS_API_BASE_URL"); v != "" {
		cfg.Coros.APIBaseURL = v
	}
	if v := os.Getenv("COROSCAL_COROS_REGION"); v != "" {
		cfg.Coros.Region = v
	}
	if v := os.Getenv("COROSCAL_COROS_DICTIONARY_PATH"); v != "" {
		cfg.Coros.DictionaryPath = v
	}
	if v := os.Getenv("COROSCAL_CALENDAR_NAME"); v != "" {
		cfg.Calendar.Name = v
	}
	if v := os.Getenv("COROSCAL_CALENDAR_PRODID"); v != "" {
		cfg.Calendar.ProdID = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Calendar.Name == "" {
		cfg.Calendar.Name = "COROS Training Plan"
	}
	if cfg.Calendar.ProdID == "" {
		cfg.Calendar.ProdID = "-//coroscal//coroscal//EN"
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
