package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"goldtracker/internal/agent"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	DataSource struct {
		Symbol               string  `yaml:"symbol"`
		CacheTTLSeconds      int     `yaml:"cache_ttl_seconds"`
		FallbackPrice        float64 `yaml:"fallback_price"`
		YahooTimeoutSeconds  int     `yaml:"yahoo_timeout_seconds"`
		ScrapeTimeoutSeconds int     `yaml:"scrape_timeout_seconds"`
		HistoryDays          int     `yaml:"history_days"`
	} `yaml:"data_source"`
	LLM struct {
		APIKey         string  `yaml:"api_key"`
		Model          string  `yaml:"model"`
		Temperature    float32 `yaml:"temperature"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
	} `yaml:"llm"`
	Agents  map[string]agent.Profile `yaml:"agents"`
	Reports struct {
		Dir string `yaml:"dir"`
	} `yaml:"reports"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		PriceSnapshotCron string `yaml:"price_snapshot_cron"`
		AnalysisCron      string `yaml:"analysis_cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("FALLBACK_PRICE"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.DataSource.FallbackPrice = price
		}
	}

	// Defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "GC=F"
	}
	if cfg.DataSource.CacheTTLSeconds == 0 {
		cfg.DataSource.CacheTTLSeconds = 60
	}
	if cfg.DataSource.YahooTimeoutSeconds == 0 {
		cfg.DataSource.YahooTimeoutSeconds = 10
	}
	if cfg.DataSource.ScrapeTimeoutSeconds == 0 {
		// Scraping pages is slower and flakier than the quote API.
		cfg.DataSource.ScrapeTimeoutSeconds = 25
	}
	if cfg.DataSource.HistoryDays == 0 {
		cfg.DataSource.HistoryDays = 180
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gemini-2.5-flash"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.1
	}
	if cfg.LLM.TimeoutSeconds == 0 {
		cfg.LLM.TimeoutSeconds = 120
	}
	if cfg.Reports.Dir == "" {
		cfg.Reports.Dir = "reports"
	}
	if cfg.Schedule.PriceSnapshotCron == "" {
		cfg.Schedule.PriceSnapshotCron = "0 */15 * * * *"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and sane.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required (or set GEMINI_API_KEY)")
	}
	if c.DataSource.CacheTTLSeconds <= 0 {
		return fmt.Errorf("data_source.cache_ttl_seconds must be positive")
	}
	if c.DataSource.HistoryDays < 2 {
		return fmt.Errorf("data_source.history_days must be at least 2")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// CacheTTL returns the freshness window as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.DataSource.CacheTTLSeconds) * time.Second
}

// YahooTimeout returns the quote API call budget.
func (c *Config) YahooTimeout() time.Duration {
	return time.Duration(c.DataSource.YahooTimeoutSeconds) * time.Second
}

// ScrapeTimeout returns the scraping call budget.
func (c *Config) ScrapeTimeout() time.Duration {
	return time.Duration(c.DataSource.ScrapeTimeoutSeconds) * time.Second
}

// LLMTimeout returns the per-generation budget.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

// AgentProfiles merges configured personas over the built-in defaults.
func (c *Config) AgentProfiles() map[agent.Role]agent.Profile {
	profiles := agent.DefaultProfiles()
	for name, p := range c.Agents {
		role := agent.Role(name)
		base, ok := profiles[role]
		if !ok {
			continue
		}
		if p.Role != "" {
			base.Role = p.Role
		}
		if p.Goal != "" {
			base.Goal = p.Goal
		}
		if p.Backstory != "" {
			base.Backstory = p.Backstory
		}
		if p.Task != "" {
			base.Task = p.Task
		}
		profiles[role] = base
	}
	return profiles
}
