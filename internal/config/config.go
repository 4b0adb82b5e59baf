// Package config provides configuration management for the sync worker.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrNoDatabases              = errors.New("at least one database is required")
	ErrDatabaseMissingID        = errors.New("database id is required")
	ErrNoEnabledDatabases       = errors.New("at least one database must be enabled")
	ErrInvalidMaxAttempts       = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("retry.timeout_sec must be at least 1")
	ErrMissingOutputPath        = errors.New("output.path is required")
	ErrMissingHTMLPath          = errors.New("site.html_path is required")
	ErrMissingAnchorID          = errors.New("site.anchor_id is required")
	ErrInvalidMarkerThreshold   = errors.New("site.marker_threshold must be at least 1")
	ErrNoSectionOrder           = errors.New("site.section_order must list at least one section")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config represents the complete worker configuration.
type Config struct {
	Sync SyncConfig `yaml:"sync"`
	Site SiteConfig `yaml:"site"`
}

// SyncConfig contains the Notion synchronization settings.
type SyncConfig struct {
	Databases []DatabaseConfig `yaml:"databases"`
	Retry     RetryPolicy      `yaml:"retry"`
	Output    OutputConfig     `yaml:"output"`
	Report    ReportConfig     `yaml:"report"`
	Logging   LoggingConfig    `yaml:"logging"`
}

// DatabaseConfig represents one Notion database to synchronize.
type DatabaseConfig struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Enabled bool   `yaml:"enabled"`
}

// RetryPolicy defines retry behavior for Notion API calls.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// OutputConfig defines where the JSON artifact is written.
type OutputConfig struct {
	Path         string `yaml:"path"`
	PrettyPrint  bool   `yaml:"pretty_print"`
	CreateBackup bool   `yaml:"create_backup"`
}

// ReportConfig defines where the sync diagnostics report is written.
type ReportConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SiteConfig defines the injection target and the fixed section layout.
type SiteConfig struct {
	HTMLPath        string            `yaml:"html_path"`
	AnchorID        string            `yaml:"anchor_id"`
	MarkerClass     string            `yaml:"marker_class"`
	MarkerThreshold int               `yaml:"marker_threshold"`
	CreateBackup    bool              `yaml:"create_backup"`
	SectionOrder    []string          `yaml:"section_order"`
	SectionTitles   map[string]string `yaml:"section_titles"`
}

// LoadConfig loads configuration from YAML file.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Sync.Databases) == 0 {
		return ErrNoDatabases
	}

	enabledCount := 0

	for i, db := range c.Sync.Databases {
		if db.ID == "" {
			return fmt.Errorf("%w: databases[%d]", ErrDatabaseMissingID, i)
		}

		if db.Enabled {
			enabledCount++
		}
	}

	if enabledCount == 0 {
		return ErrNoEnabledDatabases
	}

	if c.Sync.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.Sync.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if c.Sync.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if c.Sync.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Sync.Output.Path == "" {
		return ErrMissingOutputPath
	}

	if c.Site.HTMLPath == "" {
		return ErrMissingHTMLPath
	}

	if c.Site.AnchorID == "" {
		return ErrMissingAnchorID
	}

	if c.Site.MarkerThreshold < 1 {
		return ErrInvalidMarkerThreshold
	}

	if len(c.Site.SectionOrder) == 0 {
		return ErrNoSectionOrder
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Sync.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// EnabledDatabases returns only enabled databases, in declaration order.
func (c *Config) EnabledDatabases() []DatabaseConfig {
	var enabled []DatabaseConfig

	for _, db := range c.Sync.Databases {
		if db.Enabled {
			enabled = append(enabled, db)
		}
	}

	return enabled
}

// SectionTitle returns the configured display title for a section id,
// falling back to the given default when none is configured.
func (c *Config) SectionTitle(sectionID, fallback string) string {
	if title, ok := c.Site.SectionTitles[sectionID]; ok && title != "" {
		return title
	}

	return fallback
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the per-request timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// DefaultConfig returns a usable configuration for CLI-only invocations.
func DefaultConfig() *Config {
	return &Config{
		Sync: SyncConfig{
			Retry: RetryPolicy{
				MaxAttempts:       3,
				InitialDelayMs:    500,
				MaxDelayMs:        30000,
				BackoffMultiplier: 2.0,
				TimeoutSec:        30,
			},
			Output: OutputConfig{
				Path:         "data/pieces.json",
				PrettyPrint:  true,
				CreateBackup: true,
			},
			Report: ReportConfig{
				Path: "data/sync-report.json",
			},
			Logging: LoggingConfig{
				Level: "info",
			},
		},
		Site: SiteConfig{
			HTMLPath:        "index.html",
			AnchorID:        "notion-sections",
			MarkerClass:     "piece-card",
			MarkerThreshold: 20,
			CreateBackup:    true,
			SectionOrder: []string{
				"ma-region-virtuose",
				"concert-avril",
				"fete-musique",
				"financements",
			},
		},
	}
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Databases: %d, MaxAttempts: %d, Output: %s, Anchor: #%s}",
		len(c.Sync.Databases),
		c.Sync.Retry.MaxAttempts,
		c.Sync.Output.Path,
		c.Site.AnchorID,
	)
}
