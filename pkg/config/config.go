package config

import (
	"fmt"

	"github.com/sdejongh/photorecon/pkg/models"
	"github.com/sdejongh/photorecon/pkg/recon"
)

// Config represents the application configuration
type Config struct {
	Sources     []string          `yaml:"sources"`
	Destination string            `yaml:"destination"`
	Mode        models.Mode       `yaml:"mode"`
	Recursive   bool              `yaml:"recursive"`
	Transform   TransformConfig   `yaml:"transform"`
	Report      ReportConfig      `yaml:"report"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`

	ExcludeExtensions []string `yaml:"exclude_extensions"`
	Exclude           []string `yaml:"exclude"`
}

// TransformConfig holds the rename rules per side.
// Destination rules rewrite source paths into the destination's naming;
// Source rules rewrite destination paths back.
type TransformConfig struct {
	Source      recon.RuleSet `yaml:"source"`
	Destination recon.RuleSet `yaml:"destination"`
}

// ReportConfig holds report persistence settings
type ReportConfig struct {
	Path           string `yaml:"path"`
	IncludeRenamed bool   `yaml:"include_renamed"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	MaxWorkers int `yaml:"max_workers"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Progress bool `yaml:"progress"` // Show a progress bar while enumerating
	Quiet    bool `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json" or "text"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
	File    string `yaml:"file"`   // Log file path (empty = stderr)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Mode:      models.ModeBidirectional,
		Recursive: true,
		Transform: TransformConfig{
			Source:      recon.RuleSet{},
			Destination: recon.RuleSet{},
		},
		Report: ReportConfig{
			Path: "report.json",
		},
		Performance: PerformanceConfig{
			MaxWorkers: 4,
		},
		Output: OutputConfig{
			Progress: true,
		},
		Logging: LoggingConfig{
			Enabled: false,
			Format:  "text",
			Level:   "info",
		},
		ExcludeExtensions: []string{},
		Exclude: []string{
			".thumbnails/",
			"*.tmp",
		},
	}
}

// Validate checks if the configuration is valid.
// Sources and destination are checked separately by ValidateRoots since
// they are often supplied on the command line.
func (c *Config) Validate() error {
	if !c.Mode.Valid() {
		return &models.ValidationError{
			Field:   "mode",
			Message: "must be 'oneway' or 'bidirectional'",
		}
	}

	if c.Performance.MaxWorkers < 1 {
		return &models.ValidationError{
			Field:   "performance.max_workers",
			Message: "must be at least 1",
		}
	}

	if c.Report.Path == "" {
		return &models.ValidationError{
			Field:   "report.path",
			Message: "must not be empty",
		}
	}

	for _, side := range []struct {
		field string
		rules recon.RuleSet
	}{
		{"transform.source", c.Transform.Source},
		{"transform.destination", c.Transform.Destination},
	} {
		for i, r := range side.rules {
			if r.Match == "" {
				return &models.ValidationError{
					Field:   fmt.Sprintf("%s[%d].match", side.field, i),
					Message: "must not be empty",
				}
			}
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}

// ValidateRoots checks that at least one source and a destination are set
func (c *Config) ValidateRoots() error {
	if len(c.Sources) == 0 {
		return &models.ValidationError{Field: "sources", Message: "at least one source is required"}
	}
	for i, s := range c.Sources {
		if s == "" {
			return &models.ValidationError{Field: fmt.Sprintf("sources[%d]", i), Message: "must not be empty"}
		}
	}
	if c.Destination == "" {
		return &models.ValidationError{Field: "destination", Message: "destination is required"}
	}
	return nil
}
