package cli

import (
	"fmt"

	"github.com/sdejongh/photorecon/internal/platform"
	"github.com/sdejongh/photorecon/pkg/config"
	"github.com/sdejongh/photorecon/pkg/models"
	"github.com/sdejongh/photorecon/pkg/recon"
)

// validateRun validates the merged configuration before any root is opened.
// Root existence is checked by the storage backends so that an unreadable
// root surfaces as a source-unavailable failure.
func validateRun(cfg *config.Config) error {
	if err := cfg.ValidateRoots(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	dest, err := platform.ResolveRoot(cfg.Destination)
	if err != nil {
		return fmt.Errorf("failed to resolve destination path: %w", err)
	}

	seen := make(map[string]bool)
	for _, s := range cfg.Sources {
		src, err := platform.ResolveRoot(s)
		if err != nil {
			return fmt.Errorf("failed to resolve source path: %w", err)
		}
		if src.Kind != platform.RootDirectory {
			continue
		}

		if seen[src.Path] {
			return fmt.Errorf("source listed twice: %s", src.Path)
		}
		seen[src.Path] = true

		if dest.Kind != platform.RootDirectory {
			continue
		}
		if src.Path == dest.Path {
			return fmt.Errorf("source and destination cannot be the same: %s", src.Path)
		}
		if platform.Contains(src, dest) {
			return fmt.Errorf("destination cannot be inside source directory %s", src.Path)
		}
		if platform.Contains(dest, src) {
			return fmt.Errorf("source %s cannot be inside destination directory", src.Path)
		}
	}

	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cfg *config.Config, flags *ReconcileFlags) error {
	if len(flags.Sources) > 0 {
		cfg.Sources = flags.Sources
	}
	if flags.Dest != "" {
		cfg.Destination = flags.Dest
	}

	if flags.Mode != "" {
		mode := models.Mode(flags.Mode)
		if !mode.Valid() {
			return fmt.Errorf("invalid mode: %s (valid: oneway, bidirectional)", flags.Mode)
		}
		cfg.Mode = mode
	}

	if len(flags.ExcludeExtensions) > 0 {
		cfg.ExcludeExtensions = flags.ExcludeExtensions
	}
	if len(flags.Exclude) > 0 {
		cfg.Exclude = flags.Exclude
	}

	if len(flags.SourceRules) > 0 {
		rules, err := recon.ParseRules(flags.SourceRules)
		if err != nil {
			return fmt.Errorf("invalid --source-rule: %w", err)
		}
		cfg.Transform.Source = rules
	}
	if len(flags.DestRules) > 0 {
		rules, err := recon.ParseRules(flags.DestRules)
		if err != nil {
			return fmt.Errorf("invalid --dest-rule: %w", err)
		}
		cfg.Transform.Destination = rules
	}

	if flags.Report != "" {
		cfg.Report.Path = flags.Report
	}
	if flags.IncludeRenamed {
		cfg.Report.IncludeRenamed = true
	}
	if flags.NoRecursive {
		cfg.Recursive = false
	}
	if flags.Parallel > 0 {
		cfg.Performance.MaxWorkers = flags.Parallel
	}

	if flags.LogFile != "" {
		cfg.Logging.Enabled = true
		cfg.Logging.File = flags.LogFile
	}
	if flags.LogFormat != "" {
		cfg.Logging.Format = flags.LogFormat
	}
	if flags.LogLevel != "" {
		cfg.Logging.Level = flags.LogLevel
	}

	if flags.NoProgress {
		cfg.Output.Progress = false
	}
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}

	return nil
}
