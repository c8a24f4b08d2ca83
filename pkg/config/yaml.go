package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sdejongh/photorecon/internal/platform"
	"github.com/sdejongh/photorecon/pkg/recon"
)

// LoadFromFile reads a YAML file over Default(), so keys the file omits keep
// their default value, including the exclude patterns. Relative sources and
// destination, manifest roots included, are taken from the file's directory.
// Missing rule lists load as empty lists.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Transform.Source == nil {
		cfg.Transform.Source = recon.RuleSet{}
	}
	if cfg.Transform.Destination == nil {
		cfg.Transform.Destination = recon.RuleSet{}
	}

	base := filepath.Dir(path)
	for i, src := range cfg.Sources {
		cfg.Sources[i] = resolveRoot(base, src)
	}
	cfg.Destination = resolveRoot(base, cfg.Destination)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func resolveRoot(base, root string) string {
	if root == "" {
		return root
	}
	if path, ok := strings.CutPrefix(root, platform.ManifestPrefix); ok {
		return platform.ManifestPrefix + resolveRoot(base, path)
	}
	if filepath.IsAbs(root) || platform.IsUNCPath(root) {
		return root
	}
	return filepath.Join(base, root)
}

// SaveToFile validates cfg and writes it as YAML, creating parent
// directories. `config init` uses it to write Default().
func SaveToFile(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfigPath is $HOME/.config/photorecon/config.yaml
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".config", "photorecon", "config.yaml"), nil
}

// LoadDefault loads DefaultConfigPath, or returns Default() when no file
// exists there. Roots usually come from --source and --dest in that case.
func LoadDefault() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return LoadFromFile(path)
}
