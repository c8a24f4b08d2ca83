package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sdejongh/photorecon/pkg/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View or create the photorecon configuration file.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sources: %s\n", strings.Join(cfg.Sources, ", "))
			fmt.Fprintf(out, "Destination: %s\n", cfg.Destination)
			fmt.Fprintf(out, "Mode: %s\n", cfg.Mode)
			fmt.Fprintf(out, "Recursive: %v\n", cfg.Recursive)
			fmt.Fprintf(out, "Exclude Extensions: %s\n", strings.Join(cfg.ExcludeExtensions, ", "))
			fmt.Fprintf(out, "Exclude Patterns: %s\n", strings.Join(cfg.Exclude, ", "))
			for _, r := range cfg.Transform.Destination {
				fmt.Fprintf(out, "Destination Rule: %s\n", r)
			}
			for _, r := range cfg.Transform.Source {
				fmt.Fprintf(out, "Source Rule: %s\n", r)
			}
			fmt.Fprintf(out, "Report: %s\n", cfg.Report.Path)
			fmt.Fprintf(out, "Max Workers: %d\n", cfg.Performance.MaxWorkers)
			fmt.Fprintf(out, "Log Format: %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "Log Level: %s\n", cfg.Logging.Level)

			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := globalFlags.ConfigFile
			if path == "" {
				var err error
				path, err = config.DefaultConfigPath()
				if err != nil {
					return err
				}
			}

			if err := config.SaveToFile(config.Default(), path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", path)
			return nil
		},
	}
}
