package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags are shared by every subcommand
type GlobalFlags struct {
	// ConfigFile replaces the default config path
	ConfigFile string
	// Verbose lists every duplicate, rename and missing file in the summary
	Verbose bool
	// Quiet prints nothing but errors and turns the progress counter off
	Quiet bool
}

var globalFlags GlobalFlags

// AddGlobalFlags registers --config, --verbose and --quiet on the root command
func AddGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&globalFlags.ConfigFile, "config", "",
		"config file (default is $HOME/.config/photorecon/config.yaml)")
	flags.BoolVarP(&globalFlags.Verbose, "verbose", "v", false,
		"list every duplicate, rename and missing file")
	flags.BoolVarP(&globalFlags.Quiet, "quiet", "q", false,
		"print errors only; the report is still written")
}
