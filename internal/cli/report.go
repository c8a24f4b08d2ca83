package cli

import (
	"github.com/spf13/cobra"

	"github.com/sdejongh/photorecon/pkg/output"
)

// NewReportCommand creates the report command
func NewReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Inspect saved reports",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <report.json>",
		Short: "Print the summary of a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := output.ReadReport(args[0])
			if err != nil {
				return err
			}
			return output.WriteSummary(cmd.OutOrStdout(), report, globalFlags.Verbose)
		},
	})

	return cmd
}
