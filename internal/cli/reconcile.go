package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdejongh/photorecon/pkg/collect"
	"github.com/sdejongh/photorecon/pkg/config"
	"github.com/sdejongh/photorecon/pkg/filter"
	"github.com/sdejongh/photorecon/pkg/logging"
	"github.com/sdejongh/photorecon/pkg/models"
	"github.com/sdejongh/photorecon/pkg/output"
	"github.com/sdejongh/photorecon/pkg/recon"
	"github.com/sdejongh/photorecon/pkg/storage"
)

// ReconcileFlags holds reconcile command flags
type ReconcileFlags struct {
	Sources           []string
	Dest              string
	Mode              string
	ExcludeExtensions []string
	Exclude           []string
	SourceRules       []string
	DestRules         []string
	Report            string
	IncludeRenamed    bool
	NoRecursive       bool
	Parallel          int
	NoProgress        bool
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var reconcileFlags ReconcileFlags

// NewReconcileCommand creates the reconcile command
func NewReconcileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Report files missing between source and destination",
		Long: `Index every file under the source roots and the destination by
relative path and size, then report files that exist on one side only and
files that collide within one side. Nothing is copied, moved or deleted.

Transform rules (match=replace) recognise files renamed on collision:
  --dest-rule .jpg=-2.jpg     source IMG.jpg matches destination IMG-2.jpg
  --source-rule -2.=.         destination IMG-2.jpg matches source IMG.jpg

A source or destination of the form manifest:<file> reads a YAML listing
exported from a device instead of walking a directory.`,
		RunE: runReconcile,
	}

	cmd.Flags().StringArrayVarP(&reconcileFlags.Sources, "source", "s", nil, "source root (repeatable)")
	cmd.Flags().StringVarP(&reconcileFlags.Dest, "dest", "d", "", "destination root")

	cmd.Flags().StringVarP(&reconcileFlags.Mode, "mode", "m", "", "reconcile mode: oneway, bidirectional")
	cmd.Flags().StringSliceVar(&reconcileFlags.ExcludeExtensions, "exclude-ext", nil, "file extensions to ignore (e.g. .ini,.nomedia)")
	cmd.Flags().StringSliceVar(&reconcileFlags.Exclude, "exclude", nil, "glob patterns to ignore")
	cmd.Flags().StringArrayVar(&reconcileFlags.DestRules, "dest-rule", nil, "rewrite applied to source paths when looking them up in the destination (match=replace)")
	cmd.Flags().StringArrayVar(&reconcileFlags.SourceRules, "source-rule", nil, "rewrite applied to destination paths when looking them up in the source (match=replace)")
	cmd.Flags().StringVarP(&reconcileFlags.Report, "report", "o", "", "report output path")
	cmd.Flags().BoolVar(&reconcileFlags.IncludeRenamed, "include-renamed", false, "also persist files matched through a transform rule")
	cmd.Flags().BoolVar(&reconcileFlags.NoRecursive, "no-recursive", false, "only list the top directory of each root")
	cmd.Flags().IntVarP(&reconcileFlags.Parallel, "parallel", "p", 0, "number of roots enumerated in parallel")
	cmd.Flags().BoolVar(&reconcileFlags.NoProgress, "no-progress", false, "disable the progress counter")

	// Logging flags
	cmd.Flags().StringVar(&reconcileFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&reconcileFlags.LogFormat, "log-format", "", "log format: text, json")
	cmd.Flags().StringVar(&reconcileFlags.LogLevel, "log-level", "", "log level: debug, info, warn, error")

	return cmd
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := applyFlagsToConfig(cfg, &reconcileFlags); err != nil {
		return err
	}

	if err := validateRun(cfg); err != nil {
		return err
	}

	_, err = Execute(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), globalFlags.Verbose)
	return err
}

// Execute runs one reconciliation described by cfg and persists the report.
// Mismatches are data, not failures: an error is only returned when a root
// cannot be enumerated or the report cannot be written.
func Execute(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer, verbose bool) (*models.Report, error) {
	runID := uuid.New().String()

	logger, err := createLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()
	log := logger.WithFields(logging.Fields{"run_id": runID})

	log.Info(ctx, "reconciliation started", logging.Fields{
		"sources":     cfg.Sources,
		"destination": cfg.Destination,
		"mode":        cfg.Mode,
	})

	predicate := filter.All(
		filter.ExcludeExtensions(cfg.ExcludeExtensions...),
		filter.ExcludePatterns(cfg.Exclude...),
	)
	showProgress := cfg.Output.Progress && !cfg.Output.Quiet && output.IsTerminal(stderr)

	collectSide := func(location models.Location, roots []string) ([]models.FileRecord, error) {
		progress := output.NewProgress(stderr, string(location), showProgress)
		defer progress.Finish()

		c := collect.NewCollector(collect.Config{
			MaxWorkers: cfg.Performance.MaxWorkers,
			Filter:     predicate,
			Storage:    storage.Options{Recursive: cfg.Recursive},
			OnFile:     progress.Increment,
			Logger:     log,
		})
		return c.Collect(ctx, location, roots)
	}

	sourceRecords, err := collectSide(models.LocationSource, cfg.Sources)
	if err != nil {
		log.Error(ctx, "reconciliation aborted", err, nil)
		return nil, err
	}
	destRecords, err := collectSide(models.LocationDestination, []string{cfg.Destination})
	if err != nil {
		log.Error(ctx, "reconciliation aborted", err, nil)
		return nil, err
	}

	engine := recon.NewEngine(cfg.Mode, cfg.Transform.Source, cfg.Transform.Destination, log)
	report, err := engine.Run(ctx, sourceRecords, destRecords)
	if err != nil {
		log.Error(ctx, "reconciliation aborted", err, nil)
		return nil, err
	}
	report.RunID = runID

	if !cfg.Output.Quiet {
		if err := output.WriteSummary(stdout, report, verbose); err != nil {
			return report, err
		}
	}

	if err := output.WriteReport(report, cfg.Report.Path, cfg.Report.IncludeRenamed); err != nil {
		log.Error(ctx, "failed to save report", err, logging.Fields{"path": cfg.Report.Path})
		return report, fmt.Errorf("failed to save report: %w", err)
	}

	log.Info(ctx, "reconciliation completed", logging.Fields{
		"duplicates": len(report.Duplicates),
		"missing":    len(report.MissingEntries()),
		"renamed":    len(report.Renamed),
		"report":     cfg.Report.Path,
	})
	if !cfg.Output.Quiet {
		fmt.Fprintf(stdout, "\nReport saved to %s\n", cfg.Report.Path)
	}

	return report, nil
}

// createLogger creates a logger based on configuration
func createLogger(lc config.LoggingConfig) (logging.Logger, error) {
	if !lc.Enabled && lc.File == "" {
		return logging.NewNullLogger(), nil
	}

	format := logging.FormatText
	if lc.Format == "json" {
		format = logging.FormatJSON
	}

	return logging.New(logging.Config{
		Path:       lc.File,
		Format:     format,
		Level:      logging.ParseLevel(lc.Level),
		MaxSize:    10 * 1024 * 1024, // 10 MB
		MaxBackups: 5,
	})
}
