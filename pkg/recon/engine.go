package recon

import (
	"context"

	"github.com/sdejongh/photorecon/pkg/logging"
	"github.com/sdejongh/photorecon/pkg/models"
)

// Engine computes the missing files between a source and a destination index
type Engine struct {
	mode        models.Mode
	sourceRules RuleSet
	destRules   RuleSet
	logger      logging.Logger
}

// NewEngine creates a reconciliation engine.
// destRules rewrite source paths into the destination's naming convention;
// sourceRules do the reverse and are only used in bidirectional mode.
// An unknown mode reconciles both directions, as config.Default does.
func NewEngine(mode models.Mode, sourceRules, destRules RuleSet, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	if !mode.Valid() {
		mode = models.ModeBidirectional
	}
	return &Engine{
		mode:        mode,
		sourceRules: sourceRules,
		destRules:   destRules,
		logger:      logger,
	}
}

// Run indexes both record sequences and reconciles them into a new report
func (e *Engine) Run(ctx context.Context, sourceRecords, destRecords []models.FileRecord) (*models.Report, error) {
	report := models.NewReport()

	source, err := BuildIndex(models.LocationSource, sourceRecords, report)
	if err != nil {
		return nil, err
	}
	e.logger.Info(ctx, "indexed location", logging.Fields{
		"location": models.LocationSource,
		"files":    len(sourceRecords),
		"unique":   source.Len(),
	})

	dest, err := BuildIndex(models.LocationDestination, destRecords, report)
	if err != nil {
		return nil, err
	}
	e.logger.Info(ctx, "indexed location", logging.Fields{
		"location": models.LocationDestination,
		"files":    len(destRecords),
		"unique":   dest.Len(),
	})

	e.Reconcile(ctx, source, dest, report)
	return report, nil
}

// Reconcile appends to report every source identity missing from dest and,
// in bidirectional mode, every dest identity missing from source
func (e *Engine) Reconcile(ctx context.Context, source, dest *Index, report *models.Report) {
	e.diff(ctx, source, dest, e.destRules, report)
	if e.mode == models.ModeBidirectional {
		e.diff(ctx, dest, source, e.sourceRules, report)
	}
}

func (e *Engine) diff(ctx context.Context, from, to *Index, rules RuleSet, report *models.Report) {
	candidates := from.Missing(to)
	missing := 0

	for _, id := range candidates {
		entry := from.entries[id]

		if rule, match, ok := rules.Suppress(entry.relativePath, entry.record.Size, to); ok {
			e.logger.Debug(ctx, "renamed match", logging.Fields{
				"location": from.Location(),
				"path":     entry.record.FullPath,
				"match":    match.FullPath,
				"rule":     rule.String(),
			})
			report.AddRenamed(models.RenamedEntry{
				Location: from.Location(),
				Record:   entry.record,
				Match:    match,
				Rule:     rule.String(),
			})
			continue
		}

		report.AddMissing(from.Location(), entry.record)
		missing++
	}

	e.logger.Info(ctx, "reconciled direction", logging.Fields{
		"from":       from.Location(),
		"to":         to.Location(),
		"candidates": len(candidates),
		"missing":    missing,
		"renamed":    len(candidates) - missing,
	})
}
