package collect

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sdejongh/photorecon/pkg/filter"
	"github.com/sdejongh/photorecon/pkg/logging"
	"github.com/sdejongh/photorecon/pkg/models"
	"github.com/sdejongh/photorecon/pkg/storage"
)

// Config holds collector settings
type Config struct {
	// MaxWorkers bounds how many roots are enumerated at once
	MaxWorkers int
	// Filter admits or rejects root-relative paths
	Filter filter.Predicate
	// Storage is passed to storage.Open for every root
	Storage storage.Options
	// OnFile is called for every admitted file; it must be safe for concurrent use
	OnFile func()
	Logger logging.Logger
}

// Collector enumerates the roots of one location into a materialized record list
type Collector struct {
	config Config
	open   func(root string) storage.Opener
}

// NewCollector creates a collector opening roots through storage.Open
func NewCollector(config Config) *Collector {
	if config.MaxWorkers < 1 {
		config.MaxWorkers = 1
	}
	if config.Filter == nil {
		config.Filter = filter.IncludeAll
	}
	if config.Logger == nil {
		config.Logger = logging.NewNullLogger()
	}
	return &Collector{
		config: config,
		open: func(root string) storage.Opener {
			return storage.Open(root, config.Storage)
		},
	}
}

// Collect enumerates roots concurrently and returns their records
// concatenated in root order. The first failure cancels the remaining
// roots and fails the whole collection.
func (c *Collector) Collect(ctx context.Context, location models.Location, roots []string) ([]models.FileRecord, error) {
	perRoot := make([][]models.FileRecord, len(roots))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.MaxWorkers)

	for i, root := range roots {
		i, root := i, root
		g.Go(func() error {
			records, err := c.collectRoot(gctx, location, root)
			if err != nil {
				return err
			}
			perRoot[i] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, records := range perRoot {
		total += len(records)
	}
	all := make([]models.FileRecord, 0, total)
	for _, records := range perRoot {
		all = append(all, records...)
	}
	return all, nil
}

func (c *Collector) collectRoot(ctx context.Context, location models.Location, root string) ([]models.FileRecord, error) {
	log := c.config.Logger.WithFields(logging.Fields{"location": location, "root": root})
	log.Debug(ctx, "enumerating root", nil)

	var (
		records  []models.FileRecord
		excluded int
	)

	err := storage.Enumerate(ctx, c.open(root), func(info storage.FileInfo) error {
		if !c.config.Filter(info.RelativePath) {
			excluded++
			return nil
		}
		records = append(records, info.Record())
		if c.config.OnFile != nil {
			c.config.OnFile()
		}
		return nil
	})
	if err != nil {
		log.Error(ctx, "enumeration failed", err, nil)
		return nil, fmt.Errorf("failed to enumerate %s root %s: %w", location, root, err)
	}

	log.Info(ctx, "enumerated root", logging.Fields{"files": len(records), "excluded": excluded})
	return records, nil
}
