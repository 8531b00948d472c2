package requestlog

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RetentionConfig controls pruning of the request log.
type RetentionConfig struct {
	// RetentionDays removes records older than this many days. Zero
	// disables age-based pruning.
	RetentionDays int

	// MaxRecords trims the table to this many rows, oldest first. Zero
	// disables the cap.
	MaxRecords int64

	// PruneSchedule is the cron expression driving the Scheduler.
	PruneSchedule string
}

// Pruner applies the retention policy to a store.
type Pruner struct {
	store  *Store
	config RetentionConfig
	logger *slog.Logger
}

// NewPruner creates a pruner.
func NewPruner(store *Store, cfg RetentionConfig, logger *slog.Logger) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{store: store, config: cfg, logger: logger}
}

// Prune runs one pruning cycle and reports the number of deleted records.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.RetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -p.config.RetentionDays)
		n, err := p.store.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			return total, fmt.Errorf("age-based pruning failed: %w", err)
		}
		total += n
	}

	if p.config.MaxRecords > 0 {
		n, err := p.store.TrimToCap(ctx, p.config.MaxRecords)
		if err != nil {
			return total, fmt.Errorf("row-cap pruning failed: %w", err)
		}
		total += n
	}

	if total > 0 {
		p.logger.Info("request log pruned", "deleted", total)
	}
	return total, nil
}
