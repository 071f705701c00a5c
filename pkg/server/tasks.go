package server

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nicktill/heartbridge/pkg/config"
	"github.com/nicktill/heartbridge/pkg/ledger"
	"github.com/nicktill/heartbridge/pkg/logger"
)

// gcDiscardRatio rewrites a value log file once half of it is garbage.
const gcDiscardRatio = 0.5

// StartMaintenance schedules ledger upkeep: value log GC for ledgers that
// need it and daily pruning of entries older than retention. The returned
// scheduler is already running; callers Stop it on shutdown. It is nil when
// the ledger needs no upkeep.
func StartMaintenance(l ledger.Ledger, retention time.Duration) (*cron.Cron, error) {
	collector, canCollect := l.(ledger.Collector)
	pruner, canPrune := l.(ledger.Pruner)
	if !canCollect && !canPrune {
		return nil, nil
	}

	c := cron.New()

	if canCollect {
		spec := "@every " + config.BadgerGCInterval.String()
		if _, err := c.AddFunc(spec, func() { RunLedgerGC(collector) }); err != nil {
			return nil, err
		}
		logger.Info().Str("schedule", spec).Msg("Ledger GC scheduled")
	}

	if canPrune {
		if _, err := c.AddFunc(config.LedgerPruneSchedule, func() {
			PruneLedger(context.Background(), pruner, retention, time.Now())
		}); err != nil {
			return nil, err
		}
		logger.Info().
			Str("schedule", config.LedgerPruneSchedule).
			Dur("retention", retention).
			Msg("Ledger pruning scheduled")
	}

	c.Start()
	return c, nil
}

// RunLedgerGC runs one round of garbage collection.
func RunLedgerGC(c ledger.Collector) {
	start := time.Now()
	if err := c.RunGC(gcDiscardRatio); err != nil {
		logger.Warn().Err(err).Msg("Ledger GC failed")
		return
	}
	logger.Debug().Dur("duration", time.Since(start)).Msg("Ledger GC completed")
}

// PruneLedger removes entries exported more than retention before now.
func PruneLedger(ctx context.Context, p ledger.Pruner, retention time.Duration, now time.Time) int {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	removed, err := p.Prune(ctx, now.Add(-retention))
	if err != nil {
		logger.Error().Err(err).Msg("Ledger pruning failed")
		return 0
	}
	if removed > 0 {
		logger.Info().Int("removed", removed).Msg("Pruned old ledger entries")
	}
	return removed
}
