package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nicktill/heartbridge/pkg/ledger"
)

// Ledger keeps export entries in memory. Entries are lost on restart.
type Ledger struct {
	entries []ledger.Entry
	seen    map[uint64]int
	mu      sync.RWMutex
}

// New creates an in-memory ledger
func New() *Ledger {
	return &Ledger{
		seen: make(map[uint64]int),
	}
}

// Record appends an entry
func (l *Ledger) Record(ctx context.Context, e ledger.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, e)
	l.seen[e.Fingerprint]++
	return nil
}

// Recent returns the newest entries first
func (l *Ledger) Recent(ctx context.Context, limit int) ([]ledger.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	results := make([]ledger.Entry, len(l.entries))
	copy(results, l.entries)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ExportedAt.After(results[j].ExportedAt)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Seen reports whether a fingerprint has been recorded
func (l *Ledger) Seen(ctx context.Context, fingerprint uint64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.seen[fingerprint] > 0, nil
}

// Prune drops entries exported before the cutoff
func (l *Ledger) Prune(ctx context.Context, before time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.entries[:0]
	removed := 0
	for _, e := range l.entries {
		if e.ExportedAt.Before(before) {
			removed++
			if l.seen[e.Fingerprint]--; l.seen[e.Fingerprint] <= 0 {
				delete(l.seen, e.Fingerprint)
			}
			continue
		}
		kept = append(kept, e)
	}
	l.entries = kept
	return removed, nil
}

// Stats returns ledger statistics
func (l *Ledger) Stats(ctx context.Context) (*ledger.Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := &ledger.Stats{TotalExports: uint64(len(l.entries))}
	types := make(map[string]bool)
	for _, e := range l.entries {
		types[e.Slug] = true
		if stats.OldestExport.IsZero() || e.ExportedAt.Before(stats.OldestExport) {
			stats.OldestExport = e.ExportedAt
		}
		if e.ExportedAt.After(stats.NewestExport) {
			stats.NewestExport = e.ExportedAt
		}
	}
	stats.TotalTypes = uint64(len(types))
	return stats, nil
}

// Close is a no-op for memory ledger
func (l *Ledger) Close() error {
	return nil
}
