package ledger

import (
	"context"
	"time"
)

// Ledger records metadata about completed exports. It never stores readings;
// the export files are the source of truth.
// Implementations: memory (testing, default), badger (persistent)
type Ledger interface {
	// Record stores one export
	Record(ctx context.Context, e Entry) error

	// Recent returns up to limit entries, newest first (0 = all)
	Recent(ctx context.Context, limit int) ([]Entry, error)

	// Seen reports whether an export with this fingerprint was recorded
	Seen(ctx context.Context, fingerprint uint64) (bool, error)

	// Stats returns ledger statistics
	Stats(ctx context.Context) (*Stats, error)

	// Close cleanly shuts down the ledger
	Close() error
}

// Pruner is implemented by ledgers that can drop old entries.
type Pruner interface {
	Prune(ctx context.Context, before time.Time) (int, error)
}

// Collector is implemented by ledgers backed by a store that needs periodic
// garbage collection.
type Collector interface {
	RunGC(discardRatio float64) error
}

// Entry describes one export.
type Entry struct {
	ID          string    `json:"id"`
	Slug        string    `json:"type"`
	Format      string    `json:"format"`
	Path        string    `json:"path"`
	Count       int       `json:"count"`
	First       time.Time `json:"first"`
	Last        time.Time `json:"last"`
	Fingerprint uint64    `json:"fingerprint"`
	ExportedAt  time.Time `json:"exported_at"`
}

// Stats provides ledger usage info
type Stats struct {
	// Total exports recorded
	TotalExports uint64 `json:"total_exports"`

	// Distinct record types exported
	TotalTypes uint64 `json:"total_types"`

	// Storage size in bytes (0 for memory)
	SizeBytes uint64 `json:"size_bytes"`

	// Oldest and newest export times
	OldestExport time.Time `json:"oldest_export"`
	NewestExport time.Time `json:"newest_export"`
}
