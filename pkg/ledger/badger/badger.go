package badger

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/nicktill/heartbridge/pkg/ledger"
)

const (
	entryPrefix       byte = 'e'
	fingerprintPrefix byte = 'f'
)

// Ledger implements ledger.Ledger using BadgerDB
type Ledger struct {
	db *badger.DB
}

// Config holds BadgerDB configuration
type Config struct {
	// Path to store database files
	Path string

	// InMemory mode (for testing)
	InMemory bool
}

// New opens a BadgerDB ledger
func New(cfg Config) (*Ledger, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = opts.WithInMemory(true)
	}

	// Entries are small JSON documents and there are at most a few per day,
	// so keep memory well below badger's defaults.
	opts = opts.
		WithCompression(options.Snappy).
		WithNumVersionsToKeep(1).
		WithMemTableSize(4 << 20).
		WithNumMemtables(2).
		WithBlockCacheSize(2 << 20).
		WithIndexCacheSize(1 << 20).
		WithNumCompactors(2).
		WithValueLogFileSize(16 << 20).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Record stores an entry and indexes its fingerprint
func (l *Ledger) Record(ctx context.Context, e ledger.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode entry: %w", err)
	}
	key := entryKey(e.ExportedAt, e.ID)

	return l.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, value); err != nil {
			return fmt.Errorf("failed to write entry: %w", err)
		}
		if err := txn.Set(fingerprintKey(e.Fingerprint), key); err != nil {
			return fmt.Errorf("failed to index fingerprint: %w", err)
		}
		return nil
	})
}

// Recent returns up to limit entries, newest first
func (l *Ledger) Recent(ctx context.Context, limit int) ([]ledger.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var results []ledger.Entry
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte{entryPrefix}

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(entryUpperBound()); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var e ledger.Entry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return fmt.Errorf("failed to decode entry: %w", err)
			}
			results = append(results, e)

			if limit > 0 && len(results) >= limit {
				break
			}
		}
		return nil
	})

	return results, err
}

// Seen reports whether a fingerprint has been indexed
func (l *Ledger) Seen(ctx context.Context, fingerprint uint64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	err := l.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(fingerprintKey(fingerprint))
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Prune deletes entries exported before the cutoff, along with their
// fingerprint index when it still points at them.
func (l *Ledger) Prune(ctx context.Context, before time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	removed := 0
	err := l.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte{entryPrefix}

		it := txn.NewIterator(opts)

		type doomed struct {
			key         []byte
			fingerprint uint64
		}
		var victims []doomed

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			if !entryTime(item.Key()).Before(before) {
				break
			}

			var e ledger.Entry
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				it.Close()
				return fmt.Errorf("failed to decode entry: %w", err)
			}
			victims = append(victims, doomed{key: item.KeyCopy(nil), fingerprint: e.Fingerprint})
		}
		it.Close()

		for _, v := range victims {
			if err := txn.Delete(v.key); err != nil {
				return err
			}

			fpKey := fingerprintKey(v.fingerprint)
			item, err := txn.Get(fpKey)
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			target, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if bytes.Equal(target, v.key) {
				if err := txn.Delete(fpKey); err != nil {
					return err
				}
			}
		}

		removed = len(victims)
		return nil
	})

	return removed, err
}

// RunGC runs BadgerDB's value log garbage collection.
// Returns nil when there was nothing to rewrite.
func (l *Ledger) RunGC(discardRatio float64) error {
	err := l.db.RunValueLogGC(discardRatio)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}

// Stats returns ledger statistics
func (l *Ledger) Stats(ctx context.Context) (*ledger.Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := &ledger.Stats{}
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte{entryPrefix}

		it := txn.NewIterator(opts)
		defer it.Close()

		types := make(map[string]bool)
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			ts := entryTime(item.Key())

			var e ledger.Entry
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return fmt.Errorf("failed to decode entry: %w", err)
			}

			stats.TotalExports++
			types[e.Slug] = true
			if stats.OldestExport.IsZero() {
				stats.OldestExport = ts
			}
			stats.NewestExport = ts
		}
		stats.TotalTypes = uint64(len(types))
		return nil
	})
	if err != nil {
		return nil, err
	}

	lsmSize, vlogSize := l.db.Size()
	stats.SizeBytes = uint64(lsmSize + vlogSize)
	return stats, nil
}

// Close shuts down BadgerDB cleanly
func (l *Ledger) Close() error {
	return l.db.Close()
}

// entryKey sorts entries by export time.
// Format: ['e'][exported_at unix nanos (8 bytes)][id]
func entryKey(ts time.Time, id string) []byte {
	key := make([]byte, 9, 9+len(id))
	key[0] = entryPrefix
	binary.BigEndian.PutUint64(key[1:9], uint64(ts.UnixNano()))
	return append(key, id...)
}

func entryTime(key []byte) time.Time {
	if len(key) < 9 {
		return time.Time{}
	}
	return time.Unix(0, int64(binary.BigEndian.Uint64(key[1:9])))
}

// entryUpperBound sorts after every entry key.
func entryUpperBound() []byte {
	return []byte{entryPrefix, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
}

// fingerprintKey format: ['f'][fingerprint (8 bytes)]
func fingerprintKey(fingerprint uint64) []byte {
	key := make([]byte, 9)
	key[0] = fingerprintPrefix
	binary.BigEndian.PutUint64(key[1:], fingerprint)
	return key
}
