package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nicktill/heartbridge/pkg/export"
	"github.com/nicktill/heartbridge/pkg/health"
	"github.com/nicktill/heartbridge/pkg/ledger"
	"github.com/nicktill/heartbridge/pkg/logger"
)

// Result describes one processed payload.
type Result struct {
	ID          uuid.UUID
	Slug        string
	DisplayName string
	Count       int
	Path        string
	Format      export.Format
	Fingerprint uint64
	Duplicate   bool
	Advisories  []string
}

// Pipeline turns payloads into export files, one payload at a time.
type Pipeline struct {
	mu        sync.Mutex
	exporter  export.Exporter
	ledger    ledger.Ledger
	directory string
	parseOpts []ParseOption
	now       func() time.Time
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithDirectory sets the output directory. Empty means the working directory.
func WithDirectory(dir string) PipelineOption {
	return func(p *Pipeline) {
		p.directory = dir
	}
}

// WithLedger records every export in l.
func WithLedger(l ledger.Ledger) PipelineOption {
	return func(p *Pipeline) {
		p.ledger = l
	}
}

// WithParseOptions passes opts to every Parse call.
func WithParseOptions(opts ...ParseOption) PipelineOption {
	return func(p *Pipeline) {
		p.parseOpts = append(p.parseOpts, opts...)
	}
}

// NewPipeline creates a pipeline writing with exporter.
func NewPipeline(exporter export.Exporter, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		exporter: exporter,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Directory returns the configured output directory.
func (p *Pipeline) Directory() string { return p.directory }

// Format returns the output format.
func (p *Pipeline) Format() export.Format { return p.exporter.Format() }

// Process loads a payload, writes it to its export file and records the
// export. Payloads are processed one at a time; two payloads mapping to the
// same file leave the later one on disk.
func (p *Pipeline) Process(ctx context.Context, payload health.Payload) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := p.now()

	batch, err := Load(payload, p.parseOpts...)
	if err != nil {
		return nil, err
	}

	base, err := health.BaseFilename(batch.Slug, batch.Readings)
	if err != nil {
		return nil, err
	}
	path, err := export.BuildPath(base, p.directory, p.exporter.Format().Extension())
	if err != nil {
		return nil, err
	}
	written, err := p.exporter.WriteReadings(batch.Readings, path)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ID:          uuid.New(),
		Slug:        batch.Slug,
		DisplayName: batch.Descriptor.DisplayName,
		Count:       len(batch.Readings),
		Path:        written,
		Format:      p.exporter.Format(),
		Fingerprint: Fingerprint(batch.Slug, batch.Readings),
		Advisories:  batch.Advisories,
	}

	if p.ledger != nil {
		p.record(ctx, result, batch)
	}

	logger.Info().
		Str("id", result.ID.String()).
		Str("slug", result.Slug).
		Int("count", result.Count).
		Str("path", result.Path).
		Dur("duration", p.now().Sub(start)).
		Msg("Exported health data")

	return result, nil
}

// record writes the ledger entry. The export file already exists at this
// point, so ledger failures are logged rather than returned.
func (p *Pipeline) record(ctx context.Context, result *Result, batch *Batch) {
	seen, err := p.ledger.Seen(ctx, result.Fingerprint)
	if err != nil {
		logger.Error().Err(err).Str("slug", result.Slug).Msg("Failed to check export ledger")
	}
	if seen {
		result.Duplicate = true
		logger.Warn().
			Str("slug", result.Slug).
			Uint64("fingerprint", result.Fingerprint).
			Msg("Payload matches an earlier export, overwriting")
	}

	entry := ledger.Entry{
		ID:          result.ID.String(),
		Slug:        result.Slug,
		Format:      string(result.Format),
		Path:        result.Path,
		Count:       result.Count,
		First:       batch.Readings[0].Timestamp(),
		Last:        batch.Readings[len(batch.Readings)-1].Timestamp(),
		Fingerprint: result.Fingerprint,
		ExportedAt:  p.now(),
	}
	if err := p.ledger.Record(ctx, entry); err != nil {
		logger.Error().Err(err).Str("slug", result.Slug).Msg("Failed to record export")
	}
}
