package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicktill/heartbridge/pkg/export"
	"github.com/nicktill/heartbridge/pkg/health"
	"github.com/nicktill/heartbridge/pkg/ledger/memory"
)

func newPipeline(t *testing.T, format export.Format, opts ...PipelineOption) *Pipeline {
	t.Helper()
	exporter, err := export.New(format)
	require.NoError(t, err)
	return NewPipeline(exporter, opts...)
}

func TestPipeline_ProcessWritesFile(t *testing.T) {
	for _, format := range export.Formats {
		t.Run(string(format), func(t *testing.T) {
			dir := t.TempDir()
			p := newPipeline(t, format, WithDirectory(dir))

			result, err := p.Process(context.Background(), heartRateTypicalInput())
			require.NoError(t, err)

			assert.Equal(t, "heart-rate", result.Slug)
			assert.Equal(t, "Heart Rate", result.DisplayName)
			assert.Equal(t, 6, result.Count)
			assert.Equal(t, format, result.Format)
			assert.Equal(t, "heart-rate-Dec16-2019."+format.Extension(), filepath.Base(result.Path))
			assert.True(t, filepath.IsAbs(result.Path))

			_, err = os.Stat(result.Path)
			require.NoError(t, err)

			back, err := export.ReadFile(result.Path, health.KindHeartRate)
			require.NoError(t, err)
			assert.Len(t, back, 6)
		})
	}
}

func TestPipeline_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	p := newPipeline(t, export.FormatCSV, WithDirectory(dir))

	result, err := p.Process(context.Background(), stepsInput())
	require.NoError(t, err)
	assert.Equal(t, "steps-Apr10-2021.csv", filepath.Base(result.Path))
}

func TestPipeline_MultiDayFilename(t *testing.T) {
	p := newPipeline(t, export.FormatJSON, WithDirectory(t.TempDir()))

	result, err := p.Process(context.Background(), restingHeartRateInput())
	require.NoError(t, err)
	assert.Equal(t, "resting-heart-rate-Apr10-2021-Apr12-2021.json", filepath.Base(result.Path))
}

func TestPipeline_EmptyBatchIsLoadingError(t *testing.T) {
	p := newPipeline(t, export.FormatCSV, WithDirectory(t.TempDir()))

	_, err := p.Process(context.Background(), health.Payload{"type": "Steps", "dates": []any{}, "values": []any{}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, health.ErrLoading))
}

func TestPipeline_DirectoryIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	p := newPipeline(t, export.FormatCSV, WithDirectory(file))

	_, err := p.Process(context.Background(), stepsInput())
	require.Error(t, err)
	assert.True(t, errors.Is(err, health.ErrExport))
}

func TestPipeline_LedgerFlagsDuplicates(t *testing.T) {
	l := memory.New()
	p := newPipeline(t, export.FormatCSV, WithDirectory(t.TempDir()), WithLedger(l))
	ctx := context.Background()

	first, err := p.Process(ctx, flightsInput())
	require.NoError(t, err)
	assert.False(t, first.Duplicate)

	second, err := p.Process(ctx, flightsInput())
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, first.Path, second.Path)
	assert.NotEqual(t, first.ID, second.ID)

	entries, err := l.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "flights-climbed", entries[0].Slug)
	assert.Equal(t, 3, entries[0].Count)
}

func TestPipeline_LegacyAdvisory(t *testing.T) {
	p := newPipeline(t, export.FormatCSV, WithDirectory(t.TempDir()))

	result, err := p.Process(context.Background(), legacyTypicalInput())
	require.NoError(t, err)
	assert.Equal(t, "heart-rate-legacy-Dec16-2019.csv", filepath.Base(result.Path))
	assert.Equal(t, []string{health.LegacyDeprecationNotice}, result.Advisories)
}

func TestFingerprint(t *testing.T) {
	a, err := Load(stepsInput())
	require.NoError(t, err)
	b, err := Load(stepsInput())
	require.NoError(t, err)
	c, err := Load(flightsInput())
	require.NoError(t, err)

	assert.Equal(t, Fingerprint(a.Slug, a.Readings), Fingerprint(b.Slug, b.Readings))
	assert.NotEqual(t, Fingerprint(a.Slug, a.Readings), Fingerprint(c.Slug, c.Readings))
	assert.NotEqual(t, Fingerprint("steps", a.Readings), Fingerprint("memes-sent", a.Readings))
}

func TestPipeline_TypeCannotLeaveDirectory(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "exports")
	p := newPipeline(t, export.FormatCSV, WithDirectory(dir))

	payload := heartRateTypicalInput()
	payload["type"] = "../escaped"

	_, err := p.Process(context.Background(), payload)
	require.Error(t, err)
	assert.True(t, errors.Is(err, health.ErrLoading))

	matches, err := filepath.Glob(filepath.Join(root, "*escaped*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestPipeline_TypeWithSlashIsGeneric(t *testing.T) {
	dir := t.TempDir()
	p := newPipeline(t, export.FormatCSV, WithDirectory(dir))

	payload := heartRateTypicalInput()
	payload["type"] = "Blood Glucose mg/dL"

	result, err := p.Process(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "blood-glucose-mg-dl", result.Slug)
	assert.Equal(t, "Blood Glucose mg/dL", result.DisplayName)
	assert.Equal(t, "blood-glucose-mg-dl-Dec16-2019.csv", filepath.Base(result.Path))

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, resolved, filepath.Dir(result.Path))
}
