package ingest

import (
	"github.com/nicktill/heartbridge/pkg/health"
	"github.com/nicktill/heartbridge/pkg/logger"
)

// Batch is one payload's worth of readings, all of the same kind.
type Batch struct {
	Slug       string
	Descriptor health.Descriptor
	Readings   []health.Reading
	// Advisories are non-fatal notices for the sender, such as the legacy
	// shortcut deprecation.
	Advisories []string
}

// Load resolves, validates and parses a payload.
func Load(p health.Payload, opts ...ParseOption) (*Batch, error) {
	res, err := health.ResolveSlug(p)
	if err != nil {
		return nil, err
	}

	desc := health.Describe(res.Slug)
	if desc.Generic() {
		desc.DisplayName = res.TypeName
	}

	batch := &Batch{Slug: res.Slug, Descriptor: desc}
	if res.Legacy {
		batch.Advisories = append(batch.Advisories, health.LegacyDeprecationNotice)
		logger.Warn().Str("slug", res.Slug).Msg(health.LegacyDeprecationNotice)
	}
	if desc.Generic() {
		logger.Debug().Str("slug", res.Slug).Msg("unrecognized record type, keeping values verbatim")
	}

	if err := Validate(p, res.Slug); err != nil {
		return nil, err
	}

	readings, err := Parse(p, res.Slug, opts...)
	if err != nil {
		return nil, err
	}
	batch.Readings = readings

	return batch, nil
}
