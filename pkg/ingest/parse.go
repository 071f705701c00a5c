package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nicktill/heartbridge/pkg/health"
)

// LegacyDayFirstLayout is the day-first layout some older shortcut
// installations produce. It is only tried when WithDayFirstLegacyDates is set.
const LegacyDayFirstLayout = "02-01-2006 15:04:05"

type parseOptions struct {
	dayFirstLegacy bool
}

// ParseOption tunes Parse.
type ParseOption func(*parseOptions)

// WithDayFirstLegacyDates makes legacy payloads fall back to
// LegacyDayFirstLayout when a timestamp does not match the canonical layout.
func WithDayFirstLegacyDates() ParseOption {
	return func(o *parseOptions) {
		o.dayFirstLegacy = true
	}
}

// Parse turns a validated payload into readings of the kind registered for
// slug, keeping input order. A single bad timestamp or value aborts the whole
// payload with a LoadingError.
func Parse(p health.Payload, slug string, opts ...ParseOption) ([]health.Reading, error) {
	var o parseOptions
	for _, opt := range opts {
		opt(&o)
	}

	desc := health.Describe(slug)
	dates, ok := asSlice(p[desc.DateField])
	if !ok {
		return nil, health.NewLoadingError("parse", fmt.Errorf("%s is not an array", desc.DateField))
	}
	values, ok := asSlice(p[desc.ValueField])
	if !ok {
		return nil, health.NewLoadingError("parse", fmt.Errorf("%s is not an array", desc.ValueField))
	}
	if len(dates) != len(values) {
		return nil, health.NewLoadingError("parse", fmt.Errorf("%d dates but %d values", len(dates), len(values)))
	}

	dayFirst := o.dayFirstLegacy && slug == health.LegacySlug
	readings := make([]health.Reading, 0, len(dates))
	for i := range dates {
		ts, err := parseTimestamp(dates[i], dayFirst)
		if err != nil {
			return nil, &health.LoadingError{Op: "parse timestamp", Index: i, Err: err}
		}
		r, err := parseValue(desc.Kind, ts, values[i])
		if err != nil {
			return nil, &health.LoadingError{Op: "parse " + desc.Kind.ValueField(), Index: i, Err: err}
		}
		readings = append(readings, r)
	}

	return readings, nil
}

func parseTimestamp(v any, dayFirst bool) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp must be a string, got %T", v)
	}
	ts, err := time.Parse(health.TimestampLayout, s)
	if err != nil && dayFirst {
		if alt, altErr := time.Parse(LegacyDayFirstLayout, s); altErr == nil {
			return alt, nil
		}
	}
	return ts, err
}

func parseValue(kind health.Kind, ts time.Time, v any) (health.Reading, error) {
	text, err := elementText(v)
	if err != nil {
		return health.Reading{}, err
	}
	return health.ParseReading(kind, ts, text)
}

// elementText returns the literal text of a decoded JSON array element.
func elementText(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}
