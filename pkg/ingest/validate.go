package ingest

import (
	"fmt"

	"github.com/nicktill/heartbridge/pkg/health"
)

// Validate checks that a payload carries the date and value fields for slug
// and that they line up. When Shortcuts sends a single sample it uses bare
// strings instead of arrays; those are wrapped in one-element slices in place.
func Validate(p health.Payload, slug string) error {
	dateField, valueField := health.FieldsFor(slug)

	var missing []string
	for _, field := range []string{dateField, valueField} {
		if _, ok := p[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &health.ValidationError{
			Slug:   slug,
			Fields: missing,
			Reason: "payload is missing required fields",
		}
	}

	date, dateIsText := p[dateField].(string)
	value, valueIsText := p[valueField].(string)
	if dateIsText && valueIsText {
		p[dateField] = []any{date}
		p[valueField] = []any{value}
	}

	dates, ok := asSlice(p[dateField])
	if !ok {
		return notArray(slug, dateField)
	}
	values, ok := asSlice(p[valueField])
	if !ok {
		return notArray(slug, valueField)
	}

	if len(dates) != len(values) {
		return &health.ValidationError{
			Slug:   slug,
			Fields: []string{dateField, valueField},
			Reason: fmt.Sprintf("field lengths must be equal (%d dates, %d values)", len(dates), len(values)),
		}
	}
	if len(dates) > MaxSamplesPerPayload {
		return &health.ValidationError{
			Slug:   slug,
			Fields: []string{dateField, valueField},
			Reason: fmt.Sprintf("too many samples (%d, max %d)", len(dates), MaxSamplesPerPayload),
		}
	}

	return nil
}

func notArray(slug, field string) error {
	return &health.ValidationError{
		Slug:   slug,
		Fields: []string{field},
		Reason: "field must be an array",
	}
}

// asSlice accepts the decoded JSON array form as well as []string, which is
// what callers building payloads by hand tend to use.
func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	default:
		return nil, false
	}
}
