package health

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errNoRecordType      = errors.New("payload must include a type key indicating the type of health record")
	errInvalidRecordType = errors.New("record type cannot be used in a file name")
)

// Payload is a decoded JSON object as sent by the Shortcuts app.
type Payload map[string]any

// Resolution is the outcome of inspecting a payload for its record type.
type Resolution struct {
	Slug string
	// TypeName is the raw type string as sent, empty for legacy payloads.
	TypeName string
	Legacy   bool
}

// ResolveSlug determines the record type slug of a payload. A non-empty
// string "type" wins; without one, payloads carrying both hrDates and
// hrValues resolve to LegacySlug. Anything else, including a type whose slug
// is not a safe file name, is a loading error.
func ResolveSlug(p Payload) (Resolution, error) {
	if name, ok := p[TypeField].(string); ok && strings.TrimSpace(name) != "" {
		slug := Slugify(name)
		if !ValidSlug(slug) {
			return Resolution{}, NewLoadingError("resolve record type", fmt.Errorf("%w: %q", errInvalidRecordType, name))
		}
		return Resolution{Slug: slug, TypeName: name}, nil
	}

	_, hasDates := p[LegacyDateField]
	_, hasValues := p[LegacyValueField]
	if hasDates && hasValues {
		return Resolution{Slug: LegacySlug, Legacy: true}, nil
	}

	return Resolution{}, NewLoadingError("resolve record type", errNoRecordType)
}
