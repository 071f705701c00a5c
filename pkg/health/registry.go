package health

import (
	"sort"
	"strings"
)

// Payload keys understood by the loader.
const (
	TypeField = "type"

	DefaultDateField  = "dates"
	DefaultValueField = "values"

	LegacyDateField  = "hrDates"
	LegacyValueField = "hrValues"
)

// LegacySlug is the slug assigned to payloads from the original heart rate
// shortcut, which sends hrDates/hrValues and no type.
const LegacySlug = "heart-rate-legacy"

// LegacyDeprecationNotice is attached to every batch loaded from a legacy payload.
const LegacyDeprecationNotice = "this version of the Heartbridge shortcut will be deprecated soon, please install the new one: https://github.com/mm/heartbridge"

// Descriptor maps a slug onto the reading kind and payload fields it uses.
type Descriptor struct {
	Slug        string
	Kind        Kind
	DateField   string
	ValueField  string
	DisplayName string
}

// Generic reports whether the slug fell back to the generic kind.
func (d Descriptor) Generic() bool {
	return d.Kind == KindGeneric
}

func standard(slug string, kind Kind, name string) Descriptor {
	return Descriptor{
		Slug:        slug,
		Kind:        kind,
		DateField:   DefaultDateField,
		ValueField:  DefaultValueField,
		DisplayName: name,
	}
}

// registry is built once and never mutated.
var registry = map[string]Descriptor{
	"heart-rate":             standard("heart-rate", KindHeartRate, "Heart Rate"),
	"steps":                  standard("steps", KindSteps, "Steps"),
	"flights-climbed":        standard("flights-climbed", KindFlightsClimbed, "Flights Climbed"),
	"resting-heart-rate":     standard("resting-heart-rate", KindRestingHeartRate, "Resting Heart Rate"),
	"heart-rate-variability": standard("heart-rate-variability", KindHeartRateVariability, "Heart Rate Variability"),
	"cycling-distance":       standard("cycling-distance", KindCyclingDistance, "Cycling Distance"),
	LegacySlug: {
		Slug:        LegacySlug,
		Kind:        KindHeartRate,
		DateField:   LegacyDateField,
		ValueField:  LegacyValueField,
		DisplayName: "Heart Rate (legacy)",
	},
}

// Lookup returns the registered descriptor for slug.
func Lookup(slug string) (Descriptor, bool) {
	d, ok := registry[slug]
	return d, ok
}

// Describe returns the registered descriptor for slug, or a generic
// descriptor using the default field names when the slug is unknown.
func Describe(slug string) Descriptor {
	if d, ok := registry[slug]; ok {
		return d
	}
	return standard(slug, KindGeneric, strings.ReplaceAll(slug, "-", " "))
}

// FieldsFor returns the date and value payload keys for slug.
func FieldsFor(slug string) (string, string) {
	d := Describe(slug)
	return d.DateField, d.ValueField
}

// Slugs lists the registered slugs in sorted order.
func Slugs() []string {
	slugs := make([]string, 0, len(registry))
	for slug := range registry {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// slugReplacer turns spaces and path separators into hyphens.
var slugReplacer = strings.NewReplacer(" ", "-", "/", "-", `\`, "-")

// Slugify lower-cases a record type name and replaces spaces and path
// separators with hyphens: "Heart Rate" becomes "heart-rate" and
// "Blood Glucose mg/dL" becomes "blood-glucose-mg-dl".
func Slugify(name string) string {
	return slugReplacer.Replace(strings.ToLower(name))
}

// ValidSlug reports whether slug can be used as the start of a file name.
// Slugs starting with a dot or containing ".." are refused.
func ValidSlug(slug string) bool {
	return slug != "" && !strings.HasPrefix(slug, ".") && !strings.Contains(slug, "..")
}
