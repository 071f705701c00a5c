/*
Package health defines the data model for health samples received from the
iOS Shortcuts app.

# Readings

A Reading is a timestamp plus one measurement. The Kind decides how the
measurement is stored and rendered:

	heart_rate              float, rounded to 1 decimal on export
	heart_rate_variability  float, rounded to 2 decimals
	cycling_distance        float, natural form
	steps                   integer
	flights_climbed         integer
	resting_heart_rate      integer
	value                   verbatim string (unrecognized types)

Every reading exposes FieldNames, Record and Map so exporters never need to
switch on the kind themselves.

# Record types

Payloads name their type in human form ("Heart Rate"). ResolveSlug turns that
into a slug ("heart-rate") and Describe maps the slug onto a Descriptor. Older
shortcuts send hrDates/hrValues without a type; those resolve to
"heart-rate-legacy" and carry a deprecation notice.

# Errors

Failures fall into three categories, each a sentinel usable with errors.Is:
ErrValidation, ErrLoading and ErrExport. The typed ValidationError,
LoadingError and ExportError carry the details.
*/
package health
