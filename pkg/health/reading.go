package health

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// TimestampLayout is the only accepted timestamp layout for incoming samples.
// Exports render timestamps with the same layout so files round-trip.
const TimestampLayout = "2006-01-02 15:04:05"

// TimestampField is the column/key holding the timestamp in every export.
const TimestampField = "timestamp"

// Kind identifies the concrete shape of a Reading.
type Kind int

const (
	// KindGeneric holds values of unrecognized record types verbatim.
	KindGeneric Kind = iota
	KindHeartRate
	KindSteps
	KindFlightsClimbed
	KindRestingHeartRate
	KindHeartRateVariability
	KindCyclingDistance
)

// ValueType describes how a Kind stores its measurement.
type ValueType int

const (
	ValueText ValueType = iota
	ValueFloat
	ValueInteger
)

var kindNames = map[Kind]string{
	KindGeneric:              "generic",
	KindHeartRate:            "heart_rate",
	KindSteps:                "steps",
	KindFlightsClimbed:       "flights_climbed",
	KindRestingHeartRate:     "resting_heart_rate",
	KindHeartRateVariability: "heart_rate_variability",
	KindCyclingDistance:      "cycling_distance",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ValueField returns the name of the value column for this kind.
func (k Kind) ValueField() string {
	if k == KindGeneric {
		return "value"
	}
	return k.String()
}

// ValueType reports whether the kind stores floats, integers or raw text.
func (k Kind) ValueType() ValueType {
	switch k {
	case KindHeartRate, KindHeartRateVariability, KindCyclingDistance:
		return ValueFloat
	case KindSteps, KindFlightsClimbed, KindRestingHeartRate:
		return ValueInteger
	default:
		return ValueText
	}
}

// precision is the number of decimals a float kind is rounded to on export.
// -1 keeps the shortest representation.
func (k Kind) precision() int {
	switch k {
	case KindHeartRate:
		return 1
	case KindHeartRateVariability:
		return 2
	default:
		return -1
	}
}

// Reading is one timestamped measurement. Readings are values; the
// constructors below are the only way to build a populated one.
type Reading struct {
	kind      Kind
	timestamp time.Time
	float     float64
	integer   int64
	text      string
}

// NewFloat builds a reading for a float kind (heart rate, HRV, cycling distance).
func NewFloat(kind Kind, ts time.Time, v float64) Reading {
	return Reading{kind: kind, timestamp: ts, float: v}
}

// NewInteger builds a reading for an integer kind (steps, flights, resting heart rate).
func NewInteger(kind Kind, ts time.Time, v int64) Reading {
	return Reading{kind: kind, timestamp: ts, integer: v}
}

// NewGeneric builds a reading for an unrecognized record type.
func NewGeneric(ts time.Time, v string) Reading {
	return Reading{kind: KindGeneric, timestamp: ts, text: v}
}

func (r Reading) Kind() Kind           { return r.kind }
func (r Reading) Timestamp() time.Time { return r.timestamp }
func (r Reading) Float() float64       { return r.float }
func (r Reading) Int() int64           { return r.integer }
func (r Reading) Text() string         { return r.text }

// FieldNames returns the export columns for this reading.
func (r Reading) FieldNames() []string {
	return []string{TimestampField, r.kind.ValueField()}
}

// TimestampString renders the timestamp in TimestampLayout.
func (r Reading) TimestampString() string {
	return r.timestamp.Format(TimestampLayout)
}

// Value returns the export value: a rounded float64, an int64 or a string.
func (r Reading) Value() any {
	switch r.kind.ValueType() {
	case ValueFloat:
		return round(r.float, r.kind.precision())
	case ValueInteger:
		return r.integer
	default:
		return r.text
	}
}

// FormattedValue renders the export value as text.
func (r Reading) FormattedValue() string {
	switch r.kind.ValueType() {
	case ValueFloat:
		return strconv.FormatFloat(round(r.float, r.kind.precision()), 'f', -1, 64)
	case ValueInteger:
		return strconv.FormatInt(r.integer, 10)
	default:
		return r.text
	}
}

// Record is the CSV row for this reading, aligned with FieldNames.
func (r Reading) Record() []string {
	return []string{r.TimestampString(), r.FormattedValue()}
}

// Map projects the reading onto its field names.
func (r Reading) Map() map[string]any {
	return map[string]any{
		TimestampField:      r.TimestampString(),
		r.kind.ValueField(): r.Value(),
	}
}

// MarshalJSON writes a flat object with the timestamp first.
func (r Reading) MarshalJSON() ([]byte, error) {
	ts, err := json.Marshal(r.TimestampString())
	if err != nil {
		return nil, err
	}
	field, err := json.Marshal(r.kind.ValueField())
	if err != nil {
		return nil, err
	}
	val, err := json.Marshal(r.Value())
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"` + TimestampField + `":`)
	buf.Write(ts)
	buf.WriteByte(',')
	buf.Write(field)
	buf.WriteByte(':')
	buf.Write(val)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func round(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
