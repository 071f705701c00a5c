package health

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

var (
	errNotWholeNumber = errors.New("value is not a whole number")
	errNotFinite      = errors.New("value is not a finite number")
)

// ParseReading builds a reading of kind from the textual form of its value.
// Float kinds take any finite decimal; integer kinds also take a float with a
// zero fraction ("12.0"); generic readings keep the text as is.
func ParseReading(kind Kind, ts time.Time, text string) (Reading, error) {
	switch kind.ValueType() {
	case ValueFloat:
		f, err := parseFloat(text)
		if err != nil {
			return Reading{}, err
		}
		return NewFloat(kind, ts, f), nil
	case ValueInteger:
		n, err := parseInteger(text)
		if err != nil {
			return Reading{}, err
		}
		return NewInteger(kind, ts, n), nil
	default:
		return NewGeneric(ts, text), nil
	}
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", errNotFinite, s)
	}
	return f, nil
}

func parseInteger(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := parseFloat(s)
	if err != nil {
		return 0, err
	}
	// float64 bounds are exact at -2^63 and 2^63; 2^63 itself overflows int64.
	if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%w: %q", errNotWholeNumber, s)
	}
	return int64(f), nil
}
