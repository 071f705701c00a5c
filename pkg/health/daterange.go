package health

import (
	"errors"
	"fmt"
)

// DateLabelLayout renders a day as Dec16-2019.
const DateLabelLayout = "Jan02-2006"

var errNoReadings = errors.New("cannot determine the date range of an empty set of data")

// DateRangeLabel describes the days covered by readings, using the first and
// last reading in input order. One day yields "Dec16-2019"; several yield
// "Dec16-2019-Dec20-2019".
func DateRangeLabel(readings []Reading) (string, error) {
	if len(readings) == 0 {
		return "", NewLoadingError("date range", errNoReadings)
	}

	begin := readings[0].Timestamp().Format(DateLabelLayout)
	end := readings[len(readings)-1].Timestamp().Format(DateLabelLayout)
	if begin == end {
		return begin, nil
	}
	return fmt.Sprintf("%s-%s", begin, end), nil
}

// BaseFilename returns "{slug}-{date range}" with no directory or extension.
func BaseFilename(slug string, readings []Reading) (string, error) {
	label, err := DateRangeLabel(readings)
	if err != nil {
		return "", err
	}
	return slug + "-" + label, nil
}
