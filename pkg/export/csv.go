package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/nicktill/heartbridge/pkg/health"
)

// CSVExporter writes a header row followed by one row per reading.
type CSVExporter struct{}

func (CSVExporter) Format() Format { return FormatCSV }

// WriteReadings writes readings to path as CSV.
func (CSVExporter) WriteReadings(readings []health.Reading, path string) (string, error) {
	if len(readings) == 0 {
		return "", health.NewExportError("write csv", path, errNoReadings)
	}
	return writeFile(path, func(f *os.File) error {
		return WriteCSV(f, readings)
	})
}

// WriteCSV writes readings as CSV to w.
func WriteCSV(w io.Writer, readings []health.Reading) error {
	if len(readings) == 0 {
		return errNoReadings
	}

	writer := csv.NewWriter(w)

	if err := writer.Write(readings[0].FieldNames()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range readings {
		if err := writer.Write(r.Record()); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
