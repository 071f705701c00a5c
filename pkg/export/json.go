package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nicktill/heartbridge/pkg/health"
)

// JSONExporter writes a single top-level array of flat reading objects.
type JSONExporter struct{}

func (JSONExporter) Format() Format { return FormatJSON }

// WriteReadings writes readings to path as a JSON array.
func (JSONExporter) WriteReadings(readings []health.Reading, path string) (string, error) {
	if len(readings) == 0 {
		return "", health.NewExportError("write json", path, errNoReadings)
	}
	return writeFile(path, func(f *os.File) error {
		return WriteJSON(f, readings)
	})
}

// WriteJSON encodes readings as an indented JSON array to w.
func WriteJSON(w io.Writer, readings []health.Reading) error {
	if len(readings) == 0 {
		return errNoReadings
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(readings); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
