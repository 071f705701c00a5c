package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nicktill/heartbridge/pkg/health"
)

// Format names an output file type.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
)

// Formats lists every supported output format.
var Formats = []Format{FormatCSV, FormatJSON, FormatSQLite}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	if f == FormatSQLite {
		return "db"
	}
	return string(f)
}

// ParseFormat validates a configured format name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported export format %q (want csv, json or sqlite)", name)
}

// FormatFromPath infers the format of an existing export from its extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".db", ".sqlite":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("cannot infer export format from %q", path)
	}
}

// Exporter writes a batch of readings to a file and returns the absolute,
// symlink-resolved path of the file written.
type Exporter interface {
	Format() Format
	WriteReadings(readings []health.Reading, path string) (string, error)
}

// New returns the exporter for format.
func New(format Format) (Exporter, error) {
	switch format {
	case FormatCSV:
		return CSVExporter{}, nil
	case FormatJSON:
		return JSONExporter{}, nil
	case FormatSQLite:
		return SQLiteExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

var errNoReadings = fmt.Errorf("no readings to export")

// writeFile creates path, hands it to write and closes it, reporting the
// first failure as an ExportError.
func writeFile(path string, write func(f *os.File) error) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", health.NewExportError("create", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return "", health.NewExportError("write", path, err)
	}
	if err := f.Close(); err != nil {
		return "", health.NewExportError("close", path, err)
	}
	return resolve(path)
}

// resolve returns the absolute path with symlinks evaluated.
func resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", health.NewExportError("resolve", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", health.NewExportError("resolve", path, err)
	}
	return resolved, nil
}
