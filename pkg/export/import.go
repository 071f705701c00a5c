package export

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nicktill/heartbridge/pkg/health"
)

// ReadFile loads an export back into readings of kind. The format is taken
// from the file extension.
func ReadFile(path string, kind health.Kind) ([]health.Reading, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, health.NewLoadingError("import", err)
	}

	if format == FormatSQLite {
		return readSQLite(path, kind)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, health.NewLoadingError("import", err)
	}
	defer f.Close()

	if format == FormatJSON {
		return ReadJSON(f, kind)
	}
	return ReadCSV(f, kind)
}

// ReadCSV parses CSV written by WriteCSV.
func ReadCSV(r io.Reader, kind health.Kind) ([]health.Reading, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	header, err := reader.Read()
	if err != nil {
		return nil, health.NewLoadingError("read csv header", err)
	}
	if header[0] != health.TimestampField || header[1] != kind.ValueField() {
		return nil, health.NewLoadingError("read csv header", fmt.Errorf("unexpected columns %v", header))
	}

	var readings []health.Reading
	for i := 0; ; i++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &health.LoadingError{Op: "read csv row", Index: i, Err: err}
		}
		reading, err := decodeReading(kind, row[0], row[1])
		if err != nil {
			return nil, &health.LoadingError{Op: "read csv row", Index: i, Err: err}
		}
		readings = append(readings, reading)
	}

	return readings, nil
}

// ReadJSON parses a JSON array written by WriteJSON.
func ReadJSON(r io.Reader, kind health.Kind) ([]health.Reading, error) {
	var rows []map[string]any
	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	if err := decoder.Decode(&rows); err != nil {
		return nil, health.NewLoadingError("decode json", err)
	}

	readings := make([]health.Reading, 0, len(rows))
	for i, row := range rows {
		ts, ok := row[health.TimestampField].(string)
		if !ok {
			return nil, &health.LoadingError{Op: "read json object", Index: i, Err: fmt.Errorf("missing %s", health.TimestampField)}
		}

		var text string
		switch v := row[kind.ValueField()].(type) {
		case string:
			text = v
		case json.Number:
			text = v.String()
		default:
			return nil, &health.LoadingError{Op: "read json object", Index: i, Err: fmt.Errorf("missing %s", kind.ValueField())}
		}

		reading, err := decodeReading(kind, ts, text)
		if err != nil {
			return nil, &health.LoadingError{Op: "read json object", Index: i, Err: err}
		}
		readings = append(readings, reading)
	}

	return readings, nil
}

func readSQLite(path string, kind health.Kind) ([]health.Reading, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, health.NewLoadingError("import", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, health.NewLoadingError("open sqlite", err)
	}
	defer db.Close()

	rows, err := db.Query(fmt.Sprintf(
		"SELECT %s, CAST(%s AS TEXT) FROM %s ORDER BY rowid",
		health.TimestampField, kind.ValueField(), SQLiteTable,
	))
	if err != nil {
		return nil, health.NewLoadingError("query sqlite", err)
	}
	defer rows.Close()

	var readings []health.Reading
	for i := 0; rows.Next(); i++ {
		var ts, text string
		if err := rows.Scan(&ts, &text); err != nil {
			return nil, &health.LoadingError{Op: "scan sqlite row", Index: i, Err: err}
		}
		reading, err := decodeReading(kind, ts, text)
		if err != nil {
			return nil, &health.LoadingError{Op: "scan sqlite row", Index: i, Err: err}
		}
		readings = append(readings, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, health.NewLoadingError("query sqlite", err)
	}

	return readings, nil
}

func decodeReading(kind health.Kind, ts, text string) (health.Reading, error) {
	t, err := time.Parse(health.TimestampLayout, ts)
	if err != nil {
		return health.Reading{}, err
	}
	return health.ParseReading(kind, t, text)
}
