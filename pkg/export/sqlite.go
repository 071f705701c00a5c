package export

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nicktill/heartbridge/pkg/health"
)

// SQLiteTable is the table every SQLite export writes to.
const SQLiteTable = "readings"

// SQLiteExporter writes readings into a fresh SQLite database with a single
// table whose columns mirror the CSV header.
type SQLiteExporter struct{}

func (SQLiteExporter) Format() Format { return FormatSQLite }

// WriteReadings replaces any database at path with one holding readings.
func (SQLiteExporter) WriteReadings(readings []health.Reading, path string) (string, error) {
	if len(readings) == 0 {
		return "", health.NewExportError("write sqlite", path, errNoReadings)
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", health.NewExportError("remove", path, err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return "", health.NewExportError("open", path, err)
	}
	if err := writeSQLite(db, readings); err != nil {
		db.Close()
		return "", health.NewExportError("write sqlite", path, err)
	}
	if err := db.Close(); err != nil {
		return "", health.NewExportError("close", path, err)
	}

	return resolve(path)
}

func writeSQLite(db *sql.DB, readings []health.Reading) error {
	kind := readings[0].Kind()
	valueField := kind.ValueField()

	schema := fmt.Sprintf(
		"CREATE TABLE %s (%s TEXT NOT NULL, %s %s NOT NULL)",
		SQLiteTable, health.TimestampField, valueField, columnType(kind),
	)
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s (%s, %s) VALUES (?, ?)",
		SQLiteTable, health.TimestampField, valueField,
	))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range readings {
		if _, err := stmt.Exec(r.TimestampString(), r.Value()); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert reading: %w", err)
		}
	}

	return tx.Commit()
}

func columnType(kind health.Kind) string {
	switch kind.ValueType() {
	case health.ValueFloat:
		return "REAL"
	case health.ValueInteger:
		return "INTEGER"
	default:
		return "TEXT"
	}
}
