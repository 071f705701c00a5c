// Package export writes parsed health readings to files and reads them back.
//
// # Overview
//
// Every batch received from the Shortcuts app ends up in exactly one file,
// named after the record type and the days it covers:
//
//	heart-rate-Dec16-2019.csv
//	steps-Apr05-2021-Apr10-2021.json
//
// BuildPath decides where that file goes and creates the output directory
// when needed. The Exporter for the configured format then writes it and
// returns the absolute path.
//
// # Supported Formats
//
// CSV Format:
//   - Header row: timestamp plus the value column for the record type
//   - One row per reading, in the order received
//   - Numbers in their shortest form (74, 56.8, 15.4)
//
// JSON Format:
//   - A single top-level array, no envelope
//   - Objects keyed like the CSV header
//   - Floats and integers are JSON numbers, unrecognized types are strings
//
// SQLite Format:
//   - One table named readings with the same two columns
//   - The database file is recreated on every export
//
// Example CSV output:
//
//	timestamp,heart_rate
//	2019-12-16 08:24:36,74
//	2019-12-16 09:32:17,83
//
// Example JSON output:
//
//	[
//	  {
//	    "timestamp": "2019-12-16 08:24:36",
//	    "heart_rate": 74
//	  }
//	]
//
// # Programmatic Usage
//
//	exporter, _ := export.New(export.FormatCSV)
//	path, _ := export.BuildPath("heart-rate-Dec16-2019", "exports", exporter.Format().Extension())
//	written, err := exporter.WriteReadings(readings, path)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// ReadFile loads any of the formats back into readings, which is mostly
// useful for checking that an export round-trips.
//
// # Error Handling
//
// Write failures, including an empty batch, wrap health.ErrExport. Failures
// reading a file back wrap health.ErrLoading.
package export
