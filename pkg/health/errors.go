package health

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks a payload whose shape is wrong: missing fields,
	// non-array fields or parallel arrays of different length.
	ErrValidation = errors.New("validation failed")

	// ErrLoading marks a payload that could not be turned into readings, or a
	// derived property requested from an empty set of readings.
	ErrLoading = errors.New("loading failed")

	// ErrExport marks a failure while creating directories or writing files.
	ErrExport = errors.New("export failed")
)

// ValidationError describes why a payload was rejected before parsing.
type ValidationError struct {
	Slug   string
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%v: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%v: %s [%s]", ErrValidation, e.Reason, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// LoadingError describes a failure resolving or parsing a payload.
// Index is the sample position when the failure is tied to one sample, else -1.
type LoadingError struct {
	Op    string
	Index int
	Err   error
}

func (e *LoadingError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%v: %s (sample %d): %v", ErrLoading, e.Op, e.Index, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", ErrLoading, e.Op, e.Err)
}

func (e *LoadingError) Unwrap() []error { return []error{ErrLoading, e.Err} }

// ExportError describes an I/O failure while persisting readings.
type ExportError struct {
	Op   string
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %s: %v", ErrExport, e.Op, e.Err)
	}
	return fmt.Sprintf("%v: %s %s: %v", ErrExport, e.Op, e.Path, e.Err)
}

func (e *ExportError) Unwrap() []error { return []error{ErrExport, e.Err} }

// NewLoadingError wraps err as a loading failure not tied to a sample.
func NewLoadingError(op string, err error) error {
	return &LoadingError{Op: op, Index: -1, Err: err}
}

// NewExportError wraps err as an export failure on path.
func NewExportError(op, path string, err error) error {
	return &ExportError{Op: op, Path: path, Err: err}
}
