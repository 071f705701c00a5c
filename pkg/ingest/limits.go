package ingest

import (
	"fmt"
)

// Payload size limits
const (
	// MaxBodyBytes caps the request body accepted by the HTTP handler.
	MaxBodyBytes = 8 << 20

	// MaxSamplesPerPayload caps the number of date/value pairs in one payload.
	// A year of per-minute heart rate samples fits comfortably.
	MaxSamplesPerPayload = 600000
)

var (
	// ErrBodyTooLarge is returned when a request body exceeds MaxBodyBytes
	ErrBodyTooLarge = fmt.Errorf("request body too large (max %d bytes)", MaxBodyBytes)

	// ErrUnsupportedMediaType is returned for bodies that are not JSON
	ErrUnsupportedMediaType = fmt.Errorf("content type must be application/json")

	errTrailingData = fmt.Errorf("unexpected data after JSON object")
)
