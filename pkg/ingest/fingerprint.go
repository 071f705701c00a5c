package ingest

import (
	"github.com/cespare/xxhash/v2"

	"github.com/nicktill/heartbridge/pkg/health"
)

// Fingerprint hashes the slug and rendered records of a batch. Two payloads
// with the same type and samples produce the same fingerprint.
func Fingerprint(slug string, readings []health.Reading) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(slug)
	for _, r := range readings {
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(r.TimestampString())
		_, _ = d.Write([]byte{'|'})
		_, _ = d.WriteString(r.FormattedValue())
	}
	return d.Sum64()
}
