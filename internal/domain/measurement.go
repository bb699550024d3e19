package domain

import (
	"errors"
	"time"
)

// Measurement is one completed speed test, ready to persist. Records are
// append-only: once stored they are never updated or deleted.
type Measurement struct {
	// Timestamp is the moment the record was created. A zero value means
	// the store assigns the time at write.
	Timestamp time.Time

	// Throughput in megabits per second, rounded to 2 decimal places.
	DownloadMbps float64
	UploadMbps   float64

	// Round-trip latency in milliseconds, rounded to 2 decimal places.
	PingMs float64

	// Metadata of the server the test ran against. Empty when the
	// measurement capability provides none.
	ServerName     string
	ServerLocation string
	ServerSponsor  string
}

// Validate reports whether the measurement can be stored.
func (m Measurement) Validate() error {
	if m.DownloadMbps < 0 {
		return errors.New("download speed must be non-negative")
	}
	if m.UploadMbps < 0 {
		return errors.New("upload speed must be non-negative")
	}
	if m.PingMs < 0 {
		return errors.New("ping must be non-negative")
	}
	return nil
}
