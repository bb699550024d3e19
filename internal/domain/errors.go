package domain

import "fmt"

// Stage identifies which step of a measurement cycle failed.
type Stage string

const (
	StageInit       Stage = "init"
	StageServerList Stage = "server-list"
	StageSelect     Stage = "select-server"
	StageDownload   Stage = "download"
	StageUpload     Stage = "upload"
	StagePing       Stage = "ping"
)

// MeasurementError reports a failed measurement step. Measurement failures
// abort the cycle but never the process.
type MeasurementError struct {
	Stage Stage
	Err   error
}

func (e *MeasurementError) Error() string {
	return fmt.Sprintf("measurement %s failed: %v", e.Stage, e.Err)
}

func (e *MeasurementError) Unwrap() error { return e.Err }

// WriteError reports a failed insert after a successful measurement. The
// result for that cycle is lost; the process keeps running.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("storage write failed: %v", e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
