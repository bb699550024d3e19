package domain_test

import (
	"errors"
	"strings"
	"testing"

	"speedtest-monitor/internal/domain"
)

func TestMeasurementErrorWrapping(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := &domain.MeasurementError{Stage: domain.StageDownload, Err: cause}

	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to find the cause")
	}

	var measurementErr *domain.MeasurementError
	if !errors.As(error(err), &measurementErr) {
		t.Fatal("expected errors.As to match MeasurementError")
	}
	if measurementErr.Stage != domain.StageDownload {
		t.Fatalf("stage = %q, want %q", measurementErr.Stage, domain.StageDownload)
	}
	if !strings.Contains(err.Error(), "download") {
		t.Fatalf("error message should name the stage: %s", err.Error())
	}
}

func TestWriteErrorWrapping(t *testing.T) {
	t.Parallel()

	cause := errors.New("deadlock detected")
	err := &domain.WriteError{Err: cause}

	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to find the cause")
	}
	if !strings.Contains(err.Error(), "deadlock detected") {
		t.Fatalf("error message should include the cause: %s", err.Error())
	}
}

func TestMeasurementValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		measurement domain.Measurement
		wantErr     bool
	}{
		{
			name:        "valid",
			measurement: domain.Measurement{DownloadMbps: 93.45, UploadMbps: 11.20, PingMs: 14.70},
		},
		{
			name:        "zero values allowed",
			measurement: domain.Measurement{},
		},
		{
			name:        "negative download",
			measurement: domain.Measurement{DownloadMbps: -1},
			wantErr:     true,
		},
		{
			name:        "negative upload",
			measurement: domain.Measurement{UploadMbps: -0.01},
			wantErr:     true,
		},
		{
			name:        "negative ping",
			measurement: domain.Measurement{PingMs: -5},
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.measurement.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
