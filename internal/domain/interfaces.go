package domain

import "context"

// MeasurementWriter persists one measurement per completed cycle.
type MeasurementWriter interface {
	Insert(ctx context.Context, measurement Measurement) error
}

// MeasurementReader exposes the read path over stored measurements.
type MeasurementReader interface {
	Latest(ctx context.Context, limit int) ([]Measurement, error)
}

// MeasurementStore aggregates the capabilities of the storage gateway.
type MeasurementStore interface {
	MeasurementWriter
	MeasurementReader
	Close() error
}

// Measurer runs one full speed test and returns its result.
type Measurer interface {
	Run(ctx context.Context) (Measurement, error)
}
