// Package speedtest drives one measurement cycle against the external
// speed-test capability and normalizes its raw results.
package speedtest

import (
	"context"
	"fmt"
	"math"

	"speedtest-monitor/internal/domain"
)

// ServerInfo identifies the measurement endpoint a test ran against.
type ServerInfo struct {
	Name    string
	Country string
	Sponsor string
}

// Target is a selected test server.
type Target interface {
	// Download and Upload return measured throughput in bits per second.
	Download(ctx context.Context) (float64, error)
	Upload(ctx context.Context) (float64, error)
	// Ping returns round-trip latency in milliseconds.
	Ping(ctx context.Context) (float64, error)
	Info() ServerInfo
}

// Capability is the external speed-test subsystem. It is treated as a black
// box: initialize, optionally refresh the candidate server list, select the
// best server.
type Capability interface {
	Init(ctx context.Context) error
	RefreshServers(ctx context.Context) error
	BestServer(ctx context.Context) (Target, error)
}

// Logger is the logging behaviour the client needs.
type Logger interface {
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
}

// Client runs one full speed test per call.
type Client struct {
	capability Capability
	logger     Logger
}

func NewClient(capability Capability, logger Logger) *Client {
	return &Client{capability: capability, logger: logger}
}

// Run executes one measurement: init, best-effort server refresh, server
// selection, download, upload, latency. Any failure other than the server
// refresh aborts the whole cycle with no partial result.
func (c *Client) Run(ctx context.Context) (domain.Measurement, error) {
	c.logger.Infof("initializing speed test")
	if err := c.capability.Init(ctx); err != nil {
		return domain.Measurement{}, &domain.MeasurementError{Stage: domain.StageInit, Err: err}
	}

	if err := c.capability.RefreshServers(ctx); err != nil {
		c.logger.Warnf("could not refresh server list, continuing with default configuration: %v", err)
	}

	target, err := c.capability.BestServer(ctx)
	if err != nil {
		return domain.Measurement{}, &domain.MeasurementError{Stage: domain.StageSelect, Err: err}
	}
	info := target.Info()
	if info.Name != "" || info.Sponsor != "" {
		c.logger.Infof("testing via %s (%s)", info.Sponsor, info.Name)
	}

	downloadBps, err := target.Download(ctx)
	if err != nil {
		return domain.Measurement{}, &domain.MeasurementError{Stage: domain.StageDownload, Err: err}
	}

	uploadBps, err := target.Upload(ctx)
	if err != nil {
		return domain.Measurement{}, &domain.MeasurementError{Stage: domain.StageUpload, Err: err}
	}

	pingMs, err := target.Ping(ctx)
	if err != nil {
		return domain.Measurement{}, &domain.MeasurementError{Stage: domain.StagePing, Err: err}
	}

	m := domain.Measurement{
		DownloadMbps:  round2(downloadBps / 1_000_000),
		UploadMbps:    round2(uploadBps / 1_000_000),
		PingMs:        round2(pingMs),
		ServerName:    info.Name,
		ServerSponsor: info.Sponsor,
	}
	if info.Name != "" || info.Country != "" {
		m.ServerLocation = fmt.Sprintf("%s, %s", info.Name, info.Country)
	}

	c.logger.Infof("results: download %.2f Mbps, upload %.2f Mbps, ping %.2f ms",
		m.DownloadMbps, m.UploadMbps, m.PingMs)

	return m, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var _ domain.Measurer = (*Client)(nil)
