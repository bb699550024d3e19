package metrics

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"speedtest-monitor/internal/domain"
)

// Failure stage labels for CycleFailuresTotal.
const (
	StageMeasure = "measure"
	StageStore   = "store"
)

var (
	CyclesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "speedtest_cycles_total",
		Help: "Total number of measurement cycles attempted",
	})
	CycleFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "speedtest_cycle_failures_total",
		Help: "Total number of failed measurement cycles by stage",
	}, []string{"stage"})
	ConsecutiveFailures = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "speedtest_consecutive_failures",
		Help: "Number of consecutive cycles that have failed",
	})
	CycleDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "speedtest_cycle_duration_seconds",
		Help:    "Duration of a full measure-and-store cycle in seconds",
		Buckets: []float64{5, 15, 30, 60, 120, 300, 600},
	})

	LastDownloadMbps = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "speedtest_last_download_mbps",
		Help: "Download throughput of the last successful measurement",
	})
	LastUploadMbps = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "speedtest_last_upload_mbps",
		Help: "Upload throughput of the last successful measurement",
	})
	LastPingMs = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "speedtest_last_ping_ms",
		Help: "Round-trip latency of the last successful measurement",
	})

	registerOnce sync.Once
	serverOnce   sync.Once
)

// Init registers all collectors with the default registry.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			CyclesTotal,
			CycleFailuresTotal,
			ConsecutiveFailures,
			CycleDurationSeconds,
			LastDownloadMbps,
			LastUploadMbps,
			LastPingMs,
		)
	})
}

// Logger is the logging behaviour the metrics server needs.
type Logger interface {
	Infof(format string, v ...any)
	Errorf(format string, v ...any)
}

// StartServer exposes /metrics on the given port in a background goroutine.
// A bind failure is logged, not fatal: metrics are best-effort.
func StartServer(logger Logger, port string) {
	if port == "" {
		return
	}
	Init()
	serverOnce.Do(func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())

		addr := net.JoinHostPort("", port)
		go func() {
			logger.Infof("metrics server listening on %s", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Errorf("metrics server error: %v", err)
			}
		}()
	})
}

// RecordCycle tracks one attempted cycle and its duration.
func RecordCycle(duration time.Duration) {
	Init()
	if duration < 0 {
		duration = 0
	}
	CyclesTotal.Inc()
	CycleDurationSeconds.Observe(duration.Seconds())
}

// RecordResult publishes the numbers from a successful measurement.
func RecordResult(m domain.Measurement) {
	Init()
	LastDownloadMbps.Set(m.DownloadMbps)
	LastUploadMbps.Set(m.UploadMbps)
	LastPingMs.Set(m.PingMs)
}

// RecordFailure tracks a failed cycle at the given stage.
func RecordFailure(stage string) {
	Init()
	CycleFailuresTotal.WithLabelValues(stage).Inc()
}

// SetConsecutiveFailures updates the consecutive-failure gauge.
func SetConsecutiveFailures(n int) {
	Init()
	ConsecutiveFailures.Set(float64(n))
}
