package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"speedtest-monitor/internal/domain"
)

func TestRecordResultUpdatesGauges(t *testing.T) {
	RecordResult(domain.Measurement{
		DownloadMbps: 93.45,
		UploadMbps:   11.20,
		PingMs:       14.70,
	})

	if got := testutil.ToFloat64(LastDownloadMbps); got != 93.45 {
		t.Fatalf("last download = %v, want 93.45", got)
	}
	if got := testutil.ToFloat64(LastUploadMbps); got != 11.20 {
		t.Fatalf("last upload = %v, want 11.20", got)
	}
	if got := testutil.ToFloat64(LastPingMs); got != 14.70 {
		t.Fatalf("last ping = %v, want 14.70", got)
	}
}

func TestRecordCycleAndFailures(t *testing.T) {
	before := testutil.ToFloat64(CyclesTotal)
	RecordCycle(3 * time.Second)
	if got := testutil.ToFloat64(CyclesTotal); got != before+1 {
		t.Fatalf("cycles total = %v, want %v", got, before+1)
	}

	beforeMeasure := testutil.ToFloat64(CycleFailuresTotal.WithLabelValues(StageMeasure))
	RecordFailure(StageMeasure)
	if got := testutil.ToFloat64(CycleFailuresTotal.WithLabelValues(StageMeasure)); got != beforeMeasure+1 {
		t.Fatalf("measure failures = %v, want %v", got, beforeMeasure+1)
	}

	SetConsecutiveFailures(4)
	if got := testutil.ToFloat64(ConsecutiveFailures); got != 4 {
		t.Fatalf("consecutive failures = %v, want 4", got)
	}
	SetConsecutiveFailures(0)
}
