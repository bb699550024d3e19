package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"speedtest-monitor/internal/domain"
	"speedtest-monitor/internal/scheduler"
)

type nopLogger struct{}

func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

type fakeMeasurer struct {
	result domain.Measurement
	err    error
	calls  int
}

func (f *fakeMeasurer) Run(context.Context) (domain.Measurement, error) {
	f.calls++
	if f.err != nil {
		return domain.Measurement{}, f.err
	}
	return f.result, nil
}

type fakeStore struct {
	mu       sync.Mutex
	inserted []domain.Measurement
	err      error
}

func (f *fakeStore) Insert(_ context.Context, m domain.Measurement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, m)
	return nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inserted)
}

func newTestScheduler() *scheduler.Scheduler {
	return scheduler.New(scheduler.Config{
		Interval: time.Minute,
		Tick:     time.Minute,
		Clock:    clock.NewMock(),
	}, nopLogger{})
}

func TestRunCycleStoresExactlyOneRecord(t *testing.T) {
	t.Parallel()

	want := domain.Measurement{
		DownloadMbps:   93.45,
		UploadMbps:     11.20,
		PingMs:         14.70,
		ServerName:     "NYC1",
		ServerLocation: "NYC1, US",
		ServerSponsor:  "ExampleISP",
	}
	store := &fakeStore{}
	m := New(&fakeMeasurer{result: want}, store, newTestScheduler(), nopLogger{})

	require.NoError(t, m.RunCycle(context.Background()))
	require.Len(t, store.inserted, 1)
	require.Equal(t, want, store.inserted[0])
	require.Zero(t, m.ConsecutiveFailures())
}

func TestRunCycleMeasurementFailureStoresNothing(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	cause := &domain.MeasurementError{Stage: domain.StageDownload, Err: errors.New("stalled")}
	m := New(&fakeMeasurer{err: cause}, store, newTestScheduler(), nopLogger{})

	err := m.RunCycle(context.Background())
	require.Error(t, err)
	require.Empty(t, store.inserted)
	require.Equal(t, 1, m.ConsecutiveFailures())
}

func TestRunCycleWriteFailureDropsResult(t *testing.T) {
	t.Parallel()

	store := &fakeStore{err: &domain.WriteError{Err: errors.New("connection reset")}}
	m := New(&fakeMeasurer{result: domain.Measurement{DownloadMbps: 1}}, store, newTestScheduler(), nopLogger{})

	err := m.RunCycle(context.Background())
	require.Error(t, err)
	require.Empty(t, store.inserted)
	require.Equal(t, 1, m.ConsecutiveFailures())
}

func TestConsecutiveFailuresResetOnSuccess(t *testing.T) {
	t.Parallel()

	measurer := &fakeMeasurer{err: errors.New("offline")}
	store := &fakeStore{}
	m := New(measurer, store, newTestScheduler(), nopLogger{})

	require.Error(t, m.RunCycle(context.Background()))
	require.Error(t, m.RunCycle(context.Background()))
	require.Equal(t, 2, m.ConsecutiveFailures())

	measurer.err = nil
	measurer.result = domain.Measurement{DownloadMbps: 50}
	require.NoError(t, m.RunCycle(context.Background()))
	require.Zero(t, m.ConsecutiveFailures())
	require.Len(t, store.inserted, 1)
}

func TestRunDrivesSchedulerUntilCancelled(t *testing.T) {
	t.Parallel()

	mock := clock.NewMock()
	sched := scheduler.New(scheduler.Config{
		Interval: time.Minute,
		Tick:     time.Minute,
		Clock:    mock,
	}, nopLogger{})

	measurer := &fakeMeasurer{result: domain.Measurement{DownloadMbps: 10}}
	store := &fakeStore{}
	m := New(measurer, store, sched, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Run(ctx)
	}()

	// First cycle runs without any clock movement.
	require.Eventually(t, func() bool { return store.count() >= 1 }, 2*time.Second, 10*time.Millisecond)

	mock.Add(time.Minute)
	require.Eventually(t, func() bool { return store.count() >= 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop after cancellation")
	}
}
