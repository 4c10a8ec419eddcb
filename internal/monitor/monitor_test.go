package monitor

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/yildizm/SysSecura/internal/intake"
	"github.com/yildizm/SysSecura/internal/predict"
	"github.com/yildizm/SysSecura/internal/session"
)

func TestCounter(t *testing.T) {
	counter := NewCounter("test_counter")

	if counter.Get() != 0 {
		t.Errorf("Expected initial value 0, got %d", counter.Get())
	}

	counter.Inc()
	if counter.Get() != 1 {
		t.Errorf("Expected value 1 after Inc(), got %d", counter.Get())
	}

	counter.Add(5)
	if counter.Get() != 6 {
		t.Errorf("Expected value 6 after Add(5), got %d", counter.Get())
	}

	if counter.Name() != "test_counter" {
		t.Errorf("Expected name 'test_counter', got %s", counter.Name())
	}
}

func TestGauge(t *testing.T) {
	gauge := NewGauge("test_gauge")

	gauge.Inc()
	gauge.Inc()
	gauge.Dec()
	if gauge.Get() != 1 {
		t.Errorf("Expected value 1, got %d", gauge.Get())
	}
}

func TestTimer(t *testing.T) {
	timer := NewTimer("test_timer")

	if timer.Count() != 0 || timer.MinTime() != 0 || timer.AvgTime() != 0 {
		t.Error("Expected zero values before the first measurement")
	}

	timer.Record(100 * time.Millisecond)
	timer.Record(200 * time.Millisecond)
	timer.Record(150 * time.Millisecond)

	if timer.Count() != 3 {
		t.Errorf("Expected count 3, got %d", timer.Count())
	}
	if timer.TotalTime() != 450*time.Millisecond {
		t.Errorf("Expected total time 450ms, got %v", timer.TotalTime())
	}
	if timer.AvgTime() != 150*time.Millisecond {
		t.Errorf("Expected avg time 150ms, got %v", timer.AvgTime())
	}
	if timer.MinTime() != 100*time.Millisecond {
		t.Errorf("Expected min time 100ms, got %v", timer.MinTime())
	}
	if timer.MaxTime() != 200*time.Millisecond {
		t.Errorf("Expected max time 200ms, got %v", timer.MaxTime())
	}
}

func TestTimerConcurrentRecord(t *testing.T) {
	timer := NewTimer("concurrent")

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(ms int) {
			defer wg.Done()
			timer.Record(time.Duration(ms) * time.Millisecond)
		}(i)
	}
	wg.Wait()

	if timer.Count() != 50 {
		t.Errorf("Expected count 50, got %d", timer.Count())
	}
	if timer.MinTime() != time.Millisecond || timer.MaxTime() != 50*time.Millisecond {
		t.Errorf("Expected min 1ms and max 50ms, got %v and %v", timer.MinTime(), timer.MaxTime())
	}
}

func TestStatsRecord(t *testing.T) {
	file := intake.FromBytes("logs.json", intake.MediaTypeJSON, []byte(`[]`))
	results := []predict.Record{
		{User: "u1", Anomaly: predict.Value(`0`)},
		{User: "u2", Anomaly: predict.Value(`1`)},
		{User: "u3", Anomaly: predict.Value(`1`)},
	}

	stats := NewStats()
	stats.Record(session.State{Phase: session.PhaseSucceeded, File: file, Results: results}, 30*time.Millisecond)
	stats.Record(session.State{Phase: session.PhaseFailed, File: file, Message: "An error occurred: boom"}, 10*time.Millisecond)
	stats.Record(session.State{Phase: session.PhaseRejected, Message: session.MsgInvalidFile}, time.Millisecond)

	snap := stats.Snapshot()
	if snap.Submissions != 3 || snap.Succeeded != 1 || snap.Failed != 1 || snap.Rejected != 1 {
		t.Errorf("Unexpected outcome counts: %+v", snap)
	}
	if snap.Records != 3 || snap.Flagged != 2 {
		t.Errorf("Expected 3 records with 2 flagged, got %d and %d", snap.Records, snap.Flagged)
	}
	if snap.Latency.Count != 2 || snap.Latency.Avg != "20ms" {
		t.Errorf("Expected rejections kept out of latency, got %+v", snap.Latency)
	}
}

func TestStatsTrack(t *testing.T) {
	stats := NewStats()
	wantErr := errors.New("remote failure")

	state, err := stats.Track(func() (session.State, error) {
		if stats.Snapshot().InFlight != 1 {
			t.Error("Expected one submission in flight while running")
		}
		return session.State{Phase: session.PhaseFailed}, wantErr
	})

	if !errors.Is(err, wantErr) || state.Phase != session.PhaseFailed {
		t.Errorf("Expected run outcome passed through, got %v / %s", err, state.Phase)
	}
	snap := stats.Snapshot()
	if snap.InFlight != 0 || snap.Failed != 1 {
		t.Errorf("Unexpected snapshot after Track: %+v", snap)
	}
}
