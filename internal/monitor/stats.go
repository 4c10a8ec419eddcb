package monitor

import (
	"time"

	"github.com/yildizm/SysSecura/internal/predict"
	"github.com/yildizm/SysSecura/internal/session"
)

// Stats tallies submission outcomes for one process
type Stats struct {
	started time.Time

	submissions *Counter
	succeeded   *Counter
	failed      *Counter
	rejected    *Counter
	records     *Counter
	flagged     *Counter
	inFlight    *Gauge
	latency     *Timer
}

// Snapshot is a point-in-time copy of the statistics
type Snapshot struct {
	Uptime      string          `json:"uptime"`
	Submissions int64           `json:"submissions"`
	Succeeded   int64           `json:"succeeded"`
	Failed      int64           `json:"failed"`
	Rejected    int64           `json:"rejected"`
	InFlight    int64           `json:"in_flight"`
	Records     int64           `json:"records"`
	Flagged     int64           `json:"flagged"`
	Latency     LatencySnapshot `json:"latency"`
}

// LatencySnapshot summarizes submission round trips that reached the service stage
type LatencySnapshot struct {
	Count int64  `json:"count"`
	Avg   string `json:"avg"`
	Min   string `json:"min"`
	Max   string `json:"max"`
}

// NewStats creates empty statistics
func NewStats() *Stats {
	return &Stats{
		started:     time.Now(),
		submissions: NewCounter("submissions"),
		succeeded:   NewCounter("succeeded"),
		failed:      NewCounter("failed"),
		rejected:    NewCounter("rejected"),
		records:     NewCounter("records"),
		flagged:     NewCounter("flagged"),
		inFlight:    NewGauge("in_flight"),
		latency:     NewTimer("latency"),
	}
}

// Track runs one submission and records its outcome and duration
func (s *Stats) Track(run func() (session.State, error)) (session.State, error) {
	s.inFlight.Inc()
	start := time.Now()

	state, err := run()

	s.inFlight.Dec()
	s.Record(state, time.Since(start))
	return state, err
}

// Record counts one settled submission. Rejections never reached the
// service, so they are kept out of the latency figures.
func (s *Stats) Record(state session.State, elapsed time.Duration) {
	s.submissions.Inc()

	switch state.Phase {
	case session.PhaseSucceeded:
		s.succeeded.Inc()
		summary := predict.Summarize(state.Results)
		s.records.Add(int64(summary.Total))
		s.flagged.Add(int64(summary.Flagged))
		s.latency.Record(elapsed)
	case session.PhaseFailed:
		s.failed.Inc()
		s.latency.Record(elapsed)
	case session.PhaseRejected:
		s.rejected.Inc()
	}
}

// Uptime returns the time since the statistics were created
func (s *Stats) Uptime() time.Duration {
	return time.Since(s.started)
}

// Snapshot returns the current statistics
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Uptime:      s.Uptime().Round(time.Second).String(),
		Submissions: s.submissions.Get(),
		Succeeded:   s.succeeded.Get(),
		Failed:      s.failed.Get(),
		Rejected:    s.rejected.Get(),
		InFlight:    s.inFlight.Get(),
		Records:     s.records.Get(),
		Flagged:     s.flagged.Get(),
		Latency: LatencySnapshot{
			Count: s.latency.Count(),
			Avg:   s.latency.AvgTime().String(),
			Min:   s.latency.MinTime().String(),
			Max:   s.latency.MaxTime().String(),
		},
	}
}
