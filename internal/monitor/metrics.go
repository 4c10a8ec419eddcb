// Package monitor keeps in-process submission statistics: outcome counters,
// records seen and prediction round-trip timings.
package monitor

import (
	"math"
	"time"

	"go.uber.org/atomic"
)

// Counter is a thread-safe counter metric
type Counter struct {
	value atomic.Int64
	name  string
}

// NewCounter creates a new counter metric
func NewCounter(name string) *Counter {
	return &Counter{name: name}
}

// Inc increments the counter by 1
func (c *Counter) Inc() {
	c.value.Inc()
}

// Add adds the given value to the counter
func (c *Counter) Add(value int64) {
	c.value.Add(value)
}

// Get returns the current counter value
func (c *Counter) Get() int64 {
	return c.value.Load()
}

// Name returns the counter name
func (c *Counter) Name() string {
	return c.name
}

// Gauge is a thread-safe integer gauge that can go up and down
type Gauge struct {
	value atomic.Int64
	name  string
}

// NewGauge creates a new gauge metric
func NewGauge(name string) *Gauge {
	return &Gauge{name: name}
}

func (g *Gauge) Inc() {
	g.value.Inc()
}

func (g *Gauge) Dec() {
	g.value.Dec()
}

// Get returns the current gauge value
func (g *Gauge) Get() int64 {
	return g.value.Load()
}

// Name returns the gauge name
func (g *Gauge) Name() string {
	return g.name
}

// Timer is a thread-safe timer for measuring operation durations
type Timer struct {
	count     atomic.Int64
	totalTime atomic.Int64
	minTime   atomic.Int64
	maxTime   atomic.Int64
	name      string
}

// NewTimer creates a new timer metric
func NewTimer(name string) *Timer {
	t := &Timer{name: name}
	t.minTime.Store(math.MaxInt64)
	return t
}

// Record records a duration measurement
func (t *Timer) Record(duration time.Duration) {
	nanos := duration.Nanoseconds()

	t.count.Inc()
	t.totalTime.Add(nanos)

	for {
		current := t.minTime.Load()
		if nanos >= current || t.minTime.CAS(current, nanos) {
			break
		}
	}
	for {
		current := t.maxTime.Load()
		if nanos <= current || t.maxTime.CAS(current, nanos) {
			break
		}
	}
}

// Count returns the number of recorded measurements
func (t *Timer) Count() int64 {
	return t.count.Load()
}

// TotalTime returns the total time of all measurements
func (t *Timer) TotalTime() time.Duration {
	return time.Duration(t.totalTime.Load())
}

// MinTime returns the minimum recorded time, 0 before the first measurement
func (t *Timer) MinTime() time.Duration {
	minTime := t.minTime.Load()
	if minTime == math.MaxInt64 {
		return 0
	}
	return time.Duration(minTime)
}

// MaxTime returns the maximum recorded time
func (t *Timer) MaxTime() time.Duration {
	return time.Duration(t.maxTime.Load())
}

// AvgTime returns the average time of all measurements
func (t *Timer) AvgTime() time.Duration {
	count := t.count.Load()
	if count == 0 {
		return 0
	}
	return time.Duration(t.totalTime.Load() / count)
}

// Name returns the timer name
func (t *Timer) Name() string {
	return t.name
}
