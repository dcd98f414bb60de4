// Package metrics collects per-client call latency and outcome counters.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Recorder aggregates call metrics for one client runtime. All methods are
// safe for concurrent use.
type Recorder struct {
	mu sync.Mutex

	totalCalls  atomic.Int64
	errorCalls  atomic.Int64
	failedCalls atomic.Int64

	// Latency histogram in microseconds
	histogram *hdrhistogram.Histogram
}

// Snapshot is a point-in-time view of the recorded metrics
type Snapshot struct {
	TotalCalls  int64
	ErrorCalls  int64
	FailedCalls int64
	P50         time.Duration
	P95         time.Duration
	P99         time.Duration
	Max         time.Duration
}

// NewRecorder creates a recorder covering latencies from 1us to 60s with
// three significant digits
func NewRecorder() *Recorder {
	return &Recorder{
		histogram: hdrhistogram.New(1, 60_000_000, 3),
	}
}

// Record adds one call outcome. isError marks an error-range status,
// failed marks a call that produced no response at all.
func (r *Recorder) Record(duration time.Duration, isError, failed bool) {
	r.totalCalls.Add(1)
	if isError {
		r.errorCalls.Add(1)
	}
	if failed {
		r.failedCalls.Add(1)
	}

	latencyUs := duration.Microseconds()
	if latencyUs < 1 {
		latencyUs = 1
	}
	if latencyUs > 60_000_000 {
		latencyUs = 60_000_000
	}

	r.mu.Lock()
	_ = r.histogram.RecordValue(latencyUs)
	r.mu.Unlock()
}

// Snapshot returns the current aggregate view
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Snapshot{
		TotalCalls:  r.totalCalls.Load(),
		ErrorCalls:  r.errorCalls.Load(),
		FailedCalls: r.failedCalls.Load(),
		P50:         time.Duration(r.histogram.ValueAtQuantile(50)) * time.Microsecond,
		P95:         time.Duration(r.histogram.ValueAtQuantile(95)) * time.Microsecond,
		P99:         time.Duration(r.histogram.ValueAtQuantile(99)) * time.Microsecond,
		Max:         time.Duration(r.histogram.Max()) * time.Microsecond,
	}
}
