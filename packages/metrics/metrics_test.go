package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder()

	r.Record(10*time.Millisecond, false, false)
	r.Record(20*time.Millisecond, true, false)
	r.Record(30*time.Millisecond, false, true)

	snap := r.Snapshot()
	assert.Equal(t, int64(3), snap.TotalCalls)
	assert.Equal(t, int64(1), snap.ErrorCalls)
	assert.Equal(t, int64(1), snap.FailedCalls)
}

func TestRecorder_Percentiles(t *testing.T) {
	r := NewRecorder()
	for i := 1; i <= 100; i++ {
		r.Record(time.Duration(i)*time.Millisecond, false, false)
	}

	snap := r.Snapshot()
	assert.InDelta(t, 50, snap.P50.Milliseconds(), 2)
	assert.InDelta(t, 95, snap.P95.Milliseconds(), 2)
	assert.InDelta(t, 99, snap.P99.Milliseconds(), 2)
	assert.InDelta(t, 100, snap.Max.Milliseconds(), 2)
}

func TestRecorder_ClampsOutliers(t *testing.T) {
	r := NewRecorder()

	r.Record(0, false, false)
	r.Record(2*time.Minute, false, false)

	snap := r.Snapshot()
	assert.Equal(t, int64(2), snap.TotalCalls)
	assert.LessOrEqual(t, snap.Max, 61*time.Second)
}

func TestRecorder_ConcurrentUse(t *testing.T) {
	r := NewRecorder()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Record(time.Millisecond, false, false)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1000), r.Snapshot().TotalCalls)
}
