package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// CallStats aggregates outbound API calls.
type CallStats struct {
	Requests Counter
	Failures Counter

	totalNanos  uint64
	lastLatency int64
}

func (s *CallStats) Observe(d time.Duration, failed bool) {
	s.Requests.Inc()
	if failed {
		s.Failures.Inc()
	}
	atomic.AddUint64(&s.totalNanos, uint64(d))
	atomic.StoreInt64(&s.lastLatency, int64(d))
}

type Snapshot struct {
	Requests       uint64
	Failures       uint64
	LastLatency    time.Duration
	AverageLatency time.Duration
}

func (s *CallStats) Snapshot() Snapshot {
	reqs := s.Requests.Load()
	snap := Snapshot{
		Requests:    reqs,
		Failures:    s.Failures.Load(),
		LastLatency: time.Duration(atomic.LoadInt64(&s.lastLatency)),
	}
	if reqs > 0 {
		snap.AverageLatency = time.Duration(atomic.LoadUint64(&s.totalNanos) / reqs)
	}
	return snap
}
