// Package perfstats records how long the stages of the pipeline take,
// so that slow hardware or a slow stage is easy to spot.
package perfstats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Two scalars (N samples and X total amount), which can measure total and average values.
type Accumulator struct {
	Samples int64
	Total   float64
}

func (a *Accumulator) Reset() {
	a.Samples = 0
	a.Total = 0
}

func (a *Accumulator) AddSample(v float64) {
	a.Samples++
	a.Total += v
}

func (a *Accumulator) Average() float64 {
	if a.Samples == 0 {
		return 0
	}
	return a.Total / float64(a.Samples)
}

// Accumulate samples of how long something took
type TimeAccumulator struct {
	Samples int64
	Total   time.Duration
}

func (a *TimeAccumulator) Reset() {
	a.Samples = 0
	a.Total = 0
}

func (a *TimeAccumulator) AddSample(v time.Duration) {
	a.Samples++
	a.Total += v
}

func (a *TimeAccumulator) Average() time.Duration {
	if a.Samples == 0 {
		return 0
	}
	return time.Duration(a.Total.Nanoseconds() / a.Samples)
}

// MovingAverage is a lock-free exponential average of nanosecond samples.
// We don't bother about strict correctness with CompareAndSwap, because
// this is sampled stats, and it's OK to miss one or two samples.
type MovingAverage struct {
	v atomic.Uint64
}

func (m *MovingAverage) Update(d time.Duration) {
	vu := uint64(d.Nanoseconds())
	if m.v.Load() == 0 {
		m.v.Store(vu)
	} else {
		m.v.Store((m.v.Load()*63 + vu) >> 6)
	}
}

func (m *MovingAverage) Get() time.Duration {
	return time.Duration(m.v.Load())
}

// Stage timings of the per-frame pipeline
type PipelineStats struct {
	Tracker MovingAverage
	Pixels  MovingAverage
	Vocal   MovingAverage
	Scorer  MovingAverage
}

var Stats = PipelineStats{}

func (s *PipelineStats) String() string {
	ms := func(d time.Duration) float64 { return float64(d.Nanoseconds()) / 1e6 }
	return fmt.Sprintf("tracker %0.3f ms, pixels %0.3f ms, vocal %0.3f ms, scorer %0.3f ms",
		ms(s.Tracker.Get()), ms(s.Pixels.Get()), ms(s.Vocal.Get()), ms(s.Scorer.Get()))
}
