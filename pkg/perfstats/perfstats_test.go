package perfstats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAccumulators(t *testing.T) {
	a := Accumulator{}
	require.Equal(t, 0.0, a.Average())
	a.AddSample(2)
	a.AddSample(4)
	require.Equal(t, 3.0, a.Average())

	ta := TimeAccumulator{}
	ta.AddSample(time.Millisecond)
	ta.AddSample(3 * time.Millisecond)
	require.Equal(t, 2*time.Millisecond, ta.Average())
	ta.Reset()
	require.Equal(t, time.Duration(0), ta.Average())
}

func TestMovingAverage(t *testing.T) {
	m := MovingAverage{}
	m.Update(time.Millisecond)
	require.Equal(t, time.Millisecond, m.Get())
	for i := 0; i < 1000; i++ {
		m.Update(2 * time.Millisecond)
	}
	require.InDelta(t, float64(2*time.Millisecond), float64(m.Get()), float64(10*time.Microsecond))
}

func TestPipelineStatsString(t *testing.T) {
	s := PipelineStats{}
	s.Tracker.Update(1500 * time.Microsecond)
	s.Scorer.Update(250 * time.Microsecond)
	require.Equal(t, "tracker 1.500 ms, pixels 0.000 ms, vocal 0.000 ms, scorer 0.250 ms", s.String())
}
