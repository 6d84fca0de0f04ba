package motion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func frame(i int, x, y, w, h float64) FrameSample {
	return FrameSample{
		Time:       t0.Add(time.Duration(i) * 33 * time.Millisecond),
		Box:        Box{X: x, Y: y, W: w, H: h},
		Confidence: 0.9,
	}
}

func TestSmoothingConverges(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.ProcessFrame(frame(0, 0, 0, 50, 50))
	var r Result
	for i := 1; i <= 40; i++ {
		r = tr.ProcessFrame(frame(i, 200, 100, 120, 90))
	}
	require.InDelta(t, 200, r.Smoothed.X, 0.01)
	require.InDelta(t, 100, r.Smoothed.Y, 0.01)
	require.InDelta(t, 120, r.Smoothed.W, 0.01)
	require.InDelta(t, 90, r.Smoothed.H, 0.01)
	require.Equal(t, 0.0, r.Movement.Speed)
	require.Equal(t, DirStill, r.Movement.Direction)
}

func TestFirstFrameIsStill(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	r := tr.ProcessFrame(frame(0, 10, 10, 100, 80))
	require.Equal(t, 0.0, r.Movement.Speed)
	require.Equal(t, DirStill, r.Movement.Direction)
	require.Equal(t, 1.0, r.Movement.SizeChange)
	require.Equal(t, Patterns{}, r.Patterns)
}

func TestNoiseFloor(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	// Slow drift of 5 px/frame, below the 6 px floor, accumulating far beyond it
	for i := 0; i < 60; i++ {
		r := tr.ProcessFrame(frame(i, float64(i*5), 100, 100, 80))
		require.Equal(t, 0.0, r.Movement.Speed, "frame %v", i)
		require.Equal(t, DirStill, r.Movement.Direction, "frame %v", i)
	}
	// Jitter below the floor
	tr.Reset()
	for i := 0; i < 60; i++ {
		x := 100.0
		if i%2 == 0 {
			x += 5
		}
		r := tr.ProcessFrame(frame(i, x, 100, 100, 80))
		require.Equal(t, 0.0, r.Movement.Speed)
	}
}

func TestDirection(t *testing.T) {
	require.Equal(t, DirRight, directionOf(10, 0))
	require.Equal(t, DirDown, directionOf(0, 10))
	require.Equal(t, DirLeft, directionOf(-10, 0))
	require.Equal(t, DirUp, directionOf(0, -10))
	require.Equal(t, DirUpRight, directionOf(10, -10))
	require.Equal(t, DirDownLeft, directionOf(-10, 10))
}

func TestClassifyAspect(t *testing.T) {
	cases := []struct {
		in     postureInput
		expect Posture
		detail string
	}{
		{postureInput{avgAspect: 2.0, aspect: 2.0}, PostureDown, ""},
		{postureInput{avgAspect: 1.6, aspect: 1.45}, PostureStand, ""},
		{postureInput{avgAspect: 1.6, aspect: 1.6}, PostureDown, ""},
		{postureInput{avgAspect: 1.6, aspect: 1.45, lastStillness: 20}, PostureDown, ""},
		{postureInput{avgAspect: 1.2, aspect: 1.2}, PostureStand, ""},
		{postureInput{avgAspect: 0.7, aspect: 0.7}, PostureSit, ""},
		{postureInput{avgAspect: 0.4, aspect: 0.4}, PostureSit, DetailBegging},
		{postureInput{}, PostureUnknown, ""},
	}
	for _, c := range cases {
		p, d := classifyAspect(c.in)
		require.Equal(t, c.expect, p, "%+v", c.in)
		require.Equal(t, c.detail, d, "%+v", c.in)
	}
}

func TestPostureHysteresis(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	require.Equal(t, PostureUnknown, tr.updatePosture(PostureStand, "").Current)
	require.Equal(t, PostureUnknown, tr.updatePosture(PostureStand, "").Current)
	require.Equal(t, PostureStand, tr.updatePosture(PostureStand, "").Current)
	tr.updatePosture(PostureStand, "")
	tr.updatePosture(PostureStand, "")

	// One contradicting frame never flips the posture
	s := tr.updatePosture(PostureSit, "")
	require.Equal(t, PostureStand, s.Current)
	require.False(t, s.Changed)
	s = tr.updatePosture(PostureStand, "")
	require.Equal(t, PostureStand, s.Current)

	// Three of the last five do
	s = tr.updatePosture(PostureSit, "")
	require.Equal(t, PostureStand, s.Current)
	s = tr.updatePosture(PostureSit, "")
	require.Equal(t, PostureSit, s.Current)
	require.True(t, s.Changed)
	require.Equal(t, PostureStand, s.Previous)
}

func TestPostureSpikeThroughTracker(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	for i := 0; i < 15; i++ {
		tr.ProcessFrame(frame(i, 100, 100, 100, 80))
	}
	require.Equal(t, PostureStand, tr.CurrentPosture())
	r := tr.ProcessFrame(frame(15, 100, 100, 40, 100))
	require.Equal(t, PostureStand, r.Posture.Current)
	r = tr.ProcessFrame(frame(16, 100, 100, 100, 80))
	require.Equal(t, PostureStand, r.Posture.Current)
}

func TestLyingDown(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	var r Result
	for i := 0; i < 40; i++ {
		r = tr.ProcessFrame(frame(i, 100, 100, 200, 80))
	}
	require.Equal(t, PostureDown, r.Posture.Current)
	require.Equal(t, 30.0, r.Patterns.Stillness)
	s := tr.Summary()
	require.Equal(t, PostureDown, s.DominantPosture)
	require.Equal(t, 40, s.Frames)
}

func TestPatternsNeedTenFrames(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	var r Result
	for i := 0; i < 9; i++ {
		r = tr.ProcessFrame(frame(i, 100, 100, 100, 80))
	}
	require.Equal(t, Patterns{}, r.Patterns)
	r = tr.ProcessFrame(frame(9, 100, 100, 100, 80))
	require.Equal(t, 30.0, r.Patterns.Stillness)
}

func TestPacing(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	var r Result
	for i := 0; i < 40; i++ {
		x := 100.0
		if (i/5)%2 == 1 {
			x = 300
		}
		r = tr.ProcessFrame(frame(i, x, 100, 100, 80))
	}
	require.GreaterOrEqual(t, r.Patterns.Pacing, 3.0)
	require.Equal(t, 0.0, r.Patterns.Stillness)
}

func TestResetCompleteness(t *testing.T) {
	used := NewTracker(DefaultConfig())
	for i := 0; i < 50; i++ {
		used.ProcessFrame(frame(i, float64(i*20), float64(i%3)*10, 100+float64(i), 80))
	}
	used.Reset()
	fresh := NewTracker(DefaultConfig())

	require.Equal(t, fresh.Summary(), used.Summary())
	require.Equal(t, 0, used.Len())
	require.Equal(t, PostureUnknown, used.CurrentPosture())
	for i := 0; i < 12; i++ {
		f := frame(i, 100+float64(i), 100, 120, 90)
		require.Equal(t, fresh.ProcessFrame(f), used.ProcessFrame(f))
	}
}

func TestMissingDetection(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.ProcessFrame(frame(0, 100, 100, 100, 80))
	r := tr.ProcessMissing()
	require.False(t, r.Detected)
	require.Equal(t, 1, tr.Len())
	require.Equal(t, DirStill, r.Movement.Direction)
}
