package motion

import (
	"math"

	"github.com/cyclopcam/pawscan/pkg/gen"
	"github.com/cyclopcam/pawscan/pkg/history"
	"github.com/cyclopcam/pawscan/pkg/perfstats"
)

const (
	verticalOscMinDY = 2.0
	edgeOscMinDelta  = 1.5
)

// Tracker owns every motion history of one capture session.
// A Tracker is not safe for concurrent use.
type Tracker struct {
	cfg Config

	frames    *history.Ring[FrameSample]
	smoothed  *history.Ring[Box]
	movements *history.Ring[MovementSample]
	postures  *history.Ring[Posture] // accepted posture, one per frame
	votes     *history.Ring[Posture] // raw classifications, for hysteresis

	hasSmooth     bool
	smooth        Box
	posture       Posture
	postureDetail string
	lastStillness float64
	lastDY        float64 // previous significant center delta, for oscillation sign flips
	lastLeft      float64 // previous left/right edge delta
	lastRight     float64

	// Whole-session accumulators
	total         int
	postureCounts map[Posture]int
	speed         perfstats.Accumulator
	stillness     perfstats.Accumulator
	patternTotals map[string]*perfstats.Accumulator
}

func NewTracker(cfg Config) *Tracker {
	t := &Tracker{cfg: cfg}
	t.Reset()
	return t
}

func (t *Tracker) Config() Config {
	return t.cfg
}

// Reset returns the tracker to the state of a newly constructed one
func (t *Tracker) Reset() {
	t.frames = history.NewRing[FrameSample](t.cfg.HistorySize)
	t.smoothed = history.NewRing[Box](t.cfg.HistorySize)
	t.movements = history.NewRing[MovementSample](t.cfg.HistorySize)
	t.postures = history.NewRing[Posture](t.cfg.HistorySize)
	t.votes = history.NewRing[Posture](t.cfg.HysteresisVotes)
	t.hasSmooth = false
	t.smooth = Box{}
	t.posture = PostureUnknown
	t.postureDetail = ""
	t.lastStillness = 0
	t.lastDY, t.lastLeft, t.lastRight = 0, 0, 0
	t.total = 0
	t.postureCounts = map[Posture]int{}
	t.speed.Reset()
	t.stillness.Reset()
	t.patternTotals = map[string]*perfstats.Accumulator{}
	for _, n := range PatternNames {
		t.patternTotals[n] = &perfstats.Accumulator{}
	}
}

// Number of frames in the history
func (t *Tracker) Len() int {
	return t.frames.Len()
}

func (t *Tracker) CurrentPosture() Posture {
	return t.posture
}

// ProcessMissing reports a tick with no detection. Nothing is added to the
// histories, and the result carries zero movement.
func (t *Tracker) ProcessMissing() Result {
	return Result{
		Detected: false,
		Frames:   t.frames.Len(),
		Smoothed: t.smooth,
		Movement: stillMovement(t.smooth.Aspect()),
		Posture:  PostureState{Current: t.posture, Detail: t.postureDetail, Raw: PostureUnknown, Previous: t.posture},
	}
}

// ProcessFrame ingests one detection and returns the derived state.
func (t *Tracker) ProcessFrame(f FrameSample) Result {
	t.frames.Add(f)
	if !t.hasSmooth {
		t.smooth = f.Box
		t.hasSmooth = true
	} else {
		t.smooth = t.smooth.lerp(f.Box, t.cfg.SmoothingAlpha)
	}
	t.smoothed.Add(t.smooth)

	mv := t.deriveMovement()
	t.movements.Add(mv)

	raw, detail := t.classifyPosture()
	ps := t.updatePosture(raw, detail)

	var pat Patterns
	if t.frames.Len() >= t.cfg.MinPatternFrames {
		pat = t.computePatterns()
	}
	t.lastStillness = pat.Stillness

	avgSpeed := t.avgSpeed(t.cfg.LocomotionFrames)

	t.total++
	t.postureCounts[ps.Current]++
	t.speed.AddSample(avgSpeed)
	t.stillness.AddSample(pat.Stillness)
	for _, n := range PatternNames {
		t.patternTotals[n].AddSample(pat.Get(n))
	}

	return Result{
		Detected: true,
		Frames:   t.frames.Len(),
		Smoothed: t.smooth,
		Movement: mv,
		AvgSpeed: avgSpeed,
		Posture:  ps,
		Patterns: pat,
	}
}

func (t *Tracker) deriveMovement() MovementSample {
	cur := t.smoothed.Back(0)
	if t.smoothed.Len() < 2 {
		return stillMovement(cur.Aspect())
	}
	prev := t.smoothed.Back(1)
	prevMv := t.movements.Back(0)

	dx := cur.CenterX() - prev.CenterX()
	dy := cur.CenterY() - prev.CenterY()
	dist := math.Hypot(dx, dy)

	mv := MovementSample{
		DX:          dx,
		DY:          dy,
		SizeChange:  1,
		AspectRatio: cur.Aspect(),
		AspectDelta: cur.Aspect() - prev.Aspect(),
		Direction:   DirStill,
	}
	if dist >= t.cfg.NoiseFloor {
		mv.Speed = dist
		mv.Direction = directionOf(dx, dy)
	}
	if prev.Area() > 0 {
		mv.SizeChange = cur.Area() / prev.Area()
	}
	mv.Acceleration = mv.Speed - prevMv.Speed

	if math.Abs(dy) > verticalOscMinDY {
		if math.Abs(t.lastDY) > verticalOscMinDY && signOf(dy) != signOf(t.lastDY) {
			mv.VerticalOsc = 1
		}
		t.lastDY = dy
	}
	left := cur.X - prev.X
	right := (cur.X + cur.W) - (prev.X + prev.W)
	if flipped(left, t.lastLeft) || flipped(right, t.lastRight) {
		mv.EdgeOsc = 1
	}
	if math.Abs(left) > edgeOscMinDelta {
		t.lastLeft = left
	}
	if math.Abs(right) > edgeOscMinDelta {
		t.lastRight = right
	}
	return mv
}

func flipped(d, last float64) bool {
	return math.Abs(d) > edgeOscMinDelta && math.Abs(last) > edgeOscMinDelta && signOf(d) != signOf(last)
}

func signOf(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Mean speed over the newest n movements
func (t *Tracker) avgSpeed(n int) float64 {
	mv := t.movements.Last(n)
	if len(mv) == 0 {
		return 0
	}
	sum := 0.0
	for _, m := range mv {
		sum += m.Speed
	}
	return sum / float64(len(mv))
}

// Summary of the session so far
func (t *Tracker) Summary() Summary {
	s := Summary{
		Frames:              t.total,
		PostureDistribution: map[Posture]float64{},
		DominantPosture:     PostureUnknown,
		AvgSpeed:            t.speed.Average(),
		AvgStillness:        t.stillness.Average(),
		PatternAverages:     map[string]float64{},
	}
	best := 0
	for _, p := range append([]Posture{PostureUnknown}, AllPostures...) {
		c := t.postureCounts[p]
		if c == 0 {
			continue
		}
		s.PostureDistribution[p] = float64(c) / float64(gen.Max(1, t.total))
		if p != PostureUnknown && c > best {
			best = c
			s.DominantPosture = p
		}
	}
	for _, n := range PatternNames {
		s.PatternAverages[n] = t.patternTotals[n].Average()
	}
	return s
}
