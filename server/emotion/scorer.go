package emotion

import (
	"github.com/cyclopcam/pawscan/pkg/gen"
	"github.com/cyclopcam/pawscan/pkg/history"
	"github.com/cyclopcam/pawscan/pkg/perfstats"
	"github.com/cyclopcam/pawscan/server/motion"
)

type Config struct {
	StabilityBonus     float64 `json:"stabilityBonus"`     // added to the previous frame's primary emotion
	SecondaryThreshold float64 `json:"secondaryThreshold"` // minimum score to report a secondary emotion
	WarmupFrames       int     `json:"warmupFrames"`       // confidence is scaled down before this many frames
	MinReportFrames    int     `json:"minReportFrames"`
	TopActions         int     `json:"topActions"`
	MinSignalShare     float64 `json:"minSignalShare"` // fraction of scored frames a signal needs to reach the session report
}

func DefaultConfig() Config {
	return Config{
		StabilityBonus:     12,
		SecondaryThreshold: 10,
		WarmupFrames:       30,
		MinReportFrames:    10,
		TopActions:         5,
		MinSignalShare:     0.05,
	}
}

// Confidence adjustment per data-quality tier
var qualityAdjust = map[DataQuality]float64{
	QualityMultimodal:   10,
	QualityVisualAudio:  5,
	QualityVisualOnly:   -5,
	QualityLimitedEarly: -10,
}

// Scorer owns the emotion state of one capture session.
// A Scorer is not safe for concurrent use.
type Scorer struct {
	cfg         Config
	prevPrimary Emotion
	recent      *history.Ring[motion.Result]

	// Whole-session accumulators
	frames         int
	emotionCounts  map[Emotion]int
	actionCounts   map[string]int
	primaryActions map[string]int
	signalCounts   map[string]int
	sameAsPrev     int
	confidence     perfstats.Accumulator
}

func NewScorer(cfg Config) *Scorer {
	s := &Scorer{cfg: cfg}
	s.Reset()
	return s
}

func (s *Scorer) Reset() {
	s.prevPrimary = ""
	s.recent = history.NewRing[motion.Result](stretchWindow)
	s.frames = 0
	s.emotionCounts = map[Emotion]int{}
	s.actionCounts = map[string]int{}
	s.primaryActions = map[string]int{}
	s.signalCounts = map[string]int{}
	s.sameAsPrev = 0
	s.confidence.Reset()
}

// Number of frames assessed
func (s *Scorer) Frames() int {
	return s.frames
}

// Assess scores one frame
func (s *Scorer) Assess(in Input) Assessment {
	if in.Motion.Detected {
		s.recent.Add(in.Motion)
	}
	ai := &actionInput{Input: &in, recent: s.recent.All()}
	active, primaryAction := classifyActions(ai)

	scores := additiveScores(&in)
	applyOverrides(&in, scores)
	if s.prevPrimary != "" {
		scores[s.prevPrimary] += s.cfg.StabilityBonus
	}
	primary, runnerUp := scores.Ranked()
	if scores[primary] <= 0 {
		// Nothing seen or heard yet
		return s.observing(&in, scores)
	}

	a := Assessment{
		PrimaryEmotion:  primary,
		Scores:          scores,
		Patterns:        in.Motion.Patterns.Map(),
		Posture:         in.Motion.Posture.Current,
		Movement:        Movement{AvgSpeed: in.Motion.AvgSpeed, Direction: in.Motion.Movement.Direction},
		DetectedSignals: detectSignals(&in),
		CurrentAction:   primaryAction,
		ActiveActions:   active,
		Intensity:       gen.Clamp(scores[primary], 0, 100),
	}
	if scores[runnerUp] >= s.cfg.SecondaryThreshold {
		a.SecondaryEmotion = runnerUp
	}

	s.frames++
	a.Quality = s.quality(&in)
	a.Confidence = s.confidenceOf(scores[primary], scores[runnerUp], a.Quality)
	a.Needs = inferNeeds(&in, primary)

	if primary == s.prevPrimary {
		s.sameAsPrev++
	}
	s.prevPrimary = primary
	s.emotionCounts[primary]++
	for _, act := range active {
		s.actionCounts[act.Name]++
	}
	s.primaryActions[primaryAction]++
	for _, sig := range a.DetectedSignals {
		s.signalCounts[sig]++
	}
	s.confidence.AddSample(a.Confidence)
	return a
}

func (s *Scorer) quality(in *Input) DataQuality {
	switch {
	case in.Vocal.AudioAvailable && in.Pixels.Valid:
		return QualityMultimodal
	case in.Vocal.AudioAvailable:
		return QualityVisualAudio
	case s.frames < s.cfg.WarmupFrames:
		return QualityLimitedEarly
	}
	return QualityVisualOnly
}

func (s *Scorer) confidenceOf(primary, secondary float64, q DataQuality) float64 {
	c := gen.Clamp(primary+(primary-secondary), 15, 95)
	if s.frames < s.cfg.WarmupFrames {
		c *= float64(s.frames) / float64(s.cfg.WarmupFrames)
	}
	return gen.Clamp(c+qualityAdjust[q], 0, 100)
}

func (s *Scorer) observing(in *Input, scores Scores) Assessment {
	s.frames++
	s.primaryActions[ActionObserving]++
	return Assessment{
		PrimaryEmotion:  Unknown,
		Scores:          scores,
		Patterns:        in.Motion.Patterns.Map(),
		Posture:         in.Motion.Posture.Current,
		Movement:        Movement{Direction: motion.DirStill},
		DetectedSignals: []string{},
		CurrentAction:   ActionObserving,
		ActiveActions:   []Action{},
		Needs:           []Need{defaultNeed},
		Quality:         s.quality(in),
	}
}
