package emotion

import (
	"encoding/json"
	"testing"

	"github.com/cyclopcam/pawscan/server/motion"
	"github.com/cyclopcam/pawscan/server/vision"
	"github.com/cyclopcam/pawscan/server/vocal"
	"github.com/stretchr/testify/require"
)

func seen(p motion.Posture, avgSpeed float64, pat motion.Patterns) motion.Result {
	return motion.Result{
		Detected: true,
		Frames:   40,
		Smoothed: motion.Box{X: 100, Y: 100, W: 120, H: 90},
		Movement: motion.MovementSample{Direction: motion.DirStill, SizeChange: 1},
		AvgSpeed: avgSpeed,
		Posture:  motion.PostureState{Current: p, Raw: p, Previous: p},
		Patterns: pat,
	}
}

func actionNames(actions []Action) []string {
	names := []string{}
	for _, a := range actions {
		names = append(names, a.Name)
	}
	return names
}

func TestStillnessOverridesPlayful(t *testing.T) {
	in := Input{
		Motion: seen(motion.PostureStand, 0, motion.Patterns{Stillness: 20, PlayBows: 1, Bouncing: 8, Spinning: 5}),
		Vocal:  vocal.NoAudio(),
	}
	raw := additiveScores(&in)
	first, _ := raw.Ranked()
	require.Equal(t, Playful, first)
	require.Equal(t, 55.0, raw[Playful])

	s := NewScorer(DefaultConfig())
	a := s.Assess(in)
	require.Equal(t, Calm, a.PrimaryEmotion)
	require.InDelta(t, 95, a.Scores[Calm], 1e-9)
	require.Less(t, a.Scores[Playful], 1.0)
}

func TestRankedTieBreak(t *testing.T) {
	s := newScores()
	s[Calm] = 10
	s[Sad] = 10
	first, second := s.Ranked()
	require.Equal(t, Calm, first)
	require.Equal(t, Sad, second)

	s[Curious] = 11
	first, second = s.Ranked()
	require.Equal(t, Curious, first)
	require.Equal(t, Calm, second)
}

func TestStabilityBonus(t *testing.T) {
	s := NewScorer(DefaultConfig())
	calm := Input{Motion: seen(motion.PostureSit, 0, motion.Patterns{Stillness: 30}), Vocal: vocal.NoAudio()}
	require.Equal(t, Calm, s.Assess(calm).PrimaryEmotion)

	// Slow and standing: curious 10, alert 8, calm 5
	slow := Input{Motion: seen(motion.PostureStand, 1, motion.Patterns{}), Vocal: vocal.NoAudio()}
	raw := additiveScores(&slow)
	applyOverrides(&slow, raw)
	first, _ := raw.Ranked()
	require.Equal(t, Curious, first)

	a := s.Assess(slow)
	require.Equal(t, 17.0, a.Scores[Calm])
	require.Equal(t, Calm, a.PrimaryEmotion)
	require.Equal(t, Curious, a.SecondaryEmotion)
}

func TestActionPriority(t *testing.T) {
	s := NewScorer(DefaultConfig())
	in := Input{
		Motion: seen(motion.PostureStand, 16, motion.Patterns{}),
		Vocal:  vocal.Assessment{AudioAvailable: true, IsVocalizing: true, Type: vocal.TypeBark, Rate: 5},
	}
	a := s.Assess(in)
	require.Equal(t, "barking", a.CurrentAction)
	require.Contains(t, actionNames(a.ActiveActions), "running")
	require.Contains(t, actionNames(a.ActiveActions), "standing")
	require.Contains(t, a.DetectedSignals, SigBarking)
	require.Contains(t, a.DetectedSignals, SigFastMovement)

	in.Vocal = vocal.NoAudio()
	a = s.Assess(in)
	require.Equal(t, "running", a.CurrentAction)
}

func TestRestingDog(t *testing.T) {
	s := NewScorer(DefaultConfig())
	a := s.Assess(Input{Motion: seen(motion.PostureDown, 0, motion.Patterns{Stillness: 30}), Vocal: vocal.NoAudio()})
	names := actionNames(a.ActiveActions)
	require.Contains(t, names, "dozing")
	require.Contains(t, names, "resting-down")
	require.Equal(t, "stationary", a.CurrentAction)
	require.Equal(t, Calm, a.PrimaryEmotion)
	require.Equal(t, []Need{{"Rest, undisturbed", UrgencyLow, "Relaxed and lying down"}}, a.Needs)
}

func TestObservingWithoutDetection(t *testing.T) {
	s := NewScorer(DefaultConfig())
	a := s.Assess(Input{Motion: motion.Result{}, Vocal: vocal.NoAudio()})
	require.Equal(t, ActionObserving, a.CurrentAction)
	require.Equal(t, Unknown, a.PrimaryEmotion)
	require.Equal(t, []Need{defaultNeed}, a.Needs)

	// A dog heard but not seen still scores on its voice
	a = s.Assess(Input{Motion: motion.Result{}, Vocal: vocal.Assessment{AudioAvailable: true, IsVocalizing: true, Type: vocal.TypeGrowl}})
	require.Equal(t, Aggressive, a.PrimaryEmotion)
	require.Equal(t, ActionObserving, a.CurrentAction)
	require.Contains(t, a.DetectedSignals, SigGrowling)
}

func TestConfidence(t *testing.T) {
	s := NewScorer(DefaultConfig())
	in := Input{Motion: seen(motion.PostureDown, 0, motion.Patterns{Stillness: 30}), Vocal: vocal.NoAudio()}
	a := s.Assess(in)
	// One frame of 30, visual only and early
	require.Equal(t, QualityLimitedEarly, a.Quality)
	require.InDelta(t, 0, a.Confidence, 1e-9)
	for i := 0; i < 40; i++ {
		a = s.Assess(in)
	}
	require.Equal(t, QualityVisualOnly, a.Quality)
	require.Equal(t, 90.0, a.Confidence)

	in.Vocal = vocal.Assessment{AudioAvailable: true, Type: vocal.TypeSilent}
	in.Pixels = vision.Sample{Valid: true}
	a = s.Assess(in)
	require.Equal(t, QualityMultimodal, a.Quality)
	require.Equal(t, 100.0, a.Confidence)
}

func TestDistributionSumsTo100(t *testing.T) {
	cases := []map[Emotion]int{
		{Happy: 1, Calm: 1, Sad: 1},
		{Calm: 7},
		{Happy: 3, Excited: 5, Playful: 11, Anxious: 2, Curious: 1, Alert: 9},
		{Fearful: 1, Aggressive: 998, Sad: 1},
	}
	for _, c := range cases {
		d := distribution(c)
		sum := 0
		for _, p := range d {
			sum += p
		}
		require.Equal(t, 100, sum, "%v", c)
	}
	d := distribution(map[Emotion]int{Happy: 1, Calm: 1, Sad: 1})
	require.Equal(t, map[Emotion]int{Happy: 34, Calm: 33, Sad: 33}, d)
}

func TestSessionReport(t *testing.T) {
	s := NewScorer(DefaultConfig())
	in := Input{Motion: seen(motion.PostureDown, 0, motion.Patterns{Stillness: 30}), Vocal: vocal.NoAudio()}
	for i := 0; i < 5; i++ {
		s.Assess(in)
	}
	r := s.Report(motion.Summary{})
	require.False(t, r.Valid)
	require.Equal(t, Unknown, r.DominantEmotion)
	require.Equal(t, 0.0, r.Confidence)

	for i := 0; i < 15; i++ {
		s.Assess(in)
	}
	r = s.Report(motion.Summary{})
	require.True(t, r.Valid)
	require.Equal(t, Calm, r.DominantEmotion)
	require.Equal(t, map[Emotion]int{Calm: 100}, r.EmotionDistribution)
	require.Equal(t, 100.0, r.Stability)
	require.Equal(t, 100.0, r.Wellbeing)
	require.Equal(t, "stationary", r.ActionSummary.Primary)
	require.LessOrEqual(t, len(r.ActionSummary.TopActions), 5)
	require.Equal(t, ActionCount{Action: "dozing", Count: 20}, r.ActionSummary.TopActions[0])
}

func TestActionCountJSON(t *testing.T) {
	b, err := json.Marshal(ActionCount{Action: "barking", Count: 3})
	require.NoError(t, err)
	require.Equal(t, `["barking",3]`, string(b))
	var a ActionCount
	require.NoError(t, json.Unmarshal(b, &a))
	require.Equal(t, ActionCount{Action: "barking", Count: 3}, a)
	require.Error(t, json.Unmarshal([]byte(`["x"]`), &a))
}

func TestReset(t *testing.T) {
	s := NewScorer(DefaultConfig())
	in := Input{Motion: seen(motion.PostureStand, 8, motion.Patterns{Pacing: 4}), Vocal: vocal.NoAudio()}
	for i := 0; i < 20; i++ {
		s.Assess(in)
	}
	s.Reset()
	fresh := NewScorer(DefaultConfig())
	require.Equal(t, fresh.Report(motion.Summary{}), s.Report(motion.Summary{}))
	require.Equal(t, fresh.Assess(in), s.Assess(in))
}
