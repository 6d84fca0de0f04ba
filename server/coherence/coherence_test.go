package coherence

import (
	"slices"
	"testing"

	"github.com/cyclopcam/pawscan/server/emotion"
	"github.com/cyclopcam/pawscan/server/energy"
	"github.com/cyclopcam/pawscan/server/motion"
	"github.com/cyclopcam/pawscan/server/vision"
	"github.com/cyclopcam/pawscan/server/vocal"
	"github.com/stretchr/testify/require"
)

func report(p motion.Posture, stillness, speed float64, dominant emotion.Emotion) emotion.SessionReport {
	return emotion.SessionReport{
		Valid:           true,
		Frames:          200,
		DominantEmotion: dominant,
		ActionSummary: emotion.ActionSummary{
			Primary:            "stationary",
			TopActions:         []emotion.ActionCount{{Action: "stationary", Count: 150}, {Action: "resting-down", Count: 140}},
			TotalUniqueActions: 2,
		},
		Signals: []string{},
		Motion: motion.Summary{
			Frames:              200,
			PostureDistribution: map[motion.Posture]float64{p: 1},
			DominantPosture:     p,
			AvgSpeed:            speed,
			AvgStillness:        stillness,
			PatternAverages:     map[string]float64{"stillness": stillness, "pacing": 2, "tailWagLikely": 6},
		},
	}
}

func stillPixels() vision.Summary {
	return vision.Summary{
		Valid:             true,
		Samples:           200,
		BodyStates:        map[vision.BodyState]float64{vision.BodyVeryStill: 0.9, vision.BodyCalm: 0.1},
		DominantBodyState: vision.BodyVeryStill,
		MotionLevel:       vision.MotionNearZero,
	}
}

func quiet() vocal.Report {
	r := vocal.NoAudioReport()
	r.AudioAvailable = true
	r.Valid = true
	r.Frames = 200
	return r
}

func TestSleepingFiltersImpossibleActions(t *testing.T) {
	er := report(motion.PostureDown, 25, 0.2, emotion.Playful)
	er.ActionSummary = emotion.ActionSummary{
		Primary: "trotting",
		TopActions: []emotion.ActionCount{
			{Action: "trotting", Count: 40}, {Action: "tail-wagging-fast", Count: 30}, {Action: "jumping-up", Count: 20}, {Action: "dozing", Count: 15}, {Action: "resting-down", Count: 10},
		},
		TotalUniqueActions: 7,
	}
	er.Signals = []string{emotion.SigStill, emotion.SigTailWagFast, emotion.SigBarking}

	r := Reconcile(er, quiet(), energy.Report{}, stillPixels())
	require.Equal(t, StateSleeping, r.BehaviorState.State)
	require.Equal(t, 92.0, r.BehaviorState.Confidence)
	require.Equal(t, "Sleeping", r.BehaviorState.Label)

	fa := r.FilteredActions
	for _, denied := range []string{"trotting", "tail-wagging-fast", "jumping-up"} {
		require.False(t, slices.ContainsFunc(fa.TopActions, func(a emotion.ActionCount) bool { return a.Action == denied }), denied)
		require.NotEqual(t, denied, fa.Primary)
	}
	require.Equal(t, []emotion.ActionCount{{Action: "dozing", Count: 15}, {Action: "resting-down", Count: 10}}, fa.TopActions)
	require.Equal(t, []string{"trotting", "tail-wagging-fast", "jumping-up"}, fa.Removed)
	require.Equal(t, "dozing", fa.Primary)
	require.Equal(t, "trotting", fa.OriginalPrimary)
	require.True(t, fa.PrimaryReplaced)
	require.Equal(t, 7, fa.TotalUniqueActions)

	require.Equal(t, ValidatedEmotion{emotion.Calm, true, emotion.Playful, "playful is inconsistent with a sleeping verdict"}, r.ValidatedEmotion)
	require.Equal(t, []string{emotion.SigStill}, r.FilteredSignals)
	require.Equal(t, 0.0, r.CleanPatterns["pacing"])
	require.Equal(t, 0.0, r.CleanPatterns["tailWagLikely"])
	require.Equal(t, 25.0, r.CleanPatterns["stillness"])

	// The raw report is untouched
	require.Equal(t, 2.0, er.Motion.PatternAverages["pacing"])
	require.Equal(t, emotion.Playful, er.DominantEmotion)
}

func TestFallbackAction(t *testing.T) {
	er := report(motion.PostureDown, 25, 0.2, emotion.Calm)
	er.ActionSummary = emotion.ActionSummary{Primary: "running", TopActions: []emotion.ActionCount{{Action: "running", Count: 5}}}
	r := Reconcile(er, quiet(), energy.Report{}, stillPixels())
	require.Equal(t, "sleeping", r.FilteredActions.Primary)
	require.Empty(t, r.FilteredActions.TopActions)
	require.False(t, r.ValidatedEmotion.WasOverridden)
}

func TestSleepNeedsVision(t *testing.T) {
	er := report(motion.PostureDown, 25, 0.2, emotion.Calm)
	r := Reconcile(er, quiet(), energy.Report{}, vision.Summary{})
	require.Equal(t, StateResting, r.BehaviorState.State)
	require.Equal(t, 90.0, r.BehaviorState.Confidence)
	require.Empty(t, r.VisionInsights)

	pixels := stillPixels()
	pixels.DominantBodyState = vision.BodyActive
	pixels.MotionLevel = vision.MotionModerate
	r = Reconcile(er, quiet(), energy.Report{}, pixels)
	require.Equal(t, StateResting, r.BehaviorState.State)
}

func TestVerdictOrder(t *testing.T) {
	barking := quiet()
	barking.Barks.Total = 4

	cases := []struct {
		posture   motion.Posture
		stillness float64
		speed     float64
		br        vocal.Report
		want      State
		conf      float64
	}{
		{motion.PostureDown, 25, 0.2, vocal.NoAudioReport(), StateSleeping, 92},
		{motion.PostureDown, 12, 2, quiet(), StateResting, 90},
		{motion.PostureDown, 25, 0.2, barking, StateRestingVocal, 85},
		{motion.PostureStand, 12, 1, quiet(), StateAlertWatching, 85},
		{motion.PostureStand, 7, 4, quiet(), StateCalmStanding, 80},
		{motion.PostureStand, 12, 1, barking, StateNormal, 60},
		{motion.PostureSit, 7, 2, barking, StateRestingSitting, 82},
		{motion.PostureStand, 0, 9, quiet(), StateActive, 80},
		{motion.PostureStand, 0, 4, barking, StateModeratelyActive, 75},
		{motion.PostureUnknown, 0, 0, quiet(), StateNormal, 60},
	}
	for _, c := range cases {
		r := Reconcile(report(c.posture, c.stillness, c.speed, emotion.Calm), c.br, energy.Report{}, stillPixels())
		require.Equal(t, c.want, r.BehaviorState.State, "%v %v %v", c.posture, c.stillness, c.speed)
		require.Equal(t, c.conf, r.BehaviorState.Confidence)
	}
}

func TestVocalFraction(t *testing.T) {
	br := quiet()
	br.VocalFraction = 0.1
	require.True(t, isVocal(&br))
	br.VocalFraction = 0.09
	br.Barks.Total = 1
	require.False(t, isVocal(&br))
	br.AudioAvailable = false
	br.Barks.Total = 10
	require.False(t, isVocal(&br))
}

func TestEmotionAllowed(t *testing.T) {
	ve := validateEmotion(StateActive, emotion.Playful)
	require.False(t, ve.WasOverridden)
	require.Equal(t, emotion.Playful, ve.Emotion)

	ve = validateEmotion(StateActive, emotion.Calm)
	require.True(t, ve.WasOverridden)
	require.Equal(t, emotion.Curious, ve.Emotion)
	require.Equal(t, emotion.Calm, ve.OriginalEmotion)

	// No data is never overridden
	ve = validateEmotion(StateSleeping, emotion.Unknown)
	require.False(t, ve.WasOverridden)
	require.Equal(t, emotion.Unknown, ve.Emotion)

	ve = validateEmotion(StateNormal, emotion.Aggressive)
	require.False(t, ve.WasOverridden)
}

func TestTablesNameRealActions(t *testing.T) {
	fallbacks := map[string]bool{}
	for _, v := range verdicts {
		fallbacks[v.fallback] = true
	}
	for state, names := range deniedActions {
		for _, n := range names {
			_, ok := emotion.ActionByName(n)
			require.True(t, ok, "%v denies unknown action %v", state, n)
		}
	}
	for state, names := range deniedPatterns {
		for _, n := range names {
			require.Contains(t, motion.PatternNames, n, "%v", state)
		}
	}
	require.True(t, fallbacks[emotion.ActionObserving])
}
