package emotion

import (
	"github.com/cyclopcam/pawscan/server/motion"
	"github.com/cyclopcam/pawscan/server/vocal"
)

const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

var defaultNeed = Need{"Monitoring", UrgencyLow, "No specific need stands out; behaviour looks neutral"}

type needInput struct {
	*Input
	primary Emotion
}

// The needs table. Every matching row fires.
var needRules = []struct {
	when func(in *needInput) bool
	need Need
}{
	{func(in *needInput) bool { return in.primary == Anxious || in.primary == Stressed },
		Need{"Reassurance and a calmer environment", UrgencyHigh, "Signs of anxiety or stress"}},
	{func(in *needInput) bool { return in.primary == Fearful },
		Need{"Safety and space", UrgencyHigh, "Fearful body language; remove or distance the trigger"}},
	{func(in *needInput) bool { return in.primary == Aggressive },
		Need{"Space, and removal of the trigger", UrgencyHigh, "Warning signals such as growling"}},
	{func(in *needInput) bool { return in.Motion.Patterns.Pacing > 0 },
		Need{"Exercise or a change of scene", UrgencyMedium, "Pacing often means pent-up energy or unease"}},
	{func(in *needInput) bool { return in.Motion.Patterns.Restlessness > 0 },
		Need{"Mental stimulation", UrgencyMedium, "Restless, unsettled movement"}},
	{func(in *needInput) bool { return in.primary == Playful || in.primary == Excited },
		Need{"Play and interaction", UrgencyMedium, "Playful energy looking for an outlet"}},
	{func(in *needInput) bool { return in.Vocal.IsVocalizing && in.Vocal.Type == vocal.TypeWhine },
		Need{"Attention; check for discomfort", UrgencyMedium, "Whining can signal a want or discomfort"}},
	{func(in *needInput) bool { return in.Vocal.IsVocalizing && in.Vocal.Rate > 20 },
		Need{"Find what is triggering the barking", UrgencyMedium, "Sustained, rapid barking"}},
	{func(in *needInput) bool { return in.primary == Sad },
		Need{"Companionship", UrgencyMedium, "Low energy and mournful signals"}},
	{func(in *needInput) bool { return in.primary == Calm && in.Motion.Posture.Current == motion.PostureDown },
		Need{"Rest, undisturbed", UrgencyLow, "Relaxed and lying down"}},
	{func(in *needInput) bool { return in.primary == Curious },
		Need{"Exploration and enrichment", UrgencyLow, "Interested in the surroundings"}},
	{func(in *needInput) bool { return in.primary == Alert },
		Need{"Reassurance that all is well", UrgencyLow, "Watching for something"}},
}

func inferNeeds(in *Input, primary Emotion) []Need {
	ni := &needInput{Input: in, primary: primary}
	needs := []Need{}
	for _, r := range needRules {
		if r.when(ni) {
			needs = append(needs, r.need)
		}
	}
	if len(needs) == 0 {
		needs = append(needs, defaultNeed)
	}
	return needs
}

// NeedsFor evaluates the needs table against session-level values
func NeedsFor(primary Emotion, p motion.Posture, pat motion.Patterns) []Need {
	in := Input{Motion: motion.Result{Detected: true, Posture: motion.PostureState{Current: p}, Patterns: pat}}
	return inferNeeds(&in, primary)
}
