// Package coherence reconciles the finished session reports into one
// consistent narrative. It runs once per session, after capture stops, and
// never feeds back into the per-frame analyzers.
package coherence

import (
	"fmt"
	"slices"

	"github.com/cyclopcam/pawscan/server/emotion"
	"github.com/cyclopcam/pawscan/server/energy"
	"github.com/cyclopcam/pawscan/server/motion"
	"github.com/cyclopcam/pawscan/server/vision"
	"github.com/cyclopcam/pawscan/server/vocal"
)

type BehaviorState struct {
	State       State   `json:"state"`
	Confidence  float64 `json:"confidence"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
}

type FilteredActions struct {
	Primary            string                `json:"primary"`
	OriginalPrimary    string                `json:"originalPrimary"`
	PrimaryReplaced    bool                  `json:"primaryReplaced"`
	TopActions         []emotion.ActionCount `json:"topActions"`
	Removed            []string              `json:"removed"`
	TotalUniqueActions int                   `json:"totalUniqueActions"`
}

type ValidatedEmotion struct {
	Emotion         emotion.Emotion `json:"emotion"`
	WasOverridden   bool            `json:"wasOverridden"`
	OriginalEmotion emotion.Emotion `json:"originalEmotion"`
	Reason          string          `json:"reason,omitempty"`
}

type CoherentReport struct {
	BehaviorState    BehaviorState      `json:"behaviorState"`
	FilteredActions  FilteredActions    `json:"filteredActions"`
	ValidatedEmotion ValidatedEmotion   `json:"validatedEmotion"`
	CleanPatterns    map[string]float64 `json:"cleanPatterns"`
	FilteredSignals  []string           `json:"filteredSignals"`
	VisionInsights   []string           `json:"visionInsights"`
	EvidenceChain    []string           `json:"evidenceChain"`
}

// Reconcile derives the session verdict and filters the raw reports against it.
// The inputs are read-only.
func Reconcile(er emotion.SessionReport, br vocal.Report, en energy.Report, vs vision.Summary) CoherentReport {
	f := sessionFacts(&er, &br, &vs)
	v := decide(&f)
	r := CoherentReport{
		BehaviorState: BehaviorState{
			State:       v.state,
			Confidence:  v.confidence,
			Label:       v.label,
			Description: v.description,
		},
		FilteredActions:  filterActions(v, &er.ActionSummary),
		ValidatedEmotion: validateEmotion(v.state, er.DominantEmotion),
		CleanPatterns:    cleanPatterns(v.state, er.Motion.PatternAverages),
		FilteredSignals:  filterSignals(v.state, er.Signals),
		VisionInsights:   visionInsights(&vs),
	}
	r.EvidenceChain = evidenceChain(&f, &er, &br, &en, &vs)
	return r
}

func sessionFacts(er *emotion.SessionReport, br *vocal.Report, vs *vision.Summary) facts {
	return facts{
		posture:       er.Motion.DominantPosture,
		stillness:     er.Motion.AvgStillness,
		avgSpeed:      er.Motion.AvgSpeed,
		vocal:         isVocal(br),
		visionConfirm: visionConfirmsSleep(vs),
	}
}

// A session without audio counts as silent
func isVocal(br *vocal.Report) bool {
	if !br.AudioAvailable {
		return false
	}
	return br.Barks.Total >= vocalMinBarks || br.VocalFraction >= vocalMinFraction
}

func visionConfirmsSleep(vs *vision.Summary) bool {
	if !vs.Valid {
		return false
	}
	return slices.Contains(sleepConfirmBody, vs.DominantBodyState) || vs.MotionLevel == vision.MotionNearZero
}

func decide(f *facts) *verdict {
	for i := range verdicts {
		if verdicts[i].when(f) {
			return &verdicts[i]
		}
	}
	return &verdicts[len(verdicts)-1]
}

func filterActions(v *verdict, as *emotion.ActionSummary) FilteredActions {
	deny := deniedActions[v.state]
	fa := FilteredActions{
		Primary:            as.Primary,
		OriginalPrimary:    as.Primary,
		TopActions:         []emotion.ActionCount{},
		Removed:            []string{},
		TotalUniqueActions: as.TotalUniqueActions,
	}
	for _, ac := range as.TopActions {
		if slices.Contains(deny, ac.Action) {
			fa.Removed = append(fa.Removed, ac.Action)
		} else {
			fa.TopActions = append(fa.TopActions, ac)
		}
	}
	if slices.Contains(deny, as.Primary) {
		fa.PrimaryReplaced = true
		if len(fa.TopActions) != 0 {
			fa.Primary = fa.TopActions[0].Action
		} else {
			fa.Primary = v.fallback
		}
	}
	return fa
}

func validateEmotion(state State, raw emotion.Emotion) ValidatedEmotion {
	ve := ValidatedEmotion{Emotion: raw, OriginalEmotion: raw}
	rule, ok := emotionRules[state]
	if !ok || raw == emotion.Unknown || slices.Contains(rule.allow, raw) {
		return ve
	}
	ve.Emotion = rule.substitute
	ve.WasOverridden = true
	ve.Reason = fmt.Sprintf("%v is inconsistent with a %v verdict", raw, state)
	return ve
}

func cleanPatterns(state State, raw map[string]float64) map[string]float64 {
	deny := deniedPatterns[state]
	out := make(map[string]float64, len(raw))
	for name, v := range raw {
		if slices.Contains(deny, name) {
			v = 0
		}
		out[name] = v
	}
	return out
}

func filterSignals(state State, raw []string) []string {
	deny := deniedSignals[state]
	out := []string{}
	for _, s := range raw {
		if !slices.Contains(deny, s) {
			out = append(out, s)
		}
	}
	return out
}

func visionInsights(vs *vision.Summary) []string {
	out := []string{}
	if !vs.Valid {
		return out
	}
	out = append(out, fmt.Sprintf("Pixel motion level was %v (mean change %.4f)", vs.MotionLevel, vs.AvgOverall))
	out = append(out, fmt.Sprintf("Body mostly %v (%.0f%% of frames)", vs.DominantBodyState, 100*vs.BodyStates[vs.DominantBodyState]))
	if vs.TailWagFraction > 0.1 {
		out = append(out, fmt.Sprintf("Tail wag visible in %.0f%% of frames", 100*vs.TailWagFraction))
	}
	if vs.MaxTension >= 0.5 {
		out = append(out, fmt.Sprintf("Muscle tension peaked at %.1f", vs.MaxTension))
	}
	return out
}

func evidenceChain(f *facts, er *emotion.SessionReport, br *vocal.Report, en *energy.Report, vs *vision.Summary) []string {
	chain := []string{}
	if f.posture != "" && f.posture != motion.PostureUnknown {
		chain = append(chain, fmt.Sprintf("Posture was %v for %.0f%% of the session", f.posture, 100*er.Motion.PostureFraction(f.posture)))
	}
	chain = append(chain, fmt.Sprintf("Stillness score %.1f, average speed %.1f px/frame", f.stillness, f.avgSpeed))
	switch {
	case !br.AudioAvailable:
		chain = append(chain, "No audio; treated as silent")
	case f.vocal:
		chain = append(chain, fmt.Sprintf("Vocal: %v barks, %.0f%% of frames vocalizing", br.Barks.Total, 100*br.VocalFraction))
	default:
		chain = append(chain, "Quiet throughout")
	}
	if vs.Valid {
		chain = append(chain, fmt.Sprintf("Pixels: body %v, motion %v", vs.DominantBodyState, vs.MotionLevel))
	}
	chain = append(chain, fmt.Sprintf("Energy %v (signature %v)", en.Total, en.Signature))
	return chain
}
