package motion

import "github.com/cyclopcam/pawscan/pkg/stats"

type postureInput struct {
	avgAspect     float64 // trailing mean of W/H
	aspect        float64 // this frame's smoothed W/H
	lastStillness float64 // the previous frame's stillness pattern
}

// An aspect-ratio band. Bands are tested in order, first match wins.
type postureRule struct {
	minAspect float64
	classify  func(in postureInput) (Posture, string)
}

var postureRules = []postureRule{
	{1.8, func(in postureInput) (Posture, string) { return PostureDown, "" }},
	{1.4, func(in postureInput) (Posture, string) {
		if in.lastStillness > 10 || in.aspect >= 1.5 {
			return PostureDown, ""
		}
		return PostureStand, ""
	}},
	{1.0, func(in postureInput) (Posture, string) { return PostureStand, "" }},
	{0.5, func(in postureInput) (Posture, string) { return PostureSit, "" }},
	{0, func(in postureInput) (Posture, string) { return PostureSit, DetailBegging }},
}

const (
	crouchLookback    = 8
	crouchHeightRatio = 0.65
	crouchMaxAspect   = 1.5
)

func classifyAspect(in postureInput) (Posture, string) {
	if in.avgAspect <= 0 {
		return PostureUnknown, ""
	}
	for _, r := range postureRules {
		if in.avgAspect >= r.minAspect {
			return r.classify(in)
		}
	}
	return PostureUnknown, ""
}

// Classify this frame's raw posture from the smoothed box history.
func (t *Tracker) classifyPosture() (Posture, string) {
	n := t.smoothed.Len()
	window := t.smoothed.Last(t.cfg.PostureWindow)
	aspects := make([]float64, len(window))
	for i, b := range window {
		aspects[i] = b.Aspect()
	}
	cur := t.smoothed.Back(0)
	p, detail := classifyAspect(postureInput{
		avgAspect:     stats.Mean(aspects),
		aspect:        cur.Aspect(),
		lastStillness: t.lastStillness,
	})

	// Rapid lowering of the body, independent of the aspect-ratio bands
	if n > crouchLookback {
		prior := t.smoothed.Back(crouchLookback)
		if prior.H > 0 && cur.H < crouchHeightRatio*prior.H && prior.Aspect() < crouchMaxAspect {
			return PostureCrouch, ""
		}
	}
	return p, detail
}

// Apply hysteresis. The current posture only changes when the candidate holds
// the quota of recent votes, so a single noisy frame never flips it.
func (t *Tracker) updatePosture(raw Posture, detail string) PostureState {
	t.votes.Add(raw)
	prev := t.posture
	if raw != t.posture && raw != PostureUnknown {
		n := 0
		for _, v := range t.votes.All() {
			if v == raw {
				n++
			}
		}
		if n >= t.cfg.HysteresisQuota {
			t.posture = raw
		}
	}
	if t.posture == raw {
		t.postureDetail = detail
	}
	t.postures.Add(t.posture)
	return PostureState{
		Current:  t.posture,
		Detail:   t.postureDetail,
		Raw:      raw,
		Previous: prev,
		Changed:  prev != t.posture && prev != PostureUnknown,
	}
}
