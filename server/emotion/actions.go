package emotion

import (
	"strings"

	"github.com/cyclopcam/pawscan/server/motion"
	"github.com/cyclopcam/pawscan/server/vision"
	"github.com/cyclopcam/pawscan/server/vocal"
)

// Input is everything the scorer sees for one frame
type Input struct {
	Motion motion.Result
	Vocal  vocal.Assessment
	Pixels vision.Sample // Valid is false when the pixel channel had nothing this frame
}

// What the action rules evaluate. The recent window is owned by the scorer.
type actionInput struct {
	*Input
	recent []motion.Result // oldest first, including this frame
}

func (in *actionInput) pat() *motion.Patterns {
	return &in.Motion.Patterns
}

func (in *actionInput) posture() motion.Posture {
	return in.Motion.Posture.Current
}

func (in *actionInput) silent() bool {
	return !in.Vocal.IsVocalizing
}

func (in *actionInput) vocalType(t vocal.Type) bool {
	return in.Vocal.IsVocalizing && in.Vocal.Type == t
}

func (in *actionInput) sumVerticalOsc() int {
	n := 0
	for _, r := range in.recent {
		n += r.Movement.VerticalOsc
	}
	return n
}

// Width grows while the height drops, against the oldest frame of the window
func (in *actionInput) stretching() bool {
	if len(in.recent) < stretchWindow {
		return false
	}
	a := in.recent[len(in.recent)-stretchWindow].Smoothed
	b := in.Motion.Smoothed
	return a.W > 0 && a.H > 0 && b.W >= 1.1*a.W && b.H <= 0.95*a.H
}

const (
	stretchWindow     = 10
	repeatedBarkRate  = 20.0
	zoomiesSpeed      = 14.0
	freezeStillness   = 25.0
	cowerCrouchFrames = 8.0
)

type actionRule struct {
	Action
	match func(in *actionInput) bool
}

func rule(name string, cat Category, desc string, match func(in *actionInput) bool) actionRule {
	return actionRule{Action{name, cat, desc}, match}
}

// The action catalog. Order within a category breaks ties for the primary action.
var actionRules = []actionRule{
	rule("barking-repeatedly", CatVocalization, "Barking in rapid succession", func(in *actionInput) bool {
		return in.vocalType(vocal.TypeBark) && in.Vocal.Rate > repeatedBarkRate
	}),
	rule("barking", CatVocalization, "Barking", func(in *actionInput) bool { return in.vocalType(vocal.TypeBark) }),
	rule("growling", CatVocalization, "Low, sustained growl", func(in *actionInput) bool { return in.vocalType(vocal.TypeGrowl) }),
	rule("whining", CatVocalization, "High-pitched whine", func(in *actionInput) bool { return in.vocalType(vocal.TypeWhine) }),
	rule("howling", CatVocalization, "Sustained, modulated howl", func(in *actionInput) bool { return in.vocalType(vocal.TypeHowl) }),
	rule("yelping", CatVocalization, "Short, sharp yelp", func(in *actionInput) bool { return in.vocalType(vocal.TypeYelp) }),

	rule("jumping-up", CatJumping, "Jumping upwards", func(in *actionInput) bool {
		m := in.Motion.Movement
		return m.DY < -12 && m.Acceleration > 5
	}),
	rule("repeated-jumping", CatJumping, "Jumping again and again", func(in *actionInput) bool { return in.pat().Jumping >= 2 }),

	rule("play-bow", CatPlay, "Front end down, rear up: an invitation to play", func(in *actionInput) bool { return in.pat().PlayBows >= 1 }),
	rule("zoomies", CatPlay, "Fast, frantic running in changing directions", func(in *actionInput) bool {
		return in.Motion.AvgSpeed >= zoomiesSpeed && (in.pat().Spinning >= 4 || in.pat().Restlessness >= 8)
	}),
	rule("bouncing-play", CatPlay, "Bouncy, playful movement", func(in *actionInput) bool {
		return in.pat().Bouncing > 6 && in.Motion.AvgSpeed > 3
	}),

	rule("freezing", CatStress, "Frozen in a low posture", func(in *actionInput) bool {
		return in.posture() == motion.PostureCrouch && in.pat().Stillness > freezeStillness
	}),
	rule("cowering", CatStress, "Staying low and small", func(in *actionInput) bool {
		return in.pat().Crouching >= cowerCrouchFrames && in.Motion.AvgSpeed < 3
	}),

	rule("shaking-off", CatBody, "Whole-body shake", func(in *actionInput) bool {
		return in.pat().Bouncing > 6 && in.pat().TailWagLikely >= 5 && in.Motion.AvgSpeed < 3
	}),
	rule("scratching", CatBody, "Repetitive scratching while sitting", func(in *actionInput) bool {
		return in.posture() == motion.PostureSit && in.sumVerticalOsc() >= 5 && in.Motion.AvgSpeed < 1
	}),
	rule("stretching", CatBody, "Stretching out", func(in *actionInput) bool {
		return in.Motion.AvgSpeed < 2 && in.stretching()
	}),

	rule("standing-up", CatTransition, "Getting up", func(in *actionInput) bool { return in.changedTo(motion.PostureStand) }),
	rule("sitting-down", CatTransition, "Sitting down", func(in *actionInput) bool { return in.changedTo(motion.PostureSit) }),
	rule("lying-down", CatTransition, "Lying down", func(in *actionInput) bool { return in.changedTo(motion.PostureDown) }),
	rule("crouching-down", CatTransition, "Dropping low", func(in *actionInput) bool { return in.changedTo(motion.PostureCrouch) }),

	rule("head-tilt", CatAttention, "Head tilting", func(in *actionInput) bool { return in.pat().HeadTilts >= 3 }),
	rule("alert-stance", CatAttention, "Standing still and alert", func(in *actionInput) bool {
		return in.posture() == motion.PostureStand && in.pat().Stillness > 10 && in.silent()
	}),
	rule("watching", CatAttention, "Watching attentively", func(in *actionInput) bool {
		p := in.posture()
		return in.pat().Stillness > 15 && (p == motion.PostureStand || p == motion.PostureSit)
	}),

	rule("pacing", CatPattern, "Pacing back and forth", func(in *actionInput) bool { return in.pat().Pacing >= 3 }),
	rule("spinning", CatPattern, "Spinning or circling", func(in *actionInput) bool { return in.pat().Spinning >= 4 }),
	rule("restless", CatPattern, "Unsettled, changing position often", func(in *actionInput) bool { return in.pat().Restlessness >= 8 }),

	rule("approaching", CatSpatial, "Coming closer", func(in *actionInput) bool { return in.pat().Approaching > 0 }),
	rule("retreating", CatSpatial, "Moving away", func(in *actionInput) bool { return in.pat().Retreating > 0 }),

	rule("stationary", CatLocomotion, "Not moving", func(in *actionInput) bool { return in.Motion.AvgSpeed < 0.5 }),
	rule("slow-moving", CatLocomotion, "Moving slowly", func(in *actionInput) bool { return in.speedIn(0.5, 3) }),
	rule("walking", CatLocomotion, "Walking", func(in *actionInput) bool { return in.speedIn(3, 7) }),
	rule("trotting", CatLocomotion, "Trotting", func(in *actionInput) bool { return in.speedIn(7, 14) }),
	rule("running", CatLocomotion, "Running", func(in *actionInput) bool { return in.speedIn(14, 25) }),
	rule("sprinting", CatLocomotion, "Sprinting", func(in *actionInput) bool { return in.Motion.AvgSpeed >= 25 }),

	rule("begging-pose", CatPosture, "Sitting up tall", func(in *actionInput) bool {
		return in.posture() == motion.PostureSit && in.Motion.Posture.Detail == motion.DetailBegging
	}),
	rule("standing", CatPosture, "Standing", func(in *actionInput) bool { return in.posture() == motion.PostureStand }),
	rule("sitting", CatPosture, "Sitting", func(in *actionInput) bool { return in.posture() == motion.PostureSit }),
	rule("resting-down", CatPosture, "Lying down", func(in *actionInput) bool { return in.posture() == motion.PostureDown }),
	rule("crouched", CatPosture, "Crouched low", func(in *actionInput) bool { return in.posture() == motion.PostureCrouch }),

	rule("tail-wagging-fast", CatTail, "Fast tail wagging", func(in *actionInput) bool { return in.pat().TailWagLikely >= 10 }),
	rule("tail-wagging", CatTail, "Tail wagging", func(in *actionInput) bool { return in.pat().TailWagLikely >= 5 }),

	rule("dozing", CatRest, "Lying still and quiet, possibly asleep", func(in *actionInput) bool {
		return in.posture() == motion.PostureDown && in.pat().Stillness > 25 && in.silent()
	}),
	rule("resting", CatRest, "Resting", func(in *actionInput) bool {
		return in.posture() == motion.PostureDown && in.pat().Stillness > 15
	}),

	rule("moving-left", CatDirection, "Heading left", func(in *actionInput) bool { return in.heading("left") }),
	rule("moving-right", CatDirection, "Heading right", func(in *actionInput) bool { return in.heading("right") }),
	rule("moving-up", CatDirection, "Heading up the frame", func(in *actionInput) bool { return in.heading("up") && !in.horizontal() }),
	rule("moving-down", CatDirection, "Heading down the frame", func(in *actionInput) bool { return in.heading("down") && !in.horizontal() }),
}

func (in *actionInput) changedTo(p motion.Posture) bool {
	return in.Motion.Posture.Changed && in.Motion.Posture.Current == p
}

func (in *actionInput) speedIn(lo, hi float64) bool {
	return in.Motion.AvgSpeed >= lo && in.Motion.AvgSpeed < hi
}

func (in *actionInput) heading(part string) bool {
	return strings.Contains(string(in.Motion.Movement.Direction), part)
}

func (in *actionInput) horizontal() bool {
	return in.heading("left") || in.heading("right")
}

// Returns every matching action in catalog order, and the primary action
func classifyActions(in *actionInput) ([]Action, string) {
	active := []Action{}
	if !in.Motion.Detected {
		return active, ActionObserving
	}
	for _, r := range actionRules {
		if r.match(in) {
			active = append(active, r.Action)
		}
	}
	for _, cat := range CategoryPriority {
		for _, a := range active {
			if a.Category == cat {
				return active, a.Name
			}
		}
	}
	return active, ActionObserving
}

// ActionByName looks up an action in the catalog
func ActionByName(name string) (Action, bool) {
	for _, r := range actionRules {
		if r.Name == name {
			return r.Action, true
		}
	}
	return Action{}, false
}
