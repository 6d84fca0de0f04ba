package coherence

import (
	"github.com/cyclopcam/pawscan/server/emotion"
	"github.com/cyclopcam/pawscan/server/motion"
	"github.com/cyclopcam/pawscan/server/vision"
)

type State string

const (
	StateSleeping         State = "sleeping"
	StateResting          State = "resting"
	StateRestingVocal     State = "resting-vocal"
	StateAlertWatching    State = "alert-watching"
	StateCalmStanding     State = "calm-standing"
	StateRestingSitting   State = "resting-sitting"
	StateActive           State = "active"
	StateModeratelyActive State = "moderately-active"
	StateNormal           State = "normal"
)

// Session-level aggregates the verdict rules look at
type facts struct {
	posture       motion.Posture
	stillness     float64
	avgSpeed      float64
	vocal         bool
	visionConfirm bool
}

type verdict struct {
	state       State
	confidence  float64
	label       string
	description string
	fallback    string // primary action when every ranked action is denied
	when        func(f *facts) bool
}

// First match wins. The last row always matches.
var verdicts = []verdict{
	{StateSleeping, 92, "Sleeping", "Lying down, motionless and quiet for most of the session", "sleeping", func(f *facts) bool {
		return f.posture == motion.PostureDown && f.stillness > 20 && f.avgSpeed < 1.5 && !f.vocal && f.visionConfirm
	}},
	{StateResting, 90, "Resting", "Lying down and relaxed", "resting", func(f *facts) bool {
		return f.posture == motion.PostureDown && f.stillness > 10 && f.avgSpeed < 3 && !f.vocal
	}},
	{StateRestingVocal, 85, "Resting but Vocal", "Lying down, but barking or vocalizing", "resting-and-vocalizing", func(f *facts) bool {
		return f.posture == motion.PostureDown && f.vocal
	}},
	{StateAlertWatching, 85, "Alert & Watching", "Standing still and quietly watching", "watching", func(f *facts) bool {
		return f.posture == motion.PostureStand && f.stillness > 10 && f.avgSpeed < 3 && !f.vocal
	}},
	{StateCalmStanding, 80, "Calm Standing", "Standing calmly with little movement", "standing", func(f *facts) bool {
		return f.posture == motion.PostureStand && f.stillness > 5 && f.avgSpeed < 5 && !f.vocal
	}},
	{StateRestingSitting, 82, "Sitting Calmly", "Sitting with little movement", "sitting", func(f *facts) bool {
		return f.posture == motion.PostureSit && f.stillness > 5 && f.avgSpeed < 3
	}},
	{StateActive, 80, "Active", "Moving around a lot", "moving-around", func(f *facts) bool {
		return f.avgSpeed > 8
	}},
	{StateModeratelyActive, 75, "Moderately Active", "Moving around at a relaxed pace", "walking", func(f *facts) bool {
		return f.avgSpeed > 3
	}},
	{StateNormal, 60, "Active / Normal", "Ordinary mixed activity", emotion.ActionObserving, func(f *facts) bool {
		return true
	}},
}

// Session vocal thresholds
const (
	vocalMinBarks    = 2
	vocalMinFraction = 0.1
)

var sleepConfirmBody = []vision.BodyState{vision.BodyVeryStill, vision.BodyCalm}

var (
	fastActions  = []string{"trotting", "running", "sprinting", "zoomies"}
	jumpActions  = []string{"jumping-up", "repeated-jumping"}
	playActions  = []string{"play-bow", "bouncing-play"}
	restActions  = []string{"dozing", "resting"}
	vocalActions = []string{"barking", "barking-repeatedly", "growling", "whining", "howling", "yelping"}
	moveActions  = []string{"moving-left", "moving-right", "moving-up", "moving-down"}
)

func join(lists ...[]string) []string {
	out := []string{}
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// Actions that cannot happen under each verdict
var deniedActions = map[State][]string{
	StateSleeping: join(fastActions, jumpActions, playActions, vocalActions, moveActions, []string{
		"walking", "slow-moving", "tail-wagging-fast", "tail-wagging", "pacing", "spinning", "restless",
		"approaching", "retreating", "standing-up", "shaking-off", "scratching", "stretching",
		"alert-stance", "watching", "head-tilt", "standing", "sitting", "begging-pose",
	}),
	StateResting: join(fastActions, jumpActions, playActions, []string{
		"tail-wagging-fast", "pacing", "spinning", "barking-repeatedly", "standing", "begging-pose", "alert-stance",
	}),
	StateRestingVocal:     join(fastActions, jumpActions, playActions, []string{"pacing", "spinning", "dozing"}),
	StateAlertWatching:    join(fastActions, jumpActions, restActions, []string{"bouncing-play", "spinning"}),
	StateCalmStanding:     join(fastActions, jumpActions, restActions, []string{"bouncing-play"}),
	StateRestingSitting:   join(fastActions, jumpActions, restActions, []string{"bouncing-play"}),
	StateActive:           join(restActions, []string{"freezing", "stationary"}),
	StateModeratelyActive: {"dozing"},
}

var (
	motionSignals = []string{
		emotion.SigPacing, emotion.SigSpinning, emotion.SigBouncing, emotion.SigJumping, emotion.SigRestless,
		emotion.SigFastMovement, emotion.SigPlayBow,
	}
	vocalSignalList = []string{
		emotion.SigBarking, emotion.SigRapidBarking, emotion.SigGrowling, emotion.SigWhining,
		emotion.SigHowling, emotion.SigYelping,
	}
)

// Human-readable signals that cannot be shown under each verdict
var deniedSignals = map[State][]string{
	StateSleeping: join(motionSignals, vocalSignalList, []string{
		emotion.SigTailWag, emotion.SigTailWagFast, emotion.SigApproaching, emotion.SigRetreating,
		emotion.SigHeadTilt, emotion.SigPostureShifts, emotion.SigHeadActive, emotion.SigPixelWag,
	}),
	StateResting:        join(motionSignals, []string{emotion.SigTailWagFast, emotion.SigRapidBarking}),
	StateRestingVocal:   motionSignals,
	StateAlertWatching:  motionSignals,
	StateCalmStanding:   motionSignals,
	StateRestingSitting: motionSignals,
	StateActive:         {emotion.SigStill},
}

var activePatterns = []string{"pacing", "spinning", "bouncing", "jumping", "playBows"}

// Pattern counters zeroed for display under each verdict
var deniedPatterns = map[State][]string{
	StateSleeping: {
		"pacing", "spinning", "bouncing", "approaching", "retreating", "headTilts", "playBows",
		"jumping", "restlessness", "tailWagLikely", "postureChanges", "crouching",
	},
	StateResting:        join(activePatterns, []string{"tailWagLikely", "approaching", "retreating"}),
	StateRestingVocal:   activePatterns,
	StateAlertWatching:  activePatterns,
	StateCalmStanding:   activePatterns,
	StateRestingSitting: activePatterns,
	StateActive:         {"stillness"},
}

type emotionRule struct {
	allow      []emotion.Emotion
	substitute emotion.Emotion
}

// Emotions that can be displayed under each verdict. Verdicts without a row allow everything.
var emotionRules = map[State]emotionRule{
	StateSleeping: {[]emotion.Emotion{emotion.Calm}, emotion.Calm},
	StateResting:  {[]emotion.Emotion{emotion.Calm, emotion.Sad, emotion.Happy}, emotion.Calm},
	StateRestingVocal: {[]emotion.Emotion{
		emotion.Calm, emotion.Alert, emotion.Anxious, emotion.Sad, emotion.Stressed, emotion.Happy,
		emotion.Curious, emotion.Fearful, emotion.Aggressive,
	}, emotion.Alert},
	StateAlertWatching: {[]emotion.Emotion{
		emotion.Alert, emotion.Curious, emotion.Calm, emotion.Anxious, emotion.Fearful, emotion.Aggressive, emotion.Stressed,
	}, emotion.Alert},
	StateCalmStanding: {[]emotion.Emotion{
		emotion.Calm, emotion.Alert, emotion.Curious, emotion.Happy, emotion.Sad, emotion.Anxious,
	}, emotion.Calm},
	StateRestingSitting: {[]emotion.Emotion{
		emotion.Calm, emotion.Alert, emotion.Curious, emotion.Happy, emotion.Sad, emotion.Anxious,
	}, emotion.Calm},
	StateActive: {[]emotion.Emotion{
		emotion.Happy, emotion.Excited, emotion.Playful, emotion.Anxious, emotion.Stressed, emotion.Fearful,
		emotion.Aggressive, emotion.Alert, emotion.Curious,
	}, emotion.Curious},
}
