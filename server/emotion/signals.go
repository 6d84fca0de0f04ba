package emotion

import (
	"github.com/cyclopcam/pawscan/server/vision"
	"github.com/cyclopcam/pawscan/server/vocal"
)

// Human-readable signals. Other packages filter on these exact strings.
const (
	SigPacing        = "Pacing back and forth"
	SigSpinning      = "Spinning or circling"
	SigBouncing      = "Bouncy, springy movement"
	SigStill         = "Holding very still"
	SigApproaching   = "Moving toward the camera"
	SigRetreating    = "Moving away from the camera"
	SigHeadTilt      = "Head tilting"
	SigPlayBow       = "Play bow"
	SigJumping       = "Jumping"
	SigRestless      = "Restless, frequent changes"
	SigTailWag       = "Tail wagging likely"
	SigTailWagFast   = "Fast tail wagging"
	SigPostureShifts = "Frequent posture shifts"
	SigCrouching     = "Crouching low"
	SigFastMovement  = "Fast movement"
	SigBarking       = "Barking"
	SigRapidBarking  = "Rapid barking"
	SigGrowling      = "Growling"
	SigWhining       = "Whining"
	SigHowling       = "Howling"
	SigYelping       = "Yelping"
	SigTrembling     = "Trembling or muscle tension"
	SigPixelWag      = "Tail wag visible in pixels"
	SigHeadActive    = "Active head movement"
)

var vocalSignals = map[vocal.Type]string{
	vocal.TypeBark:  SigBarking,
	vocal.TypeGrowl: SigGrowling,
	vocal.TypeWhine: SigWhining,
	vocal.TypeHowl:  SigHowling,
	vocal.TypeYelp:  SigYelping,
}

var signalRules = []struct {
	signal string
	when   func(in *Input) bool
}{
	{SigPacing, pattern("pacing", 0)},
	{SigSpinning, pattern("spinning", 0)},
	{SigBouncing, pattern("bouncing", 0)},
	{SigStill, func(in *Input) bool { return in.Motion.Patterns.Stillness > 15 }},
	{SigApproaching, pattern("approaching", 0)},
	{SigRetreating, pattern("retreating", 0)},
	{SigHeadTilt, pattern("headTilts", 0)},
	{SigPlayBow, pattern("playBows", 0)},
	{SigJumping, pattern("jumping", 0)},
	{SigRestless, pattern("restlessness", 0)},
	{SigTailWagFast, pattern("tailWagLikely", 10)},
	{SigTailWag, func(in *Input) bool {
		w := in.Motion.Patterns.TailWagLikely
		return w >= 5 && w < 10
	}},
	{SigPostureShifts, pattern("postureChanges", 3)},
	{SigCrouching, pattern("crouching", 5)},
	{SigFastMovement, func(in *Input) bool { return in.Motion.Detected && in.Motion.AvgSpeed >= 14 }},
	{SigRapidBarking, func(in *Input) bool {
		return in.Vocal.IsVocalizing && in.Vocal.Type == vocal.TypeBark && in.Vocal.Rate > 30
	}},
	{SigTrembling, func(in *Input) bool { return in.Pixels.Valid && in.Pixels.Tension >= 0.5 }},
	{SigPixelWag, func(in *Input) bool { return in.Pixels.Valid && in.Pixels.Body == vision.BodyWagging }},
	{SigHeadActive, func(in *Input) bool { return in.Pixels.Valid && in.Pixels.Head == vision.HeadActive }},
}

func detectSignals(in *Input) []string {
	out := []string{}
	if in.Vocal.IsVocalizing {
		if s, ok := vocalSignals[in.Vocal.Type]; ok {
			out = append(out, s)
		}
	}
	for _, r := range signalRules {
		if r.when(in) {
			out = append(out, r.signal)
		}
	}
	return out
}
