package emotion

import (
	"github.com/cyclopcam/pawscan/server/motion"
	"github.com/cyclopcam/pawscan/server/vocal"
)

// An additive contribution. Every rule that matches adds its points.
type scoreRule struct {
	name string
	when func(in *Input) bool
	add  Scores
}

func posture(p motion.Posture) func(in *Input) bool {
	return func(in *Input) bool { return in.Motion.Detected && in.Motion.Posture.Current == p }
}

func speed(lo, hi float64) func(in *Input) bool {
	return func(in *Input) bool { return in.Motion.Detected && in.Motion.AvgSpeed >= lo && in.Motion.AvgSpeed < hi }
}

func pattern(name string, min float64) func(in *Input) bool {
	return func(in *Input) bool {
		v := in.Motion.Patterns.Get(name)
		return v > 0 && v >= min
	}
}

func voice(t vocal.Type) func(in *Input) bool {
	return func(in *Input) bool { return in.Vocal.IsVocalizing && in.Vocal.Type == t }
}

func vocalizing(f func(a *vocal.Assessment) bool) func(in *Input) bool {
	return func(in *Input) bool { return in.Vocal.IsVocalizing && f(&in.Vocal) }
}

// The contribution table. These values set the feel of the output and are reproduced as tuned.
var scoreRules = []scoreRule{
	// Posture
	{"posture-stand", posture(motion.PostureStand), Scores{Alert: 8, Curious: 5}},
	{"posture-sit", posture(motion.PostureSit), Scores{Calm: 12, Alert: 5, Curious: 4}},
	{"posture-begging", func(in *Input) bool {
		return posture(motion.PostureSit)(in) && in.Motion.Posture.Detail == motion.DetailBegging
	}, Scores{Curious: 8, Happy: 4}},
	{"posture-down", posture(motion.PostureDown), Scores{Calm: 25, Sad: 8}},
	{"posture-crouch", posture(motion.PostureCrouch), Scores{Fearful: 15, Anxious: 10, Playful: 5}},

	// Speed bands, averaged over the locomotion window
	{"speed-stationary", speed(0, 0.5), Scores{Calm: 10}},
	{"speed-slow", speed(0.5, 3), Scores{Calm: 5, Curious: 5}},
	{"speed-walk", speed(3, 7), Scores{Happy: 8, Curious: 6}},
	{"speed-trot", speed(7, 14), Scores{Happy: 10, Excited: 10, Playful: 8}},
	{"speed-run", speed(14, 25), Scores{Excited: 18, Playful: 12}},
	{"speed-sprint", speed(25, 1e9), Scores{Excited: 22, Playful: 10, Anxious: 5}},

	// Patterns
	{"pacing", pattern("pacing", 0), Scores{Anxious: 20, Stressed: 15}},
	{"spinning", pattern("spinning", 0), Scores{Excited: 15, Playful: 10, Anxious: 5}},
	{"bouncing", pattern("bouncing", 0), Scores{Excited: 15, Playful: 15, Happy: 5}},
	{"stillness-high", func(in *Input) bool { return in.Motion.Patterns.Stillness > 15 }, Scores{Calm: 10}},
	{"stillness-mid", func(in *Input) bool {
		s := in.Motion.Patterns.Stillness
		return s >= 8 && s <= 15
	}, Scores{Calm: 5}},
	{"approaching", pattern("approaching", 0), Scores{Curious: 10, Happy: 5}},
	{"retreating", pattern("retreating", 0), Scores{Fearful: 12, Anxious: 8}},
	{"head-tilts", pattern("headTilts", 0), Scores{Curious: 18, Alert: 5}},
	{"play-bows", pattern("playBows", 0), Scores{Playful: 30, Happy: 10}},
	{"jumping", pattern("jumping", 0), Scores{Excited: 15, Playful: 10, Happy: 5}},
	{"restlessness", pattern("restlessness", 0), Scores{Anxious: 15, Stressed: 10}},
	{"tail-wag", pattern("tailWagLikely", 0), Scores{Happy: 15, Playful: 8}},
	{"tail-wag-fast", pattern("tailWagLikely", 10), Scores{Excited: 8}},
	{"posture-changes", pattern("postureChanges", 3), Scores{Anxious: 6, Stressed: 4}},
	{"crouching", pattern("crouching", 5), Scores{Fearful: 15, Stressed: 8}},

	// Vocalization
	{"bark", voice(vocal.TypeBark), Scores{Alert: 15, Excited: 8}},
	{"growl", voice(vocal.TypeGrowl), Scores{Aggressive: 30, Fearful: 5}},
	{"whine", voice(vocal.TypeWhine), Scores{Anxious: 18, Sad: 12, Stressed: 5}},
	{"howl", voice(vocal.TypeHowl), Scores{Sad: 15, Alert: 8}},
	{"yelp", voice(vocal.TypeYelp), Scores{Fearful: 20, Stressed: 10}},
	{"rate-high", func(in *Input) bool { return in.Vocal.Rate > 30 }, Scores{Excited: 10, Anxious: 8}},
	{"rate-mid", func(in *Input) bool { return in.Vocal.Rate >= 10 && in.Vocal.Rate <= 30 }, Scores{Alert: 8}},
	{"pitch-high", vocalizing(func(a *vocal.Assessment) bool { return a.AvgPitch > 800 }), Scores{Excited: 5, Fearful: 3}},
	{"pitch-low", vocalizing(func(a *vocal.Assessment) bool { return a.AvgPitch > 0 && a.AvgPitch < 300 }), Scores{Aggressive: 8}},
	{"tonal", vocalizing(func(a *vocal.Assessment) bool { return a.AvgTonality > 0.5 }), Scores{Sad: 5, Anxious: 3}},
	{"noisy", vocalizing(func(a *vocal.Assessment) bool { return a.AvgTonality < 0.2 }), Scores{Aggressive: 4}},
	{"silent", func(in *Input) bool { return in.Vocal.AudioAvailable && !in.Vocal.IsVocalizing }, Scores{Calm: 5}},
}

// Overrides applied strictly after the additive phase, in this order. They keep
// a motionless dog from reading as playful or excited on residual points.
type override struct {
	name  string
	when  func(in *Input) bool
	apply func(in *Input, s Scores)
}

var overrides = []override{
	{"stillness-high", func(in *Input) bool { return in.Motion.Patterns.Stillness > 15 }, func(in *Input, s Scores) {
		s[Playful] *= 0.15
		s[Excited] *= 0.15
		s[Calm] += 30
		if !in.Vocal.IsVocalizing {
			s[Calm] += 20
		}
	}},
	{"stillness-mid", func(in *Input) bool {
		st := in.Motion.Patterns.Stillness
		return st >= 8 && st <= 15
	}, func(in *Input, s Scores) {
		s[Playful] *= 0.4
		s[Excited] *= 0.4
		s[Calm] += 15
	}},
	{"low-speed", func(in *Input) bool { return in.Motion.Detected && in.Motion.AvgSpeed < 1 }, func(in *Input, s Scores) {
		s[Playful] *= 0.1
		s[Excited] *= 0.1
		s[Happy] *= 0.5
		s[Calm] += 25
	}},
}

// The additive phase on its own. Without a detection only the vocal rules can match.
func additiveScores(in *Input) Scores {
	s := newScores()
	for i := range scoreRules {
		r := &scoreRules[i]
		if r.when(in) {
			for e, v := range r.add {
				s[e] += v
			}
		}
	}
	return s
}

func applyOverrides(in *Input, s Scores) {
	for _, o := range overrides {
		if o.when(in) {
			o.apply(in, s)
		}
	}
}
