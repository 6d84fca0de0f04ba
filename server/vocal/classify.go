package vocal

// Frequency bands, in Hz
const (
	vocalRangeLow  = 80.0
	vocalRangeHigh = 2000.0
	lowBandHigh    = 400.0
	midBandHigh    = 1200.0
	highBandHigh   = 4000.0
)

// What a rule sees when classifying one active, un-gated frame
type ruleInput struct {
	f            Features
	activeFrames int
	barkOnsetRMS float64
}

// The decision tree as an ordered table. First match wins.
var rules = []struct {
	t     Type
	match func(in *ruleInput) bool
}{
	{TypeGrowl, func(in *ruleInput) bool {
		return in.f.Frequency < 300 && in.f.Tilt > 0.3 && in.activeFrames > 20 && in.f.RMS > 0.06
	}},
	{TypeWhine, func(in *ruleInput) bool {
		return in.f.Frequency > 300 && in.f.Tilt < -0.1 && in.activeFrames > 10 && in.f.RMS > 0.05
	}},
	{TypeHowl, func(in *ruleInput) bool {
		return in.f.Frequency >= 150 && in.f.Frequency <= 780 && in.activeFrames > 35 &&
			in.f.PitchStd > 20 && in.f.PitchStd < 200 && in.f.RMS > 0.06
	}},
	{TypeBark, func(in *ruleInput) bool {
		return in.f.Onset > 0.2 && in.f.RMS > in.barkOnsetRMS
	}},
	{TypeYelp, func(in *ruleInput) bool {
		return in.f.Onset > 0.4 && in.activeFrames < 3 && in.f.Frequency > 800 && in.f.RMS > 0.08
	}},
}

func classify(in *ruleInput) Type {
	for _, r := range rules {
		if r.match(in) {
			return r.t
		}
	}
	return TypeAmbient
}
