package vision

// Tension tiers, tested in order. High micro-vibration with almost no macro
// motion is trembling; the same vibration during real movement is not.
var tensionTiers = []struct {
	minMicro float64
	maxMacro float64
	tension  float64
}{
	{0.35, 0.02, 0.9},
	{0.25, 0.04, 0.7},
	{0.15, 0.06, 0.5},
	{0.08, 0.08, 0.3},
}

func tensionFor(micro, macro float64) float64 {
	if micro < 0.08 {
		return 0
	}
	for _, t := range tensionTiers {
		if micro >= t.minMicro && macro < t.maxMacro {
			return t.tension
		}
	}
	return 0
}

// Body-state rules in priority order. Exactly one applies, because the last always matches.
var bodyRules = []struct {
	state BodyState
	match func(s *Sample) bool
}{
	{BodyVeryActive, func(s *Sample) bool { return s.Overall > 0.08 || s.Macro > 0.25 }},
	{BodyActive, func(s *Sample) bool { return s.Overall > 0.04 || s.Macro > 0.12 }},
	{BodyTense, func(s *Sample) bool { return s.Tension >= 0.5 }},
	{BodyWagging, func(s *Sample) bool { return s.TailWag >= 4 }},
	{BodyVibrating, func(s *Sample) bool { return s.Micro > 0.15 }},
	{BodyVeryStill, func(s *Sample) bool { return s.Overall < 0.004 && s.Micro < 0.03 }},
	{BodyCalm, func(s *Sample) bool { return s.Overall < 0.012 }},
	{BodySlightMotion, func(s *Sample) bool { return true }},
}

func bodyStateOf(s *Sample) BodyState {
	for _, r := range bodyRules {
		if r.match(s) {
			return r.state
		}
	}
	return BodySlightMotion
}

func headActivityOf(zones [NumZones]float64) HeadActivity {
	head := (zones[0] + zones[1] + zones[2]) / 3
	body := 0.0
	for _, z := range zones[3:] {
		body += z
	}
	body /= 6
	switch {
	case head > 0.03 && head > 2*body:
		return HeadActive
	case head > 0.01:
		return HeadMoving
	}
	return HeadStill
}

func motionLevelOf(overall float64) MotionLevel {
	switch {
	case overall < 0.004:
		return MotionNearZero
	case overall < 0.015:
		return MotionLow
	case overall < 0.05:
		return MotionModerate
	}
	return MotionHigh
}
