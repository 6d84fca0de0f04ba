package motion

// Windows and thresholds of the pattern counters. These values are tuned by
// observation against the default noise floor.
const (
	pacingWindow     = 30
	pacingBurstDX    = 8.0
	pacingMinReverse = 3

	spinWindow       = 30
	spinSamples      = 12
	spinMinSamples   = 8
	spinMinDistinct  = 4
	bounceWindow     = 15
	bounceMinOsc     = 6
	stillWindow      = 15
	spatialWindow    = 10
	approachRatio    = 1.02
	retreatRatio     = 0.98
	spatialMinFrames = 5

	headTiltWindow   = 20
	headTiltDelta    = 0.08
	headTiltMin      = 3
	playBowWindow    = 30
	playBowLag       = 5
	playBowHeight    = 0.85
	playBowWidth     = 0.95
	jumpWindow       = 15
	jumpDY           = -12.0
	jumpAccel        = 5.0
	restlessWindow   = 30
	restlessMin      = 8
	tailWagWindow    = 20
	tailWagMinOsc    = 5
	tailWagMaxSpeedK = 1.5
	postureWindow    = 30
	crouchWindow     = 15
)

func (t *Tracker) computePatterns() Patterns {
	var p Patterns
	p.Pacing = t.pacing()
	p.Spinning = t.spinning()
	p.Bouncing = t.bouncing()
	p.Stillness = t.stillnessScore()
	p.Approaching, p.Retreating = t.spatial()
	p.HeadTilts = t.headTilts()
	p.PlayBows = t.playBows()
	p.Jumping = t.jumping()
	p.PostureChanges = float64(t.postureChanges(postureWindow))
	p.Restlessness = t.restlessness(p.PostureChanges)
	p.TailWagLikely = t.tailWag()
	p.Crouching = t.crouching()
	return p
}

// Left/right reversals among large horizontal bursts
func (t *Tracker) pacing() float64 {
	reversals := 0
	lastSign := 0
	for _, m := range t.movements.Last(pacingWindow) {
		if m.DX > pacingBurstDX || m.DX < -pacingBurstDX {
			s := signOf(m.DX)
			if lastSign != 0 && s != lastSign {
				reversals++
			}
			lastSign = s
		}
	}
	if reversals >= pacingMinReverse {
		return float64(reversals)
	}
	return 0
}

func (t *Tracker) movingSamples(window int) []MovementSample {
	moving := []MovementSample{}
	for _, m := range t.movements.Last(window) {
		if m.Direction != DirStill {
			moving = append(moving, m)
		}
	}
	return moving
}

func (t *Tracker) spinning() float64 {
	moving := t.movingSamples(spinWindow)
	if len(moving) < spinMinSamples {
		return 0
	}
	if len(moving) > spinSamples {
		moving = moving[len(moving)-spinSamples:]
	}
	distinct := map[Direction]bool{}
	for _, m := range moving {
		distinct[m.Direction] = true
	}
	if len(distinct) >= spinMinDistinct {
		return float64(len(distinct))
	}
	return 0
}

func (t *Tracker) bouncing() float64 {
	n := 0
	for _, m := range t.movements.Last(bounceWindow) {
		n += m.VerticalOsc
	}
	if n > bounceMinOsc {
		return float64(n)
	}
	return 0
}

// A decaying confidence that the dog is still, not a boolean
func (t *Tracker) stillnessScore() float64 {
	avg := t.avgSpeed(stillWindow)
	if avg < t.cfg.NoiseFloor {
		return 30 - 3*avg
	}
	return 0
}

func (t *Tracker) spatial() (approaching, retreating float64) {
	a, r := 0, 0
	for _, m := range t.movements.Last(spatialWindow) {
		if m.SizeChange > approachRatio {
			a++
		} else if m.SizeChange < retreatRatio {
			r++
		}
	}
	if a >= spatialMinFrames {
		approaching = float64(a)
	}
	if r >= spatialMinFrames {
		retreating = float64(r)
	}
	return
}

func (t *Tracker) headTilts() float64 {
	n := 0
	for _, m := range t.movements.Last(headTiltWindow) {
		if m.Speed == 0 && (m.AspectDelta > headTiltDelta || m.AspectDelta < -headTiltDelta) {
			n++
		}
	}
	if n >= headTiltMin {
		return float64(n)
	}
	return 0
}

// Front end drops while the width holds. Consecutive bow frames count as one bow.
func (t *Tracker) playBows() float64 {
	boxes := t.smoothed.Last(playBowWindow + playBowLag)
	bows := 0
	inBow := false
	for i := playBowLag; i < len(boxes); i++ {
		a, b := boxes[i-playBowLag], boxes[i]
		bow := a.H > 0 && a.W > 0 && b.H/a.H < playBowHeight && b.W/a.W > playBowWidth
		if bow && !inBow {
			bows++
		}
		inBow = bow
	}
	return float64(bows)
}

func (t *Tracker) jumping() float64 {
	n := 0
	for _, m := range t.movements.Last(jumpWindow) {
		if m.DY < jumpDY && m.Acceleration > jumpAccel {
			n++
		}
	}
	return float64(n)
}

func (t *Tracker) restlessness(postureChanges float64) float64 {
	changes := 0
	moving := t.movingSamples(restlessWindow)
	for i := 1; i < len(moving); i++ {
		if moving[i].Direction != moving[i-1].Direction {
			changes++
		}
	}
	score := float64(changes) + 2*postureChanges
	if score >= restlessMin {
		return score
	}
	return 0
}

func (t *Tracker) tailWag() float64 {
	mv := t.movements.Last(tailWagWindow)
	osc := 0
	speed := 0.0
	for _, m := range mv {
		osc += m.EdgeOsc
		speed += m.Speed
	}
	if len(mv) == 0 || speed/float64(len(mv)) >= tailWagMaxSpeedK*t.cfg.NoiseFloor {
		return 0
	}
	if osc >= tailWagMinOsc {
		return float64(osc)
	}
	return 0
}

func (t *Tracker) postureChanges(window int) int {
	ps := t.postures.Last(window)
	n := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] != ps[i-1] && ps[i-1] != PostureUnknown {
			n++
		}
	}
	return n
}

func (t *Tracker) crouching() float64 {
	n := 0
	for _, p := range t.postures.Last(crouchWindow) {
		if p == PostureCrouch {
			n++
		}
	}
	return float64(n)
}
