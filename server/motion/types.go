// Package motion is the bounding-box tracker. It smooths the detector's box,
// derives per-frame movement, classifies posture with hysteresis, and keeps
// the windowed pattern counters that the scorer reads.
package motion

import (
	"math"
	"time"

	"github.com/cyclopcam/pawscan/pkg/nn"
)

// Box is a bounding box in pixel space, with float precision so that it can be smoothed
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func BoxFromRect(r nn.Rect) Box {
	return Box{X: float64(r.X), Y: float64(r.Y), W: float64(r.Width), H: float64(r.Height)}
}

func (b Box) Rect() nn.Rect {
	return nn.Rect{X: int(math.Round(b.X)), Y: int(math.Round(b.Y)), Width: int(math.Round(b.W)), Height: int(math.Round(b.H))}
}

func (b Box) CenterX() float64 { return b.X + b.W/2 }
func (b Box) CenterY() float64 { return b.Y + b.H/2 }
func (b Box) Area() float64    { return b.W * b.H }

// Aspect is width/height, or zero for a degenerate box
func (b Box) Aspect() float64 {
	if b.H <= 0 {
		return 0
	}
	return b.W / b.H
}

func (b Box) lerp(to Box, alpha float64) Box {
	return Box{
		X: alpha*to.X + (1-alpha)*b.X,
		Y: alpha*to.Y + (1-alpha)*b.Y,
		W: alpha*to.W + (1-alpha)*b.W,
		H: alpha*to.H + (1-alpha)*b.H,
	}
}

// FrameSample is one detection of the dog
type FrameSample struct {
	Time       time.Time `json:"time"`
	Box        Box       `json:"box"`
	Confidence float32   `json:"confidence"`
}

type Direction string

const (
	DirStill     Direction = "still"
	DirRight     Direction = "right"
	DirDownRight Direction = "down-right"
	DirDown      Direction = "down"
	DirDownLeft  Direction = "down-left"
	DirLeft      Direction = "left"
	DirUpLeft    Direction = "up-left"
	DirUp        Direction = "up"
	DirUpRight   Direction = "up-right"
)

// Indexed by round(angle/45deg) mod 8, with image Y growing downwards
var compass = [8]Direction{DirRight, DirDownRight, DirDown, DirDownLeft, DirLeft, DirUpLeft, DirUp, DirUpRight}

func directionOf(dx, dy float64) Direction {
	a := math.Atan2(dy, dx) / (math.Pi / 4)
	i := int(math.Round(a))
	return compass[(i%8+8)%8]
}

// MovementSample is derived from two consecutive smoothed boxes
type MovementSample struct {
	Speed        float64   `json:"speed"` // px/frame, zero below the noise floor
	Direction    Direction `json:"direction"`
	DX           float64   `json:"dx"`
	DY           float64   `json:"dy"`
	SizeChange   float64   `json:"sizeChange"` // area ratio to the previous frame
	AspectRatio  float64   `json:"aspectRatio"`
	AspectDelta  float64   `json:"aspectDelta"`
	VerticalOsc  int       `json:"verticalOsc"`
	EdgeOsc      int       `json:"edgeOsc"`
	Acceleration float64   `json:"acceleration"`
}

func stillMovement(aspect float64) MovementSample {
	return MovementSample{Direction: DirStill, SizeChange: 1, AspectRatio: aspect}
}

type Posture string

const (
	PostureUnknown Posture = "unknown"
	PostureStand   Posture = "stand"
	PostureSit     Posture = "sit"
	PostureDown    Posture = "down"
	PostureCrouch  Posture = "crouch"
)

// Postures in display order
var AllPostures = []Posture{PostureStand, PostureSit, PostureDown, PostureCrouch}

const DetailBegging = "begging"

type PostureState struct {
	Current  Posture `json:"current"`
	Detail   string  `json:"detail,omitempty"` // eg "begging" for a very tall sit
	Raw      Posture `json:"raw"`              // this frame's classification, before hysteresis
	Previous Posture `json:"previous"`
	Changed  bool    `json:"changed"`
}

// Patterns are windowed intensity scores. Zero means "not present".
type Patterns struct {
	Pacing         float64 `json:"pacing"`
	Spinning       float64 `json:"spinning"`
	Bouncing       float64 `json:"bouncing"`
	Stillness      float64 `json:"stillness"`
	Approaching    float64 `json:"approaching"`
	Retreating     float64 `json:"retreating"`
	HeadTilts      float64 `json:"headTilts"`
	PlayBows       float64 `json:"playBows"`
	Jumping        float64 `json:"jumping"`
	Restlessness   float64 `json:"restlessness"`
	TailWagLikely  float64 `json:"tailWagLikely"`
	PostureChanges float64 `json:"postureChanges"`
	Crouching      float64 `json:"crouching"`
}

// Pattern names, in the order that they are reported
var PatternNames = []string{
	"pacing", "spinning", "bouncing", "stillness", "approaching", "retreating", "headTilts",
	"playBows", "jumping", "restlessness", "tailWagLikely", "postureChanges", "crouching",
}

func (p *Patterns) field(name string) *float64 {
	switch name {
	case "pacing":
		return &p.Pacing
	case "spinning":
		return &p.Spinning
	case "bouncing":
		return &p.Bouncing
	case "stillness":
		return &p.Stillness
	case "approaching":
		return &p.Approaching
	case "retreating":
		return &p.Retreating
	case "headTilts":
		return &p.HeadTilts
	case "playBows":
		return &p.PlayBows
	case "jumping":
		return &p.Jumping
	case "restlessness":
		return &p.Restlessness
	case "tailWagLikely":
		return &p.TailWagLikely
	case "postureChanges":
		return &p.PostureChanges
	case "crouching":
		return &p.Crouching
	}
	return nil
}

func (p Patterns) Get(name string) float64 {
	if f := p.field(name); f != nil {
		return *f
	}
	return 0
}

func (p *Patterns) Set(name string, v float64) {
	if f := p.field(name); f != nil {
		*f = v
	}
}

func (p Patterns) Map() map[string]float64 {
	m := make(map[string]float64, len(PatternNames))
	for _, n := range PatternNames {
		m[n] = p.Get(n)
	}
	return m
}

// Result is the tracker's output for one frame
type Result struct {
	Detected bool           `json:"detected"`
	Frames   int            `json:"frames"` // frames in the history, including this one
	Smoothed Box            `json:"smoothed"`
	Movement MovementSample `json:"movement"`
	AvgSpeed float64        `json:"avgSpeed"` // mean speed over the locomotion window
	Posture  PostureState   `json:"posture"`
	Patterns Patterns       `json:"patterns"`
}

// Summary is the whole-session view of the tracker
type Summary struct {
	Frames              int                 `json:"frames"`
	PostureDistribution map[Posture]float64 `json:"postureDistribution"` // fractions, summing to 1
	DominantPosture     Posture             `json:"dominantPosture"`
	AvgSpeed            float64             `json:"avgSpeed"`
	AvgStillness        float64             `json:"avgStillness"`
	PatternAverages     map[string]float64  `json:"patternAverages"`
}

func (s *Summary) PostureFraction(p Posture) float64 {
	return s.PostureDistribution[p]
}
