// Package vision measures motion from the pixels inside the dog's bounding box.
// It is a second, finer-grained motion channel next to the box tracker, and it
// can see things the box cannot, such as trembling or a wagging tail.
package vision

type BodyState string

const (
	BodyUnknown      BodyState = "unknown"
	BodyVeryActive   BodyState = "very-active"
	BodyActive       BodyState = "active"
	BodyTense        BodyState = "tense"
	BodyWagging      BodyState = "wagging"
	BodyVibrating    BodyState = "vibrating"
	BodyVeryStill    BodyState = "very-still"
	BodyCalm         BodyState = "calm"
	BodySlightMotion BodyState = "slight-motion"
)

type HeadActivity string

const (
	HeadUnknown HeadActivity = "unknown"
	HeadActive  HeadActivity = "head-active"
	HeadMoving  HeadActivity = "head-moving"
	HeadStill   HeadActivity = "head-still"
)

type MotionLevel string

const (
	MotionUnknown  MotionLevel = "unknown"
	MotionNearZero MotionLevel = "near-zero"
	MotionLow      MotionLevel = "low"
	MotionModerate MotionLevel = "moderate"
	MotionHigh     MotionLevel = "high"
)

// Number of zones in the 3x3 grid
const NumZones = 9

// Sample is the pixel analysis of one frame. Overall, Micro and Macro are smoothed.
type Sample struct {
	Valid   bool              `json:"valid"`
	Overall float64           `json:"overall"` // mean absolute luminance change
	Micro   float64           `json:"micro"`   // fraction of pixels with a micro-vibration change
	Macro   float64           `json:"macro"`   // fraction of pixels with a large change
	Zones   [NumZones]float64 `json:"zones"`   // row-major mean change per zone
	TailWag int               `json:"tailWag"` // oscillations in the edge zones
	Tension float64           `json:"tension"` // 0..1
	Head    HeadActivity      `json:"head"`
	Body    BodyState         `json:"body"`
}

func neutralSample() Sample {
	return Sample{Head: HeadUnknown, Body: BodyUnknown}
}

// Summary is the whole-session view of the pixel channel
type Summary struct {
	Valid             bool                  `json:"valid"`
	Samples           int                   `json:"samples"`
	AvgOverall        float64               `json:"avgOverall"`
	AvgMicro          float64               `json:"avgMicro"`
	AvgMacro          float64               `json:"avgMacro"`
	BodyStates        map[BodyState]float64 `json:"bodyStates"` // fractions
	DominantBodyState BodyState             `json:"dominantBodyState"`
	MotionLevel       MotionLevel           `json:"motionLevel"`
	TailWagFraction   float64               `json:"tailWagFraction"`
	MaxTension        float64               `json:"maxTension"`
	AvgTension        float64               `json:"avgTension"`
}
