// Package energy computes the 3-6-9 energy signature of a session.
// The weights are fixed: movement 3, vocal 6, emotional 9.
package energy

import (
	"math"

	"github.com/cyclopcam/pawscan/pkg/gen"
	"github.com/cyclopcam/pawscan/server/emotion"
	"github.com/cyclopcam/pawscan/server/vocal"
)

type Signature string

const (
	SignatureCreation     Signature = "3"
	SignatureHarmony      Signature = "6"
	SignatureCompletion   Signature = "9"
	SignatureTransitional Signature = "transitional"
)

var signatureLabels = map[Signature]string{
	SignatureCreation:     "Creative, expressive energy",
	SignatureHarmony:      "Balanced, harmonious energy",
	SignatureCompletion:   "Settled, complete energy",
	SignatureTransitional: "Energy in transition",
}

// Arousal of each emotion, 0..100
var arousal = map[emotion.Emotion]float64{
	emotion.Happy:      60,
	emotion.Excited:    90,
	emotion.Playful:    80,
	emotion.Calm:       20,
	emotion.Anxious:    70,
	emotion.Stressed:   75,
	emotion.Fearful:    70,
	emotion.Aggressive: 85,
	emotion.Alert:      55,
	emotion.Sad:        25,
	emotion.Curious:    50,
}

func Arousal(e emotion.Emotion) float64 {
	return arousal[e]
}

type Report struct {
	Movement  float64   `json:"movement"`  // 0..100
	Vocal     float64   `json:"vocal"`     // 0..100
	Emotional float64   `json:"emotional"` // 0..100
	Total     int       `json:"total"`
	Root      int       `json:"root"`
	Signature Signature `json:"signature"`
	Label     string    `json:"label"`
	Aligned   bool      `json:"aligned"`
}

// Compute builds the energy report from the emotion and bark session reports
func Compute(er emotion.SessionReport, vr vocal.Report) Report {
	voc := 0.0
	if vr.AudioAvailable {
		voc = vr.Vocalizations.Intensity
	}
	return compose(er.Motion.AvgSpeed, voc, er.DominantEmotion)
}

// ForFrame is the live version, from one frame's assessments
func ForFrame(a *emotion.Assessment, va *vocal.Assessment) Report {
	voc := 0.0
	if va.AudioAvailable && va.IsVocalizing {
		voc = va.Intensity
	}
	return compose(a.Movement.AvgSpeed, voc, a.PrimaryEmotion)
}

func compose(avgSpeed, voc float64, e emotion.Emotion) Report {
	r := Report{
		Movement:  gen.Clamp(4*avgSpeed, 0, 100),
		Vocal:     gen.Clamp(voc, 0, 100),
		Emotional: Arousal(e),
	}
	r.Total = int(math.Round((3*r.Movement + 6*r.Vocal + 9*r.Emotional) / 18))
	r.Root = DigitalRoot(r.Total)
	switch r.Root {
	case 3:
		r.Signature = SignatureCreation
	case 6:
		r.Signature = SignatureHarmony
	case 9:
		r.Signature = SignatureCompletion
	default:
		r.Signature = SignatureTransitional
	}
	r.Label = signatureLabels[r.Signature]
	r.Aligned = r.Root > 0 && r.Root%3 == 0
	return r
}

// DigitalRoot repeatedly sums the decimal digits of n. The root of 0 is 0.
func DigitalRoot(n int) int {
	if n <= 0 {
		return 0
	}
	return 1 + (n-1)%9
}
