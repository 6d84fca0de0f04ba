package scan

import (
	"errors"
	"time"

	"github.com/bmharper/cimg/v2"
	"github.com/cyclopcam/pawscan/pkg/nn"
	"github.com/cyclopcam/pawscan/server/coherence"
	"github.com/cyclopcam/pawscan/server/emotion"
	"github.com/cyclopcam/pawscan/server/energy"
	"github.com/cyclopcam/pawscan/server/evidence"
	"github.com/cyclopcam/pawscan/server/motion"
	"github.com/cyclopcam/pawscan/server/vision"
	"github.com/cyclopcam/pawscan/server/vocal"
)

var (
	ErrSessionStopped = errors.New("session is stopped")
	ErrOutOfOrder     = errors.New("frame is not newer than the previous frame")
)

// FrameInput is one tick of the frame source
type FrameInput struct {
	Time      time.Time           `json:"time"`
	Detection *nn.DetectionResult `json:"detection,omitempty"` // nil when the detector did not run or found nothing
	Image     *cimg.Image         `json:"-"`                   // optional pixels for the pixel analyzer
	Audio     []float32           `json:"audio,omitempty"`     // mono PCM received since the previous tick
}

// FrameOutput is everything the pipeline derived from one tick
type FrameOutput struct {
	SessionID  string             `json:"sessionID"`
	Frame      int                `json:"frame"`
	Time       time.Time          `json:"time"`
	Box        *nn.Rect           `json:"box,omitempty"`
	Persisted  bool               `json:"persisted"` // Box is the last known box, re-used for a missed detection
	Motion     motion.Result      `json:"motion"`
	Pixels     vision.Sample      `json:"pixels"`
	Vocal      vocal.Assessment   `json:"vocal"`
	Assessment emotion.Assessment `json:"assessment"`
	Energy     energy.Report      `json:"energy"`
}

// A compact per-frame record for the timeline chart
type TimelinePoint struct {
	Seconds    float64         `json:"seconds"`
	Detected   bool            `json:"detected"`
	Emotion    emotion.Emotion `json:"emotion"`
	Confidence float64         `json:"confidence"`
	Speed      float64         `json:"speed"`
	Posture    motion.Posture  `json:"posture"`
	Vocal      bool            `json:"vocal"`
	RMS        float64         `json:"rms"`
}

// Result is the frozen outcome of a stopped session
type Result struct {
	ID          string                   `json:"id"`
	Started     time.Time                `json:"started"`
	Stopped     time.Time                `json:"stopped"`
	Frames      int                      `json:"frames"`
	Emotion     emotion.SessionReport    `json:"emotion"`
	Barks       vocal.Report             `json:"barks"`
	Energy      energy.Report            `json:"energy"`
	Vision      vision.Summary           `json:"vision"`
	Coherent    coherence.CoherentReport `json:"coherent"`
	Translation evidence.Translation     `json:"translation"`
	Timeline    []TimelinePoint          `json:"timeline"`
}

// Duration of the capture
func (r *Result) Duration() time.Duration {
	return r.Stopped.Sub(r.Started)
}
