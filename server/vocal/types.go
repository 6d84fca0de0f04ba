// Package vocal classifies dog vocalizations from a mono PCM stream.
// It calibrates against the room's noise, gates on voice activity, runs a
// spectral decision tree, and tracks discrete bark events.
package vocal

import (
	"errors"
	"time"
)

// ErrAudioUnavailable is returned when audio cannot be opened. Callers are
// expected to continue in visual-only mode.
var ErrAudioUnavailable = errors.New("audio unavailable")

type Type string

const (
	TypeCalibrating Type = "calibrating"
	TypeSilent      Type = "silent"
	TypeAmbient     Type = "ambient" // real sound, but not a dog vocalization
	TypeGrowl       Type = "growl"
	TypeWhine       Type = "whine"
	TypeHowl        Type = "howl"
	TypeBark        Type = "bark"
	TypeYelp        Type = "yelp"
)

// Vocalization types in reporting order
var VocalTypes = []Type{TypeBark, TypeGrowl, TypeWhine, TypeHowl, TypeYelp}

// IsVocalization is true for the dog sounds, and false for silence, ambient noise and calibration
func (t Type) IsVocalization() bool {
	switch t {
	case TypeGrowl, TypeWhine, TypeHowl, TypeBark, TypeYelp:
		return true
	}
	return false
}

func (t Type) isBarkLike() bool {
	return t == TypeBark || t == TypeYelp
}

// Features of one analysis window. Band values are shares of the 80-4000 Hz energy.
type Features struct {
	RMS       float64 `json:"rms"`
	Low       float64 `json:"low"`
	Mid       float64 `json:"mid"`
	High      float64 `json:"high"`
	Tilt      float64 `json:"tilt"` // low - high
	Centroid  float64 `json:"centroid"`
	Frequency float64 `json:"frequency"` // dominant, within the canine vocal range
	Onset     float64 `json:"onset"`     // max RMS rise over the onset window, relative to current RMS
	PitchStd  float64 `json:"pitchStd"`  // frequency modulation over recent active frames
}

// FrameResult is the classification of one audio frame
type FrameResult struct {
	Frame        int       `json:"frame"`
	Time         time.Time `json:"time"`
	Type         Type      `json:"type"`
	Active       bool      `json:"active"`
	ActiveFrames int       `json:"activeFrames"` // consecutive voice-active frames, including this one
	Features     Features  `json:"features"`
}

type BarkSubtype string

const (
	BarkAlert      BarkSubtype = "alert"
	BarkPlay       BarkSubtype = "play"
	BarkAggressive BarkSubtype = "aggressive"
	BarkDemand     BarkSubtype = "demand"
)

type Contour string

const (
	ContourRising  Contour = "rising"
	ContourFalling Contour = "falling"
	ContourFlat    Contour = "flat"
)

// BarkEvent is one finalized bark or yelp. Immutable once finalized.
type BarkEvent struct {
	StartFrame    int         `json:"startFrame"`
	EndFrame      int         `json:"endFrame"`
	Duration      int         `json:"duration"` // frames
	Start         time.Time   `json:"start"`
	End           time.Time   `json:"end"`
	PeakAmplitude float64     `json:"peakAmplitude"`
	Frequency     float64     `json:"frequency"`
	Type          Type        `json:"type"`
	Subtype       BarkSubtype `json:"subtype"`
	InterBarkMs   float64     `json:"interBarkMs"` // zero for the first event of a session
	Contour       Contour     `json:"contour"`
	Tonality      float64     `json:"tonality"`
}

// Assessment is the real-time vocal signal consumed by the scorer
type Assessment struct {
	AudioAvailable bool    `json:"audioAvailable"`
	IsVocalizing   bool    `json:"isVocalizing"`
	Type           Type    `json:"type"`        // dominant recent vocalization, or silent/ambient
	Rate           float64 `json:"rate"`        // barks per minute
	AvgPitch       float64 `json:"avgPitch"`    // Hz
	AvgInterval    float64 `json:"avgInterval"` // ms between bark events
	AvgTonality    float64 `json:"avgTonality"`
	Intensity      float64 `json:"intensity"` // 0..100
}

// Assessment of a session without audio
func NoAudio() Assessment {
	return Assessment{Type: TypeSilent}
}

type BarkStats struct {
	Total            int                 `json:"total"`
	Rate             float64             `json:"rate"`         // per minute over the session
	AvgFrequency     float64             `json:"avgFrequency"` // Hz
	AvgDuration      float64             `json:"avgDuration"`  // frames
	DominantType     BarkSubtype         `json:"dominantType"`
	TypeDistribution map[BarkSubtype]int `json:"typeDistribution"`
}

type VocalizationStats struct {
	TypeDistribution map[Type]int `json:"typeDistribution"` // frames per vocalization type
	Intensity        float64      `json:"intensity"`        // 0..100
}

// Report is the bark session report
type Report struct {
	Valid          bool              `json:"valid"`
	AudioAvailable bool              `json:"audioAvailable"`
	Frames         int               `json:"frames"`        // classified frames, after calibration
	VocalFraction  float64           `json:"vocalFraction"` // fraction of classified frames that were vocalizations
	Barks          BarkStats         `json:"barks"`
	Vocalizations  VocalizationStats `json:"vocalizations"`
	Events         []BarkEvent       `json:"events"`
}

// Report of a session without audio
func NoAudioReport() Report {
	return Report{
		Barks:         BarkStats{TypeDistribution: map[BarkSubtype]int{}},
		Vocalizations: VocalizationStats{TypeDistribution: map[Type]int{}},
		Events:        []BarkEvent{},
	}
}
