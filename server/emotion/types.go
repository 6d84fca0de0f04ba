// Package emotion turns the tracker and vocal outputs into a primary action,
// an emotion score vector, and the needs that follow from them.
package emotion

import (
	"encoding/json"
	"fmt"

	"github.com/cyclopcam/pawscan/server/motion"
)

type Emotion string

const (
	Happy      Emotion = "happy"
	Excited    Emotion = "excited"
	Playful    Emotion = "playful"
	Calm       Emotion = "calm"
	Anxious    Emotion = "anxious"
	Stressed   Emotion = "stressed"
	Fearful    Emotion = "fearful"
	Aggressive Emotion = "aggressive"
	Alert      Emotion = "alert"
	Sad        Emotion = "sad"
	Curious    Emotion = "curious"
	Unknown    Emotion = "unknown"
)

// The closed set of emotions. This order breaks ties.
var Emotions = []Emotion{Happy, Excited, Playful, Calm, Anxious, Stressed, Fearful, Aggressive, Alert, Sad, Curious}

func (e Emotion) IsPositive() bool {
	switch e {
	case Happy, Excited, Playful, Calm, Curious:
		return true
	}
	return false
}

func (e Emotion) IsNegative() bool {
	switch e {
	case Anxious, Stressed, Fearful, Aggressive, Sad:
		return true
	}
	return false
}

// Scores maps every emotion to its score for one frame
type Scores map[Emotion]float64

func newScores() Scores {
	s := make(Scores, len(Emotions))
	for _, e := range Emotions {
		s[e] = 0
	}
	return s
}

// Ranked returns the best and runner-up emotions. Ties go to the earlier emotion in Emotions.
func (s Scores) Ranked() (first, second Emotion) {
	first, second = Emotions[0], Emotions[1]
	if s[second] > s[first] {
		first, second = second, first
	}
	for _, e := range Emotions[2:] {
		switch {
		case s[e] > s[first]:
			first, second = e, first
		case s[e] > s[second]:
			second = e
		}
	}
	return
}

type Category string

const (
	CatVocalization Category = "vocalization"
	CatJumping      Category = "jumping"
	CatPlay         Category = "play"
	CatStress       Category = "stress"
	CatBody         Category = "body"
	CatTransition   Category = "transition"
	CatAttention    Category = "attention"
	CatPattern      Category = "pattern"
	CatSpatial      Category = "spatial"
	CatLocomotion   Category = "locomotion"
	CatPosture      Category = "posture"
	CatTail         Category = "tail"
	CatRest         Category = "rest"
	CatDirection    Category = "direction"
)

// Category priority for choosing the primary action, highest first
var CategoryPriority = []Category{
	CatVocalization, CatJumping, CatPlay, CatStress, CatBody, CatTransition, CatAttention,
	CatPattern, CatSpatial, CatLocomotion, CatPosture, CatTail, CatRest, CatDirection,
}

const ActionObserving = "observing"

type Action struct {
	Name        string   `json:"action"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
}

type Need struct {
	Need      string `json:"need"`
	Urgency   string `json:"urgency"` // low, medium or high
	Rationale string `json:"rationale"`
}

type Movement struct {
	AvgSpeed  float64          `json:"avgSpeed"`
	Direction motion.Direction `json:"direction"`
}

// DataQuality describes which channels contributed to an assessment
type DataQuality string

const (
	QualityMultimodal   DataQuality = "multimodal"           // box, pixels and audio
	QualityVisualAudio  DataQuality = "visual-audio"         // box and audio
	QualityVisualOnly   DataQuality = "visual-only"          // box, with or without pixels
	QualityLimitedEarly DataQuality = "limited-visual-early" // visual-only and still warming up
)

// Assessment is the per-frame output of the scorer
type Assessment struct {
	PrimaryEmotion   Emotion            `json:"primaryEmotion"`
	SecondaryEmotion Emotion            `json:"secondaryEmotion,omitempty"`
	Confidence       float64            `json:"confidence"` // 0..100
	Intensity        float64            `json:"intensity"`  // 0..100
	Scores           Scores             `json:"scores"`
	Patterns         map[string]float64 `json:"patterns"`
	Posture          motion.Posture     `json:"posture"`
	Movement         Movement           `json:"movement"`
	DetectedSignals  []string           `json:"detectedSignals"`
	CurrentAction    string             `json:"currentAction"`
	ActiveActions    []Action           `json:"activeActions"`
	Needs            []Need             `json:"needs"`
	Quality          DataQuality        `json:"quality"`
}

// ActionCount marshals as a two-element JSON array: [action, count]
type ActionCount struct {
	Action string
	Count  int
}

func (a ActionCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{a.Action, a.Count})
}

func (a *ActionCount) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("action count must have 2 elements, not %v", len(raw))
	}
	if err := json.Unmarshal(raw[0], &a.Action); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &a.Count)
}

type ActionSummary struct {
	Primary            string        `json:"primary"`
	TopActions         []ActionCount `json:"topActions"`
	TotalUniqueActions int           `json:"totalUniqueActions"`
}

// SessionReport is the whole-session view of the scorer
type SessionReport struct {
	Valid               bool            `json:"valid"`
	Frames              int             `json:"frames"`
	DominantEmotion     Emotion         `json:"dominantEmotion"`
	EmotionDistribution map[Emotion]int `json:"emotionDistribution"` // percent, sums to 100
	Confidence          float64         `json:"confidence"`
	Stability           float64         `json:"stability"` // 0..100
	Wellbeing           float64         `json:"wellbeing"` // 0..100
	ActionSummary       ActionSummary   `json:"actionSummary"`
	Signals             []string        `json:"signals"` // seen in at least MinSignalShare of scored frames, most frequent first
	Motion              motion.Summary  `json:"motion"`
}
