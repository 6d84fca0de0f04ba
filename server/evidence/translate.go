// Package evidence turns a reconciled session into a short narrative for the
// owner, with literature citations for each claim.
package evidence

import (
	"fmt"
	"strings"

	"github.com/cyclopcam/pawscan/server/coherence"
	"github.com/cyclopcam/pawscan/server/emotion"
	"github.com/cyclopcam/pawscan/server/energy"
	"github.com/cyclopcam/pawscan/server/motion"
)

// Claim is one statement of the narrative and the literature behind it
type Claim struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"citations"`
}

type Translation struct {
	Headline string         `json:"headline"`
	Feeling  string         `json:"feeling"`
	Needs    []emotion.Need `json:"needs"`
	Evidence []Claim        `json:"evidence"`
	Energy   string         `json:"energy"`
}

// Most actions cited in one translation
const maxActionClaims = 3

var feelings = map[emotion.Emotion]string{
	emotion.Happy:      "content and comfortable",
	emotion.Excited:    "excited and full of energy",
	emotion.Playful:    "in the mood to play",
	emotion.Calm:       "calm and relaxed",
	emotion.Anxious:    "a little anxious",
	emotion.Stressed:   "stressed",
	emotion.Fearful:    "frightened",
	emotion.Aggressive: "defensive, and is giving warning signals",
	emotion.Alert:      "alert and attentive",
	emotion.Sad:        "low or lonely",
	emotion.Curious:    "curious about the surroundings",
}

// Translate builds the owner-facing narrative
func Translate(cr *coherence.CoherentReport, er *emotion.SessionReport, en *energy.Report) Translation {
	if !er.Valid {
		return Translation{
			Headline: "Observing...",
			Feeling:  "Not enough of the session was captured to say how your dog feels",
			Needs:    emotion.NeedsFor(emotion.Unknown, motion.PostureUnknown, motion.Patterns{}),
			Evidence: []Claim{},
			Energy:   energyLine(en),
		}
	}
	e := cr.ValidatedEmotion.Emotion
	t := Translation{
		Headline: fmt.Sprintf("%v: your dog seems %v", cr.BehaviorState.Label, feelings[e]),
		Feeling:  feeling(cr),
		Needs:    emotion.NeedsFor(e, er.Motion.DominantPosture, patternsOf(cr.CleanPatterns)),
		Energy:   energyLine(en),
	}
	t.Evidence = append(t.Evidence, Claim{
		Text:      fmt.Sprintf("%v. %v", cr.BehaviorState.Description, strings.Join(cr.EvidenceChain, "; ")),
		Citations: lookup(stateCitations, string(cr.BehaviorState.State)),
	})
	t.Evidence = append(t.Evidence, Claim{
		Text:      fmt.Sprintf("Overall emotion read as %v", e),
		Citations: lookup(emotionCitations, string(e)),
	})
	n := 0
	for _, ac := range cr.FilteredActions.TopActions {
		if n == maxActionClaims {
			break
		}
		cites := lookup(actionCitations, ac.Action)
		if len(cites) == 0 {
			continue
		}
		a, _ := emotion.ActionByName(ac.Action)
		t.Evidence = append(t.Evidence, Claim{
			Text:      fmt.Sprintf("%v (%v frames)", a.Description, ac.Count),
			Citations: cites,
		})
		n++
	}
	return t
}

func feeling(cr *coherence.CoherentReport) string {
	ve := cr.ValidatedEmotion
	s := fmt.Sprintf("Your dog appears %v", feelings[ve.Emotion])
	if ve.WasOverridden {
		s += fmt.Sprintf(". Moment-to-moment signals suggested %v, but the session as a whole says otherwise", ve.OriginalEmotion)
	}
	return s
}

func energyLine(en *energy.Report) string {
	return fmt.Sprintf("%v (signature %v, total %v)", en.Label, en.Signature, en.Total)
}

func patternsOf(m map[string]float64) motion.Patterns {
	var p motion.Patterns
	for name, v := range m {
		p.Set(name, v)
	}
	return p
}
