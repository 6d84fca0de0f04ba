package emotion

import (
	"math"
	"sort"

	"github.com/cyclopcam/pawscan/pkg/gen"
	"github.com/cyclopcam/pawscan/server/motion"
)

// Report builds the session report. ms is the tracker's session summary.
// With too few frames the report is a placeholder with an unknown emotion.
func (s *Scorer) Report(ms motion.Summary) SessionReport {
	r := SessionReport{
		Frames:              s.frames,
		DominantEmotion:     Unknown,
		EmotionDistribution: map[Emotion]int{},
		ActionSummary:       ActionSummary{Primary: ActionObserving, TopActions: []ActionCount{}},
		Signals:             []string{},
		Motion:              ms,
	}
	scored := 0
	for _, n := range s.emotionCounts {
		scored += n
	}
	if s.frames < s.cfg.MinReportFrames || scored == 0 {
		return r
	}
	r.Valid = true
	r.EmotionDistribution = distribution(s.emotionCounts)
	r.Confidence = s.confidence.Average()

	best := 0
	for _, e := range Emotions {
		if s.emotionCounts[e] > best {
			best = s.emotionCounts[e]
			r.DominantEmotion = e
		}
	}
	if scored > 1 {
		r.Stability = 100 * float64(s.sameAsPrev) / float64(scored-1)
	}
	pos, neg := 0, 0
	for e, pct := range r.EmotionDistribution {
		if e.IsPositive() {
			pos += pct
		} else if e.IsNegative() {
			neg += pct
		}
	}
	r.Wellbeing = gen.Clamp(50+0.5*float64(pos)-0.5*float64(neg), 0, 100)
	r.ActionSummary = s.actionSummary()
	for _, sc := range TopActions(s.signalCounts, len(s.signalCounts)) {
		if float64(sc.Count) >= s.cfg.MinSignalShare*float64(scored) {
			r.Signals = append(r.Signals, sc.Action)
		}
	}
	return r
}

// Largest-remainder percentages, so that the result sums to exactly 100
func distribution(counts map[Emotion]int) map[Emotion]int {
	total := 0
	for _, n := range counts {
		total += n
	}
	out := map[Emotion]int{}
	if total == 0 {
		return out
	}
	type rem struct {
		e    Emotion
		frac float64
		rank int
	}
	rems := []rem{}
	assigned := 0
	for i, e := range Emotions {
		n := counts[e]
		if n == 0 {
			continue
		}
		exact := 100 * float64(n) / float64(total)
		floor := int(math.Floor(exact))
		out[e] = floor
		assigned += floor
		rems = append(rems, rem{e, exact - float64(floor), i})
	}
	sort.SliceStable(rems, func(i, j int) bool {
		if rems[i].frac != rems[j].frac {
			return rems[i].frac > rems[j].frac
		}
		return rems[i].rank < rems[j].rank
	})
	for i := 0; assigned < 100; i++ {
		out[rems[i%len(rems)].e]++
		assigned++
	}
	return out
}

func (s *Scorer) actionSummary() ActionSummary {
	sum := ActionSummary{Primary: ActionObserving, TotalUniqueActions: len(s.actionCounts)}
	best := 0
	for name, n := range s.primaryActions {
		if n > best || (n == best && name < sum.Primary) {
			best = n
			sum.Primary = name
		}
	}
	sum.TopActions = TopActions(s.actionCounts, s.cfg.TopActions)
	return sum
}

// TopActions ranks action counts, highest first, ties by name
func TopActions(counts map[string]int, n int) []ActionCount {
	all := make([]ActionCount, 0, len(counts))
	for name, c := range counts {
		all = append(all, ActionCount{Action: name, Count: c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].Action < all[j].Action
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}
