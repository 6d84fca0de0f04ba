package vocal

import (
	"time"

	"github.com/cyclopcam/pawscan/pkg/gen"
	"github.com/cyclopcam/pawscan/pkg/stats"
	"gonum.org/v1/gonum/stat"
)

// Bark subtype and contour thresholds
const (
	shortBarkFrames     = 8
	highFrequencyBark   = 500.0
	highPeakBark        = 0.25
	lowFrequencyBark    = 300.0
	demandPitchStd      = 60.0
	demandBarkLookback  = 5
	contourThresholdHz  = 30.0
	contourMinSamples   = 3
	intensityFullScale  = 0.3 // RMS that maps to intensity 100
	minVocalizingFrames = 5
)

// An event that is still accumulating
type openEvent struct {
	startFrame int
	lastFrame  int // last bark/yelp frame
	start      time.Time
	end        time.Time
	freqs      []float64
	peak       float64
	midSum     float64
	barks      int
	yelps      int
	quiet      int // consecutive frames that were not bark/yelp
}

func (c *Classifier) trackEvents(res *FrameResult) {
	if res.Type.isBarkLike() {
		if c.open == nil {
			c.open = &openEvent{startFrame: res.Frame, start: res.Time}
		}
		e := c.open
		e.lastFrame = res.Frame
		e.end = res.Time
		e.freqs = append(e.freqs, res.Features.Frequency)
		e.peak = max(e.peak, res.Features.RMS)
		e.midSum += res.Features.Mid
		e.quiet = 0
		if res.Type == TypeBark {
			e.barks++
		} else {
			e.yelps++
		}
		return
	}
	if c.open != nil {
		c.open.quiet++
		if c.open.quiet >= c.cfg.SilenceFramesToClose {
			c.closeEvent()
		}
	}
}

func (c *Classifier) closeEvent() {
	e := c.open
	c.open = nil
	n := gen.Max(1, len(e.freqs))
	ev := BarkEvent{
		StartFrame:    e.startFrame,
		EndFrame:      e.lastFrame,
		Duration:      gen.Max(1, e.lastFrame-e.startFrame+1),
		Start:         e.start,
		End:           e.end,
		PeakAmplitude: e.peak,
		Frequency:     stats.Mean(e.freqs),
		Type:          TypeBark,
		Tonality:      e.midSum / float64(n),
		Contour:       contourOf(e.freqs),
	}
	if e.yelps > e.barks {
		ev.Type = TypeYelp
	}
	if !c.lastEventEnd.IsZero() {
		ev.InterBarkMs = float64(ev.Start.Sub(c.lastEventEnd)) / float64(time.Millisecond)
	}
	ev.Subtype = c.subtypeOf(&ev)
	c.events.Add(ev)
	c.totalEvents++
	c.lastEventEnd = ev.End
}

func (c *Classifier) subtypeOf(ev *BarkEvent) BarkSubtype {
	short := ev.Duration <= shortBarkFrames
	switch {
	case short && ev.Frequency > highFrequencyBark && ev.PeakAmplitude > highPeakBark:
		return BarkAlert
	case short && ev.Frequency > highFrequencyBark:
		return BarkPlay
	case ev.Frequency < lowFrequencyBark:
		return BarkAggressive
	}
	// Repetitive barks at a consistent pitch are demanding
	recent := c.events.Last(demandBarkLookback - 1)
	freqs := make([]float64, 0, demandBarkLookback)
	for _, r := range recent {
		freqs = append(freqs, r.Frequency)
	}
	freqs = append(freqs, ev.Frequency)
	if len(freqs) >= 2 && stat.StdDev(freqs, nil) < demandPitchStd {
		return BarkDemand
	}
	return BarkAlert
}

func contourOf(freqs []float64) Contour {
	if len(freqs) < contourMinSamples {
		return ContourFlat
	}
	third := len(freqs) / 3
	first := stats.Mean(freqs[:third])
	last := stats.Mean(freqs[len(freqs)-third:])
	switch {
	case last-first > contourThresholdHz:
		return ContourRising
	case first-last > contourThresholdHz:
		return ContourFalling
	}
	return ContourFlat
}

// Events returns the finalized bark events that are still in the history, oldest first
func (c *Classifier) Events() []BarkEvent {
	return c.events.All()
}

// QuickAssess summarizes the last FrameHistory frames and the rate window.
func (c *Classifier) QuickAssess(now time.Time) Assessment {
	a := Assessment{AudioAvailable: true, Type: TypeSilent}
	frames := c.frames.All()
	if len(frames) == 0 {
		return a
	}

	vocal := []Type{}
	var pitchSum, rmsSum float64
	for _, f := range frames {
		if f.Type.IsVocalization() {
			vocal = append(vocal, f.Type)
			pitchSum += f.Features.Frequency
			rmsSum += f.Features.RMS
		}
	}
	latest := frames[len(frames)-1]
	if len(vocal) > 0 {
		a.Type, _ = gen.Mode(vocal)
		a.AvgPitch = pitchSum / float64(len(vocal))
		a.Intensity = gen.Clamp(100*rmsSum/float64(len(vocal))/intensityFullScale, 0, 100)
	} else if latest.Type == TypeAmbient {
		a.Type = TypeAmbient
	}
	a.IsVocalizing = latest.Type.IsVocalization() || len(vocal) >= minVocalizingFrames

	// Rate over the window, or over the session if it is younger than the window
	window := gen.Clamp(now.Sub(c.firstFrame), 5*time.Second, c.cfg.RateWindow)
	from := now.Add(-window)
	inWindow := 0
	var ibiSum, tonalSum float64
	ibiN := 0
	for _, e := range c.events.All() {
		if e.Start.Before(from) {
			continue
		}
		inWindow++
		tonalSum += e.Tonality
		if e.InterBarkMs > 0 {
			ibiSum += e.InterBarkMs
			ibiN++
		}
	}
	barks := inWindow
	if c.open != nil && !c.open.start.Before(from) {
		barks++
	}
	a.Rate = float64(barks) * float64(time.Minute) / float64(window)
	if ibiN > 0 {
		a.AvgInterval = ibiSum / float64(ibiN)
	}
	if inWindow > 0 {
		a.AvgTonality = tonalSum / float64(inWindow)
	} else if latest.Type.IsVocalization() {
		a.AvgTonality = latest.Features.Mid
	}
	return a
}

// FinalizeAudioSession force-closes any open bark event, exactly as if silence
// had been observed, and returns the session report.
func (c *Classifier) FinalizeAudioSession() Report {
	if c.open != nil {
		c.closeEvent()
	}
	return c.Report()
}

// Report builds the bark session report from the current state
func (c *Classifier) Report() Report {
	r := NoAudioReport()
	r.AudioAvailable = true
	r.Frames = c.classified
	if c.classified < c.cfg.MinReportFrames {
		return r
	}
	r.Valid = true

	vocalFrames := 0
	for _, t := range VocalTypes {
		if n := c.typeCounts[t]; n > 0 {
			r.Vocalizations.TypeDistribution[t] = n
			vocalFrames += n
		}
	}
	r.VocalFraction = float64(vocalFrames) / float64(c.classified)
	if vocalFrames > 0 {
		r.Vocalizations.Intensity = gen.Clamp(100*c.vocalRMSSum/float64(vocalFrames)/intensityFullScale, 0, 100)
	}

	events := c.events.All()
	r.Events = events
	r.Barks.Total = c.totalEvents
	minutes := c.lastFrame.Sub(c.firstFrame).Minutes()
	if minutes > 0 {
		r.Barks.Rate = float64(c.totalEvents) / minutes
	}
	subtypes := []BarkSubtype{}
	freqs := []float64{}
	durations := []int{}
	for _, e := range events {
		r.Barks.TypeDistribution[e.Subtype]++
		subtypes = append(subtypes, e.Subtype)
		freqs = append(freqs, e.Frequency)
		durations = append(durations, e.Duration)
	}
	r.Barks.AvgFrequency = stats.Mean(freqs)
	r.Barks.AvgDuration = stats.Mean(durations)
	r.Barks.DominantType, _ = gen.Mode(subtypes)
	return r
}
