package vocal

import (
	"fmt"
	"time"

	"github.com/cyclopcam/pawscan/pkg/dsp"
	"github.com/cyclopcam/pawscan/pkg/history"
	"gonum.org/v1/gonum/stat"
)

const (
	onsetWindow  = 5  // RMS values considered for onset sharpness
	pitchHistory = 20 // active frames considered for frequency modulation
)

// Classifier owns the audio state of one capture session.
// A Classifier is not safe for concurrent use.
type Classifier struct {
	cfg      Config
	analyzer *dsp.Analyzer
	ring     *sampleRing
	window   []float32

	frame        int // frames processed, including calibration
	baselineSum  float64
	baseline     float64
	activeFrames int
	rmsHistory   *history.Ring[float64]
	pitches      *history.Ring[float64]
	frames       *history.Ring[FrameResult]

	open   *openEvent
	events *history.Ring[BarkEvent]

	// Whole-session accumulators
	firstFrame   time.Time
	lastFrame    time.Time
	classified   int
	typeCounts   map[Type]int
	vocalRMSSum  float64
	totalEvents  int
	lastEventEnd time.Time
}

// NewClassifier validates the audio format. An unusable format is reported as ErrAudioUnavailable.
func NewClassifier(cfg Config) (*Classifier, error) {
	if cfg.SampleRate < 2*int(highBandHigh) {
		return nil, fmt.Errorf("%w: sample rate %v Hz cannot represent the %v Hz band", ErrAudioUnavailable, cfg.SampleRate, highBandHigh)
	}
	if cfg.FFTSize < 256 || cfg.FFTSize&(cfg.FFTSize-1) != 0 {
		return nil, fmt.Errorf("%w: FFT size %v must be a power of 2, at least 256", ErrAudioUnavailable, cfg.FFTSize)
	}
	c := &Classifier{
		cfg:      cfg,
		analyzer: dsp.NewAnalyzer(cfg.SampleRate, cfg.FFTSize),
		ring:     newSampleRing(max(cfg.FFTSize, cfg.SampleRate*cfg.RingSeconds)),
		window:   make([]float32, cfg.FFTSize),
	}
	c.Reset()
	return c, nil
}

func (c *Classifier) Config() Config {
	return c.cfg
}

// Reset returns the classifier to the state of a newly constructed one
func (c *Classifier) Reset() {
	c.ring.reset()
	c.frame = 0
	c.baselineSum = 0
	c.baseline = 0
	c.activeFrames = 0
	c.rmsHistory = history.NewRing[float64](onsetWindow)
	c.pitches = history.NewRing[float64](pitchHistory)
	c.frames = history.NewRing[FrameResult](c.cfg.FrameHistory)
	c.open = nil
	c.events = history.NewRing[BarkEvent](c.cfg.BarkHistory)
	c.firstFrame = time.Time{}
	c.lastFrame = time.Time{}
	c.classified = 0
	c.typeCounts = map[Type]int{}
	c.vocalRMSSum = 0
	c.totalEvents = 0
	c.lastEventEnd = time.Time{}
}

func (c *Classifier) Baseline() float64 {
	return c.baseline
}

func (c *Classifier) Calibrated() bool {
	return c.frame >= c.cfg.BaselineFrames
}

// PushSamples appends mono PCM to the audio ring
func (c *Classifier) PushSamples(samples []float32) {
	c.ring.write(samples)
}

// ProcessAudioFrame analyzes the newest FFTSize samples of the ring.
// A failure inside the analysis is treated as no signal this frame.
func (c *Classifier) ProcessAudioFrame(now time.Time) (res FrameResult) {
	defer func() {
		if r := recover(); r != nil {
			res = FrameResult{Frame: c.frame, Time: now, Type: TypeSilent}
		}
	}()

	if c.firstFrame.IsZero() {
		c.firstFrame = now
	}
	c.lastFrame = now
	samples := c.ring.latest(c.window)
	rms := dsp.RMS(samples)
	res = c.classifyFrame(now, samples, rms)
	c.frame++
	c.frames.Add(res)
	c.trackEvents(&res)
	return
}

func (c *Classifier) classifyFrame(now time.Time, samples []float32, rms float64) FrameResult {
	res := FrameResult{Frame: c.frame, Time: now, Features: Features{RMS: rms}}
	c.rmsHistory.Add(rms)

	if c.frame < c.cfg.BaselineFrames {
		c.baselineSum += rms
		c.baseline = c.baselineSum / float64(c.frame+1)
		res.Type = TypeCalibrating
		return res
	}

	c.classified++
	threshold := max(c.cfg.FixedThreshold, c.cfg.BaselineMultiplier*c.baseline)
	if rms <= threshold {
		c.activeFrames = 0
		c.pitches.Clear()
		res.Type = TypeSilent
		c.typeCounts[res.Type]++
		return res
	}
	c.activeFrames++
	res.Active = true
	res.ActiveFrames = c.activeFrames

	if rms < c.cfg.MinRMS || rms < c.cfg.AmbientMultiplier*c.baseline {
		res.Type = TypeAmbient
		c.typeCounts[res.Type]++
		return res
	}

	res.Features = c.features(samples, rms)
	res.Type = classify(&ruleInput{
		f:            res.Features,
		activeFrames: c.activeFrames,
		barkOnsetRMS: c.cfg.BarkOnsetRMS,
	})
	c.typeCounts[res.Type]++
	if res.Type.IsVocalization() {
		c.vocalRMSSum += rms
	}
	return res
}

func (c *Classifier) features(samples []float32, rms float64) Features {
	spec := c.analyzer.Spectrum(samples)
	low := spec.BandEnergy(vocalRangeLow, lowBandHigh)
	mid := spec.BandEnergy(lowBandHigh, midBandHigh)
	high := spec.BandEnergy(midBandHigh, highBandHigh)
	total := max(low+mid+high, 1e-12)
	freq, _ := spec.DominantFrequency(vocalRangeLow, vocalRangeHigh)
	c.pitches.Add(freq)

	f := Features{
		RMS:       rms,
		Low:       low / total,
		Mid:       mid / total,
		High:      high / total,
		Centroid:  spec.Centroid(vocalRangeLow, highBandHigh),
		Frequency: freq,
		Onset:     c.onset(rms),
	}
	f.Tilt = f.Low - f.High
	if p := c.pitches.All(); len(p) >= 2 {
		f.PitchStd = stat.StdDev(p, nil)
	}
	return f
}

// Largest rise between consecutive RMS values in the onset window, relative to now
func (c *Classifier) onset(rms float64) float64 {
	if rms <= 0 {
		return 0
	}
	h := c.rmsHistory.All()
	rise := 0.0
	for i := 1; i < len(h); i++ {
		rise = max(rise, h[i]-h[i-1])
	}
	return rise / rms
}
