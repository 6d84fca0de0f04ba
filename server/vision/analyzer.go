package vision

import (
	"github.com/bmharper/cimg/v2"
	"github.com/chewxy/math32"
	"github.com/cyclopcam/pawscan/pkg/gen"
	"github.com/cyclopcam/pawscan/pkg/history"
	"github.com/cyclopcam/pawscan/pkg/nn"
	"github.com/cyclopcam/pawscan/pkg/stats"
)

// Upper bound on source pixels read per side of one crop cell
const maxCellSamples = 4

// Analyzer owns the pixel history of one capture session.
// An Analyzer is not safe for concurrent use.
type Analyzer struct {
	cfg Config

	prev    []float32
	cur     []float32
	hasPrev bool

	overall float64
	micro   float64
	macro   float64

	left    *history.Ring[float64]
	right   *history.Ring[float64]
	samples *history.Ring[Sample]

	// Whole-session accumulators
	total      int
	bodyCounts map[BodyState]int
	sumOverall float64
	sumMicro   float64
	sumMacro   float64
	sumTension float64
	maxTension float64
	wagFrames  int
}

func NewAnalyzer(cfg Config) *Analyzer {
	a := &Analyzer{cfg: cfg}
	a.Reset()
	return a
}

func (a *Analyzer) Reset() {
	n := a.cfg.Size * a.cfg.Size
	a.prev = make([]float32, n)
	a.cur = make([]float32, n)
	a.hasPrev = false
	a.overall, a.micro, a.macro = 0, 0, 0
	a.left = history.NewRing[float64](a.cfg.TailWagWindow)
	a.right = history.NewRing[float64](a.cfg.TailWagWindow)
	a.samples = history.NewRing[Sample](a.cfg.HistorySize)
	a.total = 0
	a.bodyCounts = map[BodyState]int{}
	a.sumOverall, a.sumMicro, a.sumMacro, a.sumTension, a.maxTension = 0, 0, 0, 0, 0
	a.wagFrames = 0
}

// Number of valid samples in the history
func (a *Analyzer) Len() int {
	return a.samples.Len()
}

// Analyze the pixels of img inside box. Degenerate input returns a neutral
// sample, and never an error, so that the frame pipeline is never blocked.
func (a *Analyzer) Analyze(img *cimg.Image, box nn.Rect) (s Sample) {
	s = neutralSample()
	if img == nil || img.Width <= 0 || img.Height <= 0 || len(img.Pixels) == 0 {
		return
	}
	box = box.Clip(img.Width, img.Height)
	if box.Width < a.cfg.MinBoxSide || box.Height < a.cfg.MinBoxSide {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			// A short pixel buffer or a bad stride. Treat as no signal this frame.
			s = neutralSample()
		}
	}()

	a.readCrop(img, box)
	if !a.hasPrev {
		a.prev, a.cur = a.cur, a.prev
		a.hasPrev = true
		return
	}

	s = a.compare()
	a.prev, a.cur = a.cur, a.prev
	a.record(s)
	return
}

// Area-average the crop into a Size x Size luminance buffer in [0,1]
func (a *Analyzer) readCrop(img *cimg.Image, box nn.Rect) {
	size := a.cfg.Size
	nchan := img.NChan()
	for oy := 0; oy < size; oy++ {
		y0 := box.Y + oy*box.Height/size
		y1 := gen.Max(y0+1, box.Y+(oy+1)*box.Height/size)
		ystep := gen.Max(1, (y1-y0)/maxCellSamples)
		for ox := 0; ox < size; ox++ {
			x0 := box.X + ox*box.Width/size
			x1 := gen.Max(x0+1, box.X+(ox+1)*box.Width/size)
			xstep := gen.Max(1, (x1-x0)/maxCellSamples)
			sum := float32(0)
			n := 0
			for y := y0; y < y1; y += ystep {
				row := img.Pixels[y*img.Stride:]
				for x := x0; x < x1; x += xstep {
					sum += luminance(row[x*nchan:], nchan)
					n++
				}
			}
			a.cur[oy*size+ox] = sum / float32(n)
		}
	}
}

func luminance(p []byte, nchan int) float32 {
	if nchan < 3 {
		return float32(p[0]) / 255
	}
	return (0.299*float32(p[0]) + 0.587*float32(p[1]) + 0.114*float32(p[2])) / 255
}

func (a *Analyzer) compare() Sample {
	size := a.cfg.Size
	still := float32(a.cfg.StillThreshold)
	macroT := float32(a.cfg.MacroThreshold)
	zoneSum := [NumZones]float32{}
	zoneN := [NumZones]int{}
	total := float32(0)
	nMicro, nMacro := 0, 0
	for y := 0; y < size; y++ {
		zy := gen.Min(2, y*3/size)
		for x := 0; x < size; x++ {
			i := y*size + x
			d := math32.Abs(a.cur[i] - a.prev[i])
			total += d
			if d >= macroT {
				nMacro++
			} else if d >= still {
				nMicro++
			}
			z := zy*3 + gen.Min(2, x*3/size)
			zoneSum[z] += d
			zoneN[z]++
		}
	}
	npix := float64(size * size)
	alpha := a.cfg.SmoothingAlpha
	if a.samples.Len() == 0 {
		a.overall = float64(total) / npix
		a.micro = float64(nMicro) / npix
		a.macro = float64(nMacro) / npix
	} else {
		a.overall = stats.EMA(a.overall, float64(total)/npix, alpha)
		a.micro = stats.EMA(a.micro, float64(nMicro)/npix, alpha)
		a.macro = stats.EMA(a.macro, float64(nMacro)/npix, alpha)
	}

	s := Sample{
		Valid:   true,
		Overall: a.overall,
		Micro:   a.micro,
		Macro:   a.macro,
	}
	for z := range zoneSum {
		s.Zones[z] = float64(zoneSum[z]) / float64(gen.Max(1, zoneN[z]))
	}
	a.left.Add((s.Zones[0] + s.Zones[3] + s.Zones[6]) / 3)
	a.right.Add((s.Zones[2] + s.Zones[5] + s.Zones[8]) / 3)
	s.TailWag = gen.Max(oscillations(a.left.All(), a.cfg.TailWagAmplitude), oscillations(a.right.All(), a.cfg.TailWagAmplitude))
	s.Tension = tensionFor(s.Micro, s.Macro)
	s.Head = headActivityOf(s.Zones)
	s.Body = bodyStateOf(&s)
	return s
}

// Count sign alternations between consecutive deltas larger than amplitude
func oscillations(series []float64, amplitude float64) int {
	n := 0
	lastSign := 0
	for i := 1; i < len(series); i++ {
		d := series[i] - series[i-1]
		if d > -amplitude && d < amplitude {
			continue
		}
		sign := 1
		if d < 0 {
			sign = -1
		}
		if lastSign != 0 && sign != lastSign {
			n++
		}
		lastSign = sign
	}
	return n
}

func (a *Analyzer) record(s Sample) {
	a.samples.Add(s)
	a.total++
	a.bodyCounts[s.Body]++
	a.sumOverall += s.Overall
	a.sumMicro += s.Micro
	a.sumMacro += s.Macro
	a.sumTension += s.Tension
	a.maxTension = max(a.maxTension, s.Tension)
	if s.TailWag >= 4 {
		a.wagFrames++
	}
}

// Summary of the session. With too few samples the summary is marked invalid.
func (a *Analyzer) Summary() Summary {
	if a.total < a.cfg.MinSummarySamples {
		return Summary{
			Valid:             false,
			Samples:           a.total,
			BodyStates:        map[BodyState]float64{},
			DominantBodyState: BodyUnknown,
			MotionLevel:       MotionUnknown,
		}
	}
	n := float64(a.total)
	s := Summary{
		Valid:           true,
		Samples:         a.total,
		AvgOverall:      a.sumOverall / n,
		AvgMicro:        a.sumMicro / n,
		AvgMacro:        a.sumMacro / n,
		BodyStates:      map[BodyState]float64{},
		TailWagFraction: float64(a.wagFrames) / n,
		MaxTension:      a.maxTension,
		AvgTension:      a.sumTension / n,
	}
	best := 0
	for _, r := range bodyRules {
		c := a.bodyCounts[r.state]
		if c == 0 {
			continue
		}
		s.BodyStates[r.state] = float64(c) / n
		if c > best {
			best = c
			s.DominantBodyState = r.state
		}
	}
	s.MotionLevel = motionLevelOf(s.AvgOverall)
	return s
}
