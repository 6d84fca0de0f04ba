package vision

import (
	"testing"

	"github.com/bmharper/cimg/v2"
	"github.com/cyclopcam/pawscan/pkg/nn"
	"github.com/stretchr/testify/require"
)

func grayImage(w, h int, value byte) *cimg.Image {
	img := cimg.NewImage(w, h, cimg.PixelFormatRGB)
	for i := range img.Pixels {
		img.Pixels[i] = value
	}
	return img
}

var dogBox = nn.Rect{X: 40, Y: 40, Width: 128, Height: 128}

func TestNeutralOnDegenerateInput(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	s := a.Analyze(nil, dogBox)
	require.False(t, s.Valid)
	require.Equal(t, BodyUnknown, s.Body)

	img := grayImage(200, 200, 100)
	s = a.Analyze(img, nn.Rect{X: 10, Y: 10, Width: 8, Height: 8})
	require.False(t, s.Valid)

	s = a.Analyze(img, nn.Rect{X: 500, Y: 500, Width: 50, Height: 50})
	require.False(t, s.Valid)

	// Stride claims more rows than the buffer holds
	bad := grayImage(200, 200, 100)
	bad.Pixels = bad.Pixels[:1000]
	s = a.Analyze(bad, dogBox)
	require.False(t, s.Valid)

	// The first real frame only primes the analyzer
	s = a.Analyze(img, dogBox)
	require.False(t, s.Valid)
	require.Equal(t, 0, a.Len())
}

func TestStaticScene(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	img := grayImage(200, 200, 100)
	var s Sample
	for i := 0; i < 20; i++ {
		s = a.Analyze(img, dogBox)
	}
	require.True(t, s.Valid)
	require.Equal(t, 0.0, s.Overall)
	require.Equal(t, 0.0, s.Tension)
	require.Equal(t, BodyVeryStill, s.Body)
	require.Equal(t, HeadStill, s.Head)

	sum := a.Summary()
	require.True(t, sum.Valid)
	require.Equal(t, BodyVeryStill, sum.DominantBodyState)
	require.Equal(t, MotionNearZero, sum.MotionLevel)
}

func TestLargeMotion(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	dark := grayImage(200, 200, 20)
	light := grayImage(200, 200, 220)
	var s Sample
	for i := 0; i < 6; i++ {
		if i%2 == 0 {
			s = a.Analyze(dark, dogBox)
		} else {
			s = a.Analyze(light, dogBox)
		}
	}
	require.True(t, s.Valid)
	require.Equal(t, BodyVeryActive, s.Body)
	require.InDelta(t, 1.0, s.Macro, 1e-6)
}

func TestTrembling(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	// Every pixel changes by 5/255, which is micro-vibration and never macro
	imgs := []*cimg.Image{grayImage(200, 200, 128), grayImage(200, 200, 133)}
	var s Sample
	for i := 0; i < 15; i++ {
		s = a.Analyze(imgs[i%2], dogBox)
	}
	require.InDelta(t, 1.0, s.Micro, 1e-6)
	require.Equal(t, 0.0, s.Macro)
	require.Equal(t, 0.9, s.Tension)
	require.Equal(t, BodyTense, s.Body)
}

func TestTensionTiers(t *testing.T) {
	require.Equal(t, 0.0, tensionFor(0.07, 0))
	require.Equal(t, 0.9, tensionFor(0.4, 0.01))
	require.Equal(t, 0.7, tensionFor(0.4, 0.03))
	require.Equal(t, 0.5, tensionFor(0.2, 0.05))
	require.Equal(t, 0.3, tensionFor(0.1, 0.07))
	require.Equal(t, 0.0, tensionFor(0.4, 0.5))
}

func TestBodyStatePriority(t *testing.T) {
	// Tense outranks wagging, which outranks vibrating
	s := Sample{Overall: 0.02, Micro: 0.3, Tension: 0.7, TailWag: 6}
	require.Equal(t, BodyTense, bodyStateOf(&s))
	s.Tension = 0.3
	require.Equal(t, BodyWagging, bodyStateOf(&s))
	s.TailWag = 0
	require.Equal(t, BodyVibrating, bodyStateOf(&s))
	s = Sample{Overall: 0.01, Micro: 0.05}
	require.Equal(t, BodyCalm, bodyStateOf(&s))
	s = Sample{Overall: 0.02, Micro: 0.05}
	require.Equal(t, BodySlightMotion, bodyStateOf(&s))
}

func TestOscillations(t *testing.T) {
	require.Equal(t, 0, oscillations([]float64{0, 0.001, 0, 0.001}, 0.003))
	require.Equal(t, 4, oscillations([]float64{0, 0.01, 0, 0.01, 0, 0.01}, 0.003))
}

func TestSummaryNeedsSamples(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	img := grayImage(200, 200, 100)
	for i := 0; i < 5; i++ {
		a.Analyze(img, dogBox)
	}
	s := a.Summary()
	require.False(t, s.Valid)
	require.Equal(t, MotionUnknown, s.MotionLevel)
}

func TestReset(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	img := grayImage(200, 200, 100)
	for i := 0; i < 30; i++ {
		a.Analyze(img, dogBox)
	}
	a.Reset()
	require.Equal(t, 0, a.Len())
	require.Equal(t, NewAnalyzer(DefaultConfig()).Summary(), a.Summary())
	require.False(t, a.Analyze(img, dogBox).Valid)
}

// Paint a vertical strip of the image
func paintStrip(img *cimg.Image, x0, x1 int, value byte) {
	for y := 0; y < img.Height; y++ {
		row := img.Pixels[y*img.Stride:]
		for x := x0; x < x1; x++ {
			row[x*3], row[x*3+1], row[x*3+2] = value, value, value
		}
	}
}

func TestTailWagThroughAnalyze(t *testing.T) {
	// The left edge of the dog swings back and forth while the rest is still.
	// Frames go A B B A A B B ..., so the left-edge change is alternately large and zero.
	a := NewAnalyzer(DefaultConfig())
	tailA := grayImage(200, 200, 100)
	tailB := grayImage(200, 200, 100)
	paintStrip(tailB, 40, 60, 140)

	var s Sample
	for i := 0; i < 25; i++ {
		img := tailA
		if ((i+1)/2)%2 == 1 {
			img = tailB
		}
		s = a.Analyze(img, dogBox)
	}
	require.True(t, s.Valid)
	require.GreaterOrEqual(t, s.TailWag, 4)
	require.Equal(t, 0.0, s.Tension)
	require.Equal(t, BodyWagging, s.Body)

	sum := a.Summary()
	require.True(t, sum.Valid)
	require.Equal(t, BodyWagging, sum.DominantBodyState)
	require.Greater(t, sum.TailWagFraction, 0.7)

	// The same strip changing every frame is steady motion, not a wag
	b := NewAnalyzer(DefaultConfig())
	for i := 0; i < 25; i++ {
		img := tailA
		if i%2 == 1 {
			img = tailB
		}
		s = b.Analyze(img, dogBox)
	}
	require.Less(t, s.TailWag, 4)
}
