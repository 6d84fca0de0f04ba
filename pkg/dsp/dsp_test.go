package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func sine(freq float64, amplitude float64, sampleRate, n int) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = float32(amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
	}
	return s
}

func TestRMS(t *testing.T) {
	require.Equal(t, 0.0, RMS(nil))
	require.InDelta(t, 0.5, RMS([]float32{0.5, -0.5, 0.5, -0.5}), 1e-9)
	require.InDelta(t, 1/math.Sqrt2, RMS(sine(440, 1, 48000, 48000)), 1e-3)
}

func TestDominantFrequency(t *testing.T) {
	a := NewAnalyzer(48000, 4096)
	spec := a.Spectrum(sine(600, 0.5, 48000, 4096))
	f, mag := spec.DominantFrequency(80, 2000)
	require.InDelta(t, 600, f, spec.BinHz())
	require.Greater(t, mag, 0.0)

	// A 600 Hz tone has its energy in the mid band
	mid := spec.BandEnergy(400, 1200)
	low := spec.BandEnergy(80, 400)
	high := spec.BandEnergy(1200, 4000)
	require.Greater(t, mid, 10*(low+high))
	require.InDelta(t, 600, spec.Centroid(400, 1200), 30)
}

func TestShortInputIsPadded(t *testing.T) {
	a := NewAnalyzer(48000, 4096)
	spec := a.Spectrum(sine(300, 0.5, 48000, 1000))
	require.Equal(t, 2049, len(spec.Magnitude))
	f, _ := spec.DominantFrequency(80, 2000)
	require.InDelta(t, 300, f, 3*spec.BinHz())
}
