// Package dsp contains the audio feature extraction used by the vocal classifier.
package dsp

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// RMS returns the root-mean-square amplitude of the samples
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// Spectrum is a magnitude spectrum of one analysis window
type Spectrum struct {
	SampleRate int
	Size       int       // FFT size
	Magnitude  []float64 // Size/2+1 bins
}

// Analyzer computes Hann-windowed magnitude spectra of a fixed size.
// An Analyzer is not safe for concurrent use.
type Analyzer struct {
	sampleRate int
	size       int
	fft        *fourier.FFT
	window     []float64
	seq        []float64
	coeff      []complex128
}

func NewAnalyzer(sampleRate, size int) *Analyzer {
	window := make([]float64, size)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}
	return &Analyzer{
		sampleRate: sampleRate,
		size:       size,
		fft:        fourier.NewFFT(size),
		window:     window,
		seq:        make([]float64, size),
	}
}

func (a *Analyzer) Size() int {
	return a.size
}

// Spectrum analyses the newest Size samples. Shorter input is zero padded at the front.
func (a *Analyzer) Spectrum(samples []float32) Spectrum {
	if len(samples) > a.size {
		samples = samples[len(samples)-a.size:]
	}
	pad := a.size - len(samples)
	for i := 0; i < pad; i++ {
		a.seq[i] = 0
	}
	for i, s := range samples {
		a.seq[pad+i] = float64(s) * a.window[pad+i]
	}
	a.coeff = a.fft.Coefficients(a.coeff, a.seq)
	mag := make([]float64, len(a.coeff))
	for i, c := range a.coeff {
		mag[i] = cmplx.Abs(c)
	}
	return Spectrum{
		SampleRate: a.sampleRate,
		Size:       a.size,
		Magnitude:  mag,
	}
}

// BinHz is the width of one frequency bin
func (s Spectrum) BinHz() float64 {
	return float64(s.SampleRate) / float64(s.Size)
}

func (s Spectrum) binRange(lowHz, highHz float64) (int, int) {
	lo := int(math.Ceil(lowHz / s.BinHz()))
	hi := int(math.Floor(highHz / s.BinHz()))
	lo = max(lo, 0)
	hi = min(hi, len(s.Magnitude)-1)
	return lo, hi
}

// BandEnergy is the sum of squared magnitudes between lowHz and highHz inclusive
func (s Spectrum) BandEnergy(lowHz, highHz float64) float64 {
	lo, hi := s.binRange(lowHz, highHz)
	e := 0.0
	for i := lo; i <= hi; i++ {
		e += s.Magnitude[i] * s.Magnitude[i]
	}
	return e
}

// DominantFrequency returns the frequency of the strongest bin in [lowHz, highHz], and its magnitude
func (s Spectrum) DominantFrequency(lowHz, highHz float64) (float64, float64) {
	lo, hi := s.binRange(lowHz, highHz)
	best := -1
	bestMag := 0.0
	for i := lo; i <= hi; i++ {
		if s.Magnitude[i] > bestMag {
			bestMag = s.Magnitude[i]
			best = i
		}
	}
	if best < 0 {
		return 0, 0
	}
	return float64(best) * s.BinHz(), bestMag
}

// Centroid is the magnitude-weighted mean frequency in [lowHz, highHz]
func (s Spectrum) Centroid(lowHz, highHz float64) float64 {
	lo, hi := s.binRange(lowHz, highHz)
	num, den := 0.0, 0.0
	for i := lo; i <= hi; i++ {
		num += float64(i) * s.BinHz() * s.Magnitude[i]
		den += s.Magnitude[i]
	}
	if den == 0 {
		return 0
	}
	return num / den
}
