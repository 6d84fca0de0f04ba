package timeline

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/cyclopcam/pawscan/server/emotion"
	"github.com/cyclopcam/pawscan/server/scan"
	"github.com/stretchr/testify/require"
)

func points(n int) []scan.TimelinePoint {
	pts := make([]scan.TimelinePoint, n)
	for i := range pts {
		pts[i] = scan.TimelinePoint{
			Seconds: float64(i) / 15,
			Emotion: emotion.Calm,
			Speed:   float64(i % 20),
			RMS:     0.1,
			Vocal:   i%50 == 0,
		}
		if i > n/2 {
			pts[i].Emotion = emotion.Playful
		}
	}
	return pts
}

func TestBin(t *testing.T) {
	cols := bin(points(1000), 100)
	require.Len(t, cols, 100)
	require.Equal(t, emotion.Calm, cols[0].emotion)
	require.Equal(t, emotion.Playful, cols[99].emotion)
	require.True(t, cols[0].vocal)
	require.InDelta(t, 4.5, cols[0].speed, 1e-9)

	// Fewer points than columns gives one column per point
	require.Len(t, bin(points(7), 100), 7)
	require.Nil(t, bin(nil, 100))
}

func TestWritePNG(t *testing.T) {
	opt := DefaultOptions()
	for _, n := range []int{0, 1, 3000} {
		buf := bytes.Buffer{}
		require.NoError(t, WritePNG(&buf, &scan.Result{Timeline: points(n)}, opt))
		img, err := png.Decode(&buf)
		require.NoError(t, err)
		require.Equal(t, opt.Width, img.Bounds().Dx())
		require.Equal(t, opt.Height, img.Bounds().Dy())
	}
}
