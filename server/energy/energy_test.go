package energy

import (
	"testing"

	"github.com/cyclopcam/pawscan/server/emotion"
	"github.com/cyclopcam/pawscan/server/motion"
	"github.com/cyclopcam/pawscan/server/vocal"
	"github.com/stretchr/testify/require"
)

func TestDigitalRoot(t *testing.T) {
	require.Equal(t, 0, DigitalRoot(0))
	require.Equal(t, 9, DigitalRoot(9))
	require.Equal(t, 9, DigitalRoot(18))
	require.Equal(t, 1, DigitalRoot(10))
	require.Equal(t, 6, DigitalRoot(87))
	require.Equal(t, 1, DigitalRoot(100))
}

func TestCompute(t *testing.T) {
	er := emotion.SessionReport{DominantEmotion: emotion.Calm, Motion: motion.Summary{AvgSpeed: 0.5}}
	r := Compute(er, vocal.NoAudioReport())
	// movement 2, vocal 0, emotional 20: (6 + 0 + 180) / 18 = 10.33
	require.Equal(t, 2.0, r.Movement)
	require.Equal(t, 0.0, r.Vocal)
	require.Equal(t, 10, r.Total)
	require.Equal(t, 1, r.Root)
	require.Equal(t, SignatureTransitional, r.Signature)
	require.False(t, r.Aligned)

	vr := vocal.NoAudioReport()
	vr.AudioAvailable = true
	vr.Vocalizations.Intensity = 60
	er = emotion.SessionReport{DominantEmotion: emotion.Excited, Motion: motion.Summary{AvgSpeed: 40}}
	r = Compute(er, vr)
	// movement clamps to 100: (300 + 360 + 810) / 18 = 81.67
	require.Equal(t, 100.0, r.Movement)
	require.Equal(t, 82, r.Total)
	require.Equal(t, 1, r.Root)

	er.DominantEmotion = emotion.Calm
	er.Motion.AvgSpeed = 3
	vr.Vocalizations.Intensity = 0
	r = Compute(er, vr)
	// (36 + 0 + 180) / 18 = 12
	require.Equal(t, 12, r.Total)
	require.Equal(t, SignatureCreation, r.Signature)
	require.True(t, r.Aligned)
}

func TestForFrameIgnoresQuietAudio(t *testing.T) {
	a := emotion.Assessment{PrimaryEmotion: emotion.Unknown}
	va := vocal.Assessment{AudioAvailable: true, Intensity: 80}
	r := ForFrame(&a, &va)
	require.Equal(t, 0, r.Total)
	require.Equal(t, SignatureTransitional, r.Signature)
	require.False(t, r.Aligned)
}
