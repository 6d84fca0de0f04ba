package sessiondb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/pawscan/pkg/nn"
	"github.com/cyclopcam/pawscan/server/scan"
	"github.com/stretchr/testify/require"
)

func runSession(t *testing.T, id string, start time.Time) *scan.Result {
	s := scan.NewSession(logs.NewTestingLog(t), id, scan.DefaultConfig())
	for i := 0; i < 30; i++ {
		_, err := s.Step(scan.FrameInput{
			Time: start.Add(time.Duration(i) * 33 * time.Millisecond),
			Detection: &nn.DetectionResult{
				ImageWidth:  640,
				ImageHeight: 480,
				Objects:     []nn.ObjectDetection{{Class: nn.COCODog, Confidence: 0.9, Box: nn.Rect{X: 100, Y: 100, Width: 200, Height: 100}}},
			},
		})
		require.NoError(t, err)
	}
	r := s.Stop()
	r.Started = start
	r.Stopped = start.Add(time.Second)
	return r
}

func TestSessionDB(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.sqlite")
	db, err := Open(logs.NewTestingLog(t), dbPath)
	require.NoError(t, err)

	day := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()
	require.NoError(t, db.SaveResult(ctx, runSession(t, "aaa", day)))
	require.NoError(t, db.SaveResult(ctx, runSession(t, "bbb", day.Add(time.Hour))))

	list, err := db.List(10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "bbb", list[0].UUID)
	require.Equal(t, "aaa", list[1].UUID)
	require.Nil(t, list[0].Report)
	require.EqualValues(t, 30, list[0].Frames)
	require.EqualValues(t, 1000, list[0].Duration)
	require.Equal(t, "resting", list[0].State)
	require.Equal(t, "calm", list[0].Emotion)
	require.Equal(t, day.Add(time.Hour+time.Second).Unix(), list[0].EndTime().Unix())

	r, err := db.Get("aaa")
	require.NoError(t, err)
	require.Equal(t, "aaa", r.ID)
	require.Equal(t, 30, r.Frames)
	require.Len(t, r.Timeline, 30)
	require.Equal(t, "Resting", r.Coherent.BehaviorState.Label)
	require.NotEmpty(t, r.Emotion.ActionSummary.TopActions)

	_, err = db.Get("nope")
	require.ErrorIs(t, err, ErrNotFound)

	// Saving again replaces the row
	require.NoError(t, db.SaveResult(ctx, runSession(t, "aaa", day)))
	list, err = db.List(10)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// A second handle sees the same data
	db2, err := Open(logs.NewTestingLog(t), dbPath)
	require.NoError(t, err)
	list, err = db2.List(1)
	require.NoError(t, err)
	require.Len(t, list, 1)

	n, err := db.Purge(day.Add(time.Minute))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	_, err = db.Get("aaa")
	require.ErrorIs(t, err, ErrNotFound)
}
