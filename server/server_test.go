package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/pawscan/pkg/nn"
	"github.com/cyclopcam/pawscan/server/config"
	"github.com/cyclopcam/pawscan/server/emotion"
	"github.com/cyclopcam/pawscan/server/export"
	"github.com/cyclopcam/pawscan/server/scan"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)

type testServer struct {
	*Server
	http      *httptest.Server
	exportDir string
}

func newTestServer(t *testing.T) *testServer {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Database = filepath.Join(dir, "pawscan.sqlite")
	cfg.Export.Path = filepath.Join(dir, "export")
	s, err := NewServer(logs.NewTestingLog(t), cfg)
	require.NoError(t, err)
	ts := &testServer{
		Server:    s,
		http:      httptest.NewServer(s.httpRouter),
		exportDir: cfg.Export.Path,
	}
	t.Cleanup(func() {
		ts.http.Close()
		s.Shutdown()
	})
	return ts
}

func (ts *testServer) post(t *testing.T, path string, body any) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	resp, err := http.Post(ts.http.URL+path, "application/json", &buf)
	require.NoError(t, err)
	return resp
}

func (ts *testServer) get(t *testing.T, path string) *http.Response {
	resp, err := http.Get(ts.http.URL + path)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func stillFrame(i int) scan.FrameInput {
	tm := t0.Add(time.Duration(i) * time.Second / 30)
	return scan.FrameInput{
		Time: tm,
		Detection: &nn.DetectionResult{
			ImageWidth:  640,
			ImageHeight: 480,
			FramePTS:    tm,
			Objects: []nn.ObjectDetection{
				{Class: nn.COCODog, Confidence: 0.9, Box: nn.Rect{X: 100, Y: 200, Width: 200, Height: 100}},
			},
		},
	}
}

func TestScanLifecycle(t *testing.T) {
	ts := newTestServer(t)

	start := decode[startResponse](t, ts.post(t, "/api/scan", nil))
	require.NotEmpty(t, start.ID)
	require.False(t, start.Audio)
	base := "/api/scan/" + start.ID

	for i := 1; i <= 60; i++ {
		out := decode[scan.FrameOutput](t, ts.post(t, base+"/frame", frameRequest{FrameInput: stillFrame(i)}))
		require.Equal(t, i, out.Frame)
		require.Equal(t, start.ID, out.SessionID)
	}

	// A repeated timestamp is rejected, and the session carries on
	resp := ts.post(t, base+"/frame", frameRequest{FrameInput: stillFrame(60)})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// The result is not available until the session stops
	resp = ts.get(t, base+"/result")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	res := decode[scan.Result](t, ts.post(t, base+"/stop", nil))
	require.Equal(t, start.ID, res.ID)
	require.Equal(t, 60, res.Frames)
	require.Equal(t, emotion.Calm, res.Emotion.DominantEmotion)

	// Stopping again returns the same result
	again := decode[scan.Result](t, ts.post(t, base+"/stop", nil))
	require.Equal(t, res.Frames, again.Frames)

	resp = ts.post(t, base+"/frame", frameRequest{FrameInput: stillFrame(61)})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	got := decode[scan.Result](t, ts.get(t, base+"/result"))
	require.Equal(t, res.Coherent.BehaviorState.State, got.Coherent.BehaviorState.State)

	resp = ts.get(t, base+"/timeline.png")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	img, err := png.Decode(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, 900, img.Bounds().Dx())

	list := decode[[]map[string]any](t, ts.get(t, "/api/history"))
	require.Len(t, list, 1)
	require.Equal(t, start.ID, list[0]["uuid"])
	require.Equal(t, "calm", list[0]["emotion"])
	require.NotContains(t, list[0], "report")

	hist := decode[scan.Result](t, ts.get(t, "/api/history/"+start.ID))
	require.Equal(t, 60, hist.Frames)

	// The exporter wrote the report too
	fs, err := export.NewStorageFS(ts.Log, ts.exportDir)
	require.NoError(t, err)
	raw, err := export.ReadFile(fs, export.ReportName(&res))
	require.NoError(t, err)
	require.True(t, strings.Contains(string(raw), start.ID))
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/api/scan/nope/result", "/api/history/nope", "/api/scan/nope/timeline.png"} {
		resp := ts.get(t, path)
		require.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		resp.Body.Close()
	}
	resp := ts.post(t, "/api/scan/nope/frame", frameRequest{FrameInput: stillFrame(1)})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAudioStart(t *testing.T) {
	ts := newTestServer(t)
	start := decode[startResponse](t, ts.post(t, "/api/scan", startRequest{SampleRate: 44100}))
	require.True(t, start.Audio)

	// An unusable sample rate leaves the session visual-only
	start = decode[startResponse](t, ts.post(t, "/api/scan", startRequest{SampleRate: 4000}))
	require.False(t, start.Audio)
}

func TestLive(t *testing.T) {
	ts := newTestServer(t)
	start := decode[startResponse](t, ts.post(t, "/api/scan", nil))
	base := "/api/scan/" + start.ID

	url := "ws" + strings.TrimPrefix(ts.http.URL, "http") + base + "/live"
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer c.Close()

	for i := 1; i <= 5; i++ {
		decode[scan.FrameOutput](t, ts.post(t, base+"/frame", frameRequest{FrameInput: stillFrame(i)}))
	}
	for i := 1; i <= 5; i++ {
		msg := liveMessage{}
		require.NoError(t, c.ReadJSON(&msg))
		require.NotNil(t, msg.Frame, fmt.Sprintf("message %v", i))
		require.Equal(t, i, msg.Frame.Frame)
	}

	decode[scan.Result](t, ts.post(t, base+"/stop", nil))
	msg := liveMessage{}
	require.NoError(t, c.ReadJSON(&msg))
	require.NotNil(t, msg.Result)
	require.Equal(t, 5, msg.Result.Frames)
}

func TestRouteTable(t *testing.T) {
	// NewServer registers every route, and each one resolves to a handler
	ts := newTestServer(t)
	routes := []struct {
		method string
		path   string
		id     string
	}{
		{"GET", "/api/ping", ""},
		{"POST", "/api/scan", ""},
		{"POST", "/api/scan/abc/frame", "abc"},
		{"POST", "/api/scan/abc/stop", "abc"},
		{"GET", "/api/scan/abc/result", "abc"},
		{"GET", "/api/scan/abc/live", "abc"},
		{"GET", "/api/scan/abc/timeline.png", "abc"},
		{"GET", "/api/history", ""},
		{"GET", "/api/history/abc", "abc"},
	}
	for _, r := range routes {
		h, params, _ := ts.httpRouter.Lookup(r.method, r.path)
		require.NotNil(t, h, "%v %v", r.method, r.path)
		require.Equal(t, r.id, params.ByName("id"), r.path)
	}

	resp := ts.get(t, "/api/ping")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
