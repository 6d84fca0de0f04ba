package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/bmharper/cimg/v2"
	"github.com/cyclopcam/pawscan/server/scan"
	"github.com/cyclopcam/pawscan/server/sessiondb"
	"github.com/cyclopcam/pawscan/server/timeline"
	"github.com/cyclopcam/www"
	"github.com/julienschmidt/httprouter"
)

const maxFrameBytes = 8 * 1024 * 1024

type startRequest struct {
	SampleRate int `json:"sampleRate"` // 0 for a visual-only session
}

type startResponse struct {
	ID    string `json:"id"`
	Audio bool   `json:"audio"` // false if audio was not requested, or the sample rate was rejected
}

// A frame as posted by a client. The optional JPEG feeds the pixel analyzer.
type frameRequest struct {
	scan.FrameInput
	JPEG []byte `json:"jpeg,omitempty"`
}

func (s *Server) getSessionOrPanic(id string) *scan.Session {
	sess, err := s.Scans.Get(id)
	if errors.Is(err, scan.ErrNotFound) {
		www.PanicNotFound()
	}
	www.Check(err)
	return sess
}

// The result of a stopped session, from memory or from the database once
// the manager has forgotten it. nil if the session is still running.
func (s *Server) getResultOrPanic(id string) *scan.Result {
	if sess, err := s.Scans.Get(id); err == nil {
		if r := sess.Result(); r != nil {
			return r
		}
		www.PanicBadRequestf("Session %v is still running", id)
	}
	r, err := s.Sessions.Get(id)
	if errors.Is(err, sessiondb.ErrNotFound) {
		www.PanicNotFound()
	}
	www.Check(err)
	return r
}

func (s *Server) httpScanStart(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	req := startRequest{}
	if r.ContentLength > 0 {
		www.ReadJSON(w, r, &req, 1024)
	}
	sess := s.Scans.Start()
	if req.SampleRate != 0 {
		// On failure the session logs it and stays visual-only
		sess.AttachAudio(req.SampleRate)
	}
	www.SendJSON(w, &startResponse{
		ID:    sess.ID,
		Audio: sess.HasAudio(),
	})
}

func (s *Server) httpScanFrame(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	sess := s.getSessionOrPanic(params.ByName("id"))
	req := frameRequest{}
	www.ReadJSON(w, r, &req, maxFrameBytes)
	if req.Time.IsZero() {
		req.Time = time.Now()
	}
	if len(req.JPEG) != 0 {
		img, err := cimg.Decompress(req.JPEG)
		if err != nil {
			www.PanicBadRequestf("Invalid JPEG: %v", err)
		}
		req.Image = img
	}
	out, err := sess.Step(req.FrameInput)
	if errors.Is(err, scan.ErrSessionStopped) {
		www.SendError(w, err.Error(), http.StatusConflict)
		return
	} else if scan.IsTransient(err) {
		www.PanicBadRequestf("%v", err)
	}
	www.Check(err)
	www.SendJSON(w, out)
}

func (s *Server) httpScanStop(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	res, err := s.Scans.Stop(params.ByName("id"))
	if errors.Is(err, scan.ErrNotFound) {
		www.PanicNotFound()
	}
	www.Check(err)
	www.SendJSON(w, res)
}

func (s *Server) httpScanResult(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	www.SendJSON(w, s.getResultOrPanic(params.ByName("id")))
}

func (s *Server) httpScanTimeline(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	res := s.getResultOrPanic(params.ByName("id"))
	w.Header().Set("Content-Type", "image/png")
	www.CacheNever(w)
	www.Check(timeline.WritePNG(w, res, timeline.DefaultOptions()))
}

func (s *Server) httpHistory(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	limit := www.QueryInt(r, "limit")
	if limit <= 0 {
		limit = 50
	}
	list, err := s.Sessions.List(limit)
	www.Check(err)
	www.SendJSON(w, list)
}

func (s *Server) httpHistoryGet(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	res, err := s.Sessions.Get(params.ByName("id"))
	if errors.Is(err, sessiondb.ErrNotFound) {
		www.PanicNotFound()
	}
	www.Check(err)
	www.SendJSON(w, res)
}
