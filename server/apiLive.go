package server

import (
	"net/http"
	"time"

	"github.com/cyclopcam/pawscan/server/scan"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// A message on the live websocket. Exactly one of the fields is set.
type liveMessage struct {
	Frame  *scan.FrameOutput `json:"frame,omitempty"`
	Result *scan.Result      `json:"result,omitempty"` // final message, sent when the session stops
}

const liveWriteTimeout = 5 * time.Second

// Streams the per-frame output of a session until the session stops or the client goes away
func (s *Server) httpScanLive(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	sess := s.getSessionOrPanic(params.ByName("id"))

	// Watch before the upgrade completes, so that the client sees every frame posted after it connects
	frames := sess.AddWatcher()
	defer sess.RemoveWatcher(frames)

	c, err := s.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Log.Errorf("Live websocket upgrade failed: %v", err)
		return
	}
	defer c.Close()

	// We never expect messages from the client, but we must read to notice that it has closed
	clientGone := make(chan bool)
	go func() {
		for {
			if _, _, err := c.NextReader(); err != nil {
				close(clientGone)
				return
			}
		}
	}()

	send := func(msg *liveMessage) bool {
		c.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
		if err := c.WriteJSON(msg); err != nil {
			sess.Log.Infof("Live websocket closed: %v", err)
			return false
		}
		return true
	}

	for {
		select {
		case <-clientGone:
			return
		case out, ok := <-frames:
			if !ok {
				send(&liveMessage{Result: sess.Result()})
				c.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stopped"), time.Now().Add(time.Second))
				return
			}
			if !send(&liveMessage{Frame: out}) {
				return
			}
		}
	}
}
