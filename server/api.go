package server

import (
	"net/http"
	"time"

	"github.com/cyclopcam/www"
	"github.com/go-chi/httprate"
	"github.com/julienschmidt/httprouter"
)

func (s *Server) setupHttpRoutes() {
	router := httprouter.New()

	handle := func(method, route string, h httprouter.Handle) {
		www.Handle(s.Log, router, method, route, h)
	}

	// Each rate limited route gets its own limiter, keyed by client IP
	ratelimited := func(method, route string, h httprouter.Handle, requestLimit int, windowLength time.Duration) {
		limiter := httprate.Limit(requestLimit, windowLength, httprate.WithKeyFuncs(httprate.KeyByIP))
		www.Handle(s.Log, router, method, route, func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
			limiter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				h(w, r, params)
			})).ServeHTTP(w, r)
		})
	}

	handle("GET", "/api/ping", s.httpPing)
	handle("POST", "/api/scan", s.httpScanStart)
	ratelimited("POST", "/api/scan/:id/frame", s.httpScanFrame, s.Config.RateHz, time.Second)
	handle("POST", "/api/scan/:id/stop", s.httpScanStop)
	handle("GET", "/api/scan/:id/result", s.httpScanResult)
	handle("GET", "/api/scan/:id/live", s.httpScanLive)
	handle("GET", "/api/scan/:id/timeline.png", s.httpScanTimeline)
	handle("GET", "/api/history", s.httpHistory)
	handle("GET", "/api/history/:id", s.httpHistoryGet)

	s.httpRouter = router
}

func (s *Server) httpPing(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	www.SendOK(w)
}
