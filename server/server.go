// Package server is the HTTP front end of pawscan. Clients open a scan session,
// post frames to it, watch the live assessment over a websocket, and stop it to
// receive the final report.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/pawscan/server/config"
	"github.com/cyclopcam/pawscan/server/export"
	"github.com/cyclopcam/pawscan/server/scan"
	"github.com/cyclopcam/pawscan/server/sessiondb"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

type Server struct {
	Log      logs.Log
	Config   *config.Config
	Scans    *scan.Manager
	Sessions *sessiondb.SessionDB
	Exporter *export.Exporter // nil when export is disabled

	signalIn   chan os.Signal
	httpServer *http.Server
	httpRouter *httprouter.Router
	wsUpgrader websocket.Upgrader
	closers    []func() error
}

func NewServer(logger logs.Log, cfg *config.Config) (*Server, error) {
	db, err := sessiondb.Open(logger, cfg.Database)
	if err != nil {
		return nil, err
	}
	s := &Server{
		Log:      logger,
		Config:   cfg,
		Sessions: db,
		signalIn: make(chan os.Signal, 1),
		wsUpgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	s.closers = append(s.closers, db.Close)

	sinks := []scan.Sink{db}
	var store export.Storage
	if cfg.Export.GCSBucket != "" {
		gcs, err := export.NewStorageGCS(context.Background(), logger, cfg.Export.GCSBucket)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("Failed to open GCS bucket %v: %w", cfg.Export.GCSBucket, err)
		}
		s.closers = append(s.closers, gcs.Close)
		store = gcs
	} else if cfg.Export.Path != "" {
		fs, err := export.NewStorageFS(logger, cfg.Export.Path)
		if err != nil {
			db.Close()
			return nil, err
		}
		store = fs
	}
	if store != nil {
		s.Exporter = export.NewExporter(logger, store)
		s.Exporter.Timeline = cfg.Export.Timeline
		sinks = append(sinks, s.Exporter)
	}

	s.Scans = scan.NewManager(logger, cfg.Scan, sinks...)
	s.setupHttpRoutes()
	return s, nil
}

// ListenHTTP serves until Shutdown. ready is called once the socket is listening.
// addr example: ":8080"
func (s *Server) ListenHTTP(addr string, ready func()) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.Log.Infof("Listening on %v", ln.Addr())
	s.httpServer = &http.Server{
		Handler: s.httpRouter,
	}
	if ready != nil {
		ready()
	}
	err = s.httpServer.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) ListenForKillSignals() {
	signal.Notify(s.signalIn, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig, ok := <-s.signalIn
		if ok {
			s.Log.Infof("Received OS signal '%v'", sig.String())
			s.Shutdown()
		}
	}()
}

// Shutdown stops the HTTP server, then stops and saves every open session
func (s *Server) Shutdown() {
	s.Log.Infof("Shutdown")
	signal.Stop(s.signalIn)
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.Log.Warnf("HTTP shutdown: %v", err)
		}
		cancel()
	}
	s.Scans.Close()
	for _, c := range s.closers {
		if err := c(); err != nil {
			s.Log.Warnf("Close: %v", err)
		}
	}
	s.Log.Infof("Shutdown complete")
}
