package scan

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cyclopcam/logs"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Sink receives the result of every session that stops
type Sink interface {
	SaveResult(ctx context.Context, r *Result) error
}

// Manager owns the live sessions, stops sessions that go idle, and hands
// finished results to the sinks.
type Manager struct {
	Log logs.Log

	cfg           Config
	sinks         []Sink
	lock          sync.Mutex
	sessions      map[string]*Session
	persisted     map[string]bool
	mustStop      atomic.Bool
	reaperStopped chan bool
}

func NewManager(logger logs.Log, cfg Config, sinks ...Sink) *Manager {
	m := &Manager{
		Log:           logs.NewPrefixLogger(logger, "Scans:"),
		cfg:           cfg,
		sinks:         sinks,
		sessions:      map[string]*Session{},
		persisted:     map[string]bool{},
		reaperStopped: make(chan bool),
	}
	go m.reaper()
	return m
}

// Start creates a new session
func (m *Manager) Start() *Session {
	s := NewSession(m.Log, uuid.NewString(), m.cfg)
	m.lock.Lock()
	m.sessions[s.ID] = s
	m.lock.Unlock()
	s.Log.Infof("Started")
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	s := m.sessions[id]
	if s == nil {
		return nil, ErrNotFound
	}
	return s, nil
}

// Number of live or recently stopped sessions
func (m *Manager) Len() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return len(m.sessions)
}

// Stop ends a session and saves its result. Stopping twice returns the same result
// and saves nothing the second time.
func (m *Manager) Stop(id string) (*Result, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	return m.finish(s), nil
}

func (m *Manager) finish(s *Session) *Result {
	r := s.Stop()
	m.lock.Lock()
	done := m.persisted[s.ID]
	m.persisted[s.ID] = true
	m.lock.Unlock()
	if !done {
		m.save(r)
	}
	return r
}

func (m *Manager) save(r *Result) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, sink := range m.sinks {
		if err := sink.SaveResult(ctx, r); err != nil {
			m.Log.Errorf("Failed to save result of %v: %v", r.ID, err)
		}
	}
}

// Close stops every session and the reaper
func (m *Manager) Close() {
	m.mustStop.Store(true)
	<-m.reaperStopped
	m.lock.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.lock.Unlock()
	for _, s := range all {
		m.finish(s)
	}
	m.Log.Infof("Closed")
}

// Stops sessions that stopped receiving frames, and forgets stopped sessions after the same timeout
func (m *Manager) reaper() {
	for !m.mustStop.Load() {
		time.Sleep(200 * time.Millisecond)
		m.reap()
	}
	close(m.reaperStopped)
}

func (m *Manager) reap() {
	m.lock.Lock()
	idle := []*Session{}
	for id, s := range m.sessions {
		if s.IdleFor() < m.cfg.IdleTimeout {
			continue
		}
		if s.IsStopped() && m.persisted[id] {
			delete(m.sessions, id)
			delete(m.persisted, id)
		} else {
			idle = append(idle, s)
		}
	}
	m.lock.Unlock()
	for _, s := range idle {
		if !s.IsStopped() {
			s.Log.Infof("No frames for %v, stopping", m.cfg.IdleTimeout)
		}
		m.finish(s)
	}
}
