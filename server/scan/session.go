// Package scan runs the per-frame pipeline for one capture session, and
// manages the set of live sessions.
package scan

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/pawscan/pkg/history"
	"github.com/cyclopcam/pawscan/pkg/nn"
	"github.com/cyclopcam/pawscan/pkg/perfstats"
	"github.com/cyclopcam/pawscan/server/coherence"
	"github.com/cyclopcam/pawscan/server/emotion"
	"github.com/cyclopcam/pawscan/server/energy"
	"github.com/cyclopcam/pawscan/server/evidence"
	"github.com/cyclopcam/pawscan/server/motion"
	"github.com/cyclopcam/pawscan/server/vision"
	"github.com/cyclopcam/pawscan/server/vocal"
)

// Session owns every analyzer of one capture. Frames must arrive in time order.
// All methods are safe to call from multiple goroutines, but Step calls are serialized.
type Session struct {
	ID  string
	Log logs.Log

	cfg     Config
	lock    sync.Mutex
	started time.Time
	stopped bool
	result  *Result

	tracker *motion.Tracker
	pixels  *vision.Analyzer
	vocal   *vocal.Classifier // nil when running visual-only
	scorer  *emotion.Scorer

	frames    int
	stepTime  perfstats.TimeAccumulator
	firstTime time.Time
	lastTime  time.Time
	lastFrame time.Time // wall time of the last Step, for idle detection
	lastBox   nn.Rect
	hasLast   bool
	missed    int // consecutive ticks without a detection

	searchScratch []int
	timeline      *history.Ring[TimelinePoint]

	watchersLock   sync.RWMutex
	watchers       []chan *FrameOutput
	watchersClosed bool
}

// NewSession creates a session in its initial state. The session is visual-only
// until AttachAudio succeeds.
func NewSession(log logs.Log, id string, cfg Config) *Session {
	return &Session{
		ID:        id,
		Log:       logs.NewPrefixLogger(log, "Scan "+shortID(id)),
		cfg:       cfg,
		started:   time.Now(),
		lastFrame: time.Now(),
		tracker:   motion.NewTracker(cfg.Motion),
		pixels:    vision.NewAnalyzer(cfg.Vision),
		scorer:    emotion.NewScorer(cfg.Emotion),
		timeline:  history.NewRing[TimelinePoint](cfg.TimelineFrames),
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// AttachAudio enables the audio channel at the given sample rate.
// On failure the session continues visual-only, and the error wraps vocal.ErrAudioUnavailable.
func (s *Session) AttachAudio(sampleRate int) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.stopped {
		return ErrSessionStopped
	}
	cfg := s.cfg.Vocal
	cfg.SampleRate = sampleRate
	c, err := vocal.NewClassifier(cfg)
	if err != nil {
		s.Log.Warnf("Running visual-only: %v", err)
		return err
	}
	s.vocal = c
	s.Log.Infof("Audio attached at %v Hz", sampleRate)
	return nil
}

// HasAudio is true if an audio channel is attached
func (s *Session) HasAudio() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.vocal != nil
}

func (s *Session) Frames() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.frames
}

func (s *Session) IsStopped() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.stopped
}

// Time since the last frame was received
func (s *Session) IdleFor() time.Duration {
	s.lock.Lock()
	defer s.lock.Unlock()
	return time.Since(s.lastFrame)
}

// Step runs one frame through the pipeline: dog selection, tracker and pixel
// analyzer (concurrently), vocal classifier, then the scorer.
func (s *Session) Step(in FrameInput) (*FrameOutput, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.stopped {
		return nil, ErrSessionStopped
	}
	if !s.lastTime.IsZero() && !in.Time.After(s.lastTime) {
		return nil, fmt.Errorf("%w: %v is not after %v", ErrOutOfOrder, in.Time.Format(time.RFC3339Nano), s.lastTime.Format(time.RFC3339Nano))
	}
	if s.frames == 0 {
		s.firstTime = in.Time
	}
	s.lastTime = in.Time
	s.lastFrame = time.Now()
	s.frames++
	defer func(start time.Time) { s.stepTime.AddSample(time.Since(start)) }(s.lastFrame)

	out := &FrameOutput{
		SessionID: s.ID,
		Frame:     s.frames,
		Time:      in.Time,
		Pixels:    vision.Sample{Head: vision.HeadUnknown, Body: vision.BodyUnknown},
		Vocal:     vocal.NoAudio(),
	}

	dog, found := s.selectDog(in.Detection)
	if found {
		s.lastBox = dog.Box
		s.hasLast = true
		s.missed = 0
	} else if s.hasLast && s.missed < s.cfg.PersistFrames {
		s.missed++
		dog = nn.ObjectDetection{Class: nn.COCODog, Box: s.lastBox}
		found = true
		out.Persisted = true
	} else {
		s.hasLast = false
	}

	// The pixel analyzer only needs the frame and the box, so it runs alongside the tracker
	var pixelsDone chan vision.Sample
	if found && in.Image != nil {
		pixelsDone = make(chan vision.Sample, 1)
		go func(box nn.Rect) {
			start := time.Now()
			sample := s.pixels.Analyze(in.Image, box)
			perfstats.Stats.Pixels.Update(time.Since(start))
			pixelsDone <- sample
		}(dog.Box)
	}

	start := time.Now()
	if found {
		box := dog.Box
		out.Box = &box
		out.Motion = s.tracker.ProcessFrame(motion.FrameSample{Time: in.Time, Box: motion.BoxFromRect(box), Confidence: dog.Confidence})
	} else {
		out.Motion = s.tracker.ProcessMissing()
	}
	perfstats.Stats.Tracker.Update(time.Since(start))

	if pixelsDone != nil {
		out.Pixels = <-pixelsDone
	}

	var vf vocal.FrameResult
	if s.vocal != nil {
		start = time.Now()
		s.vocal.PushSamples(in.Audio)
		vf = s.vocal.ProcessAudioFrame(in.Time)
		out.Vocal = s.vocal.QuickAssess(in.Time)
		perfstats.Stats.Vocal.Update(time.Since(start))
	}

	start = time.Now()
	out.Assessment = s.scorer.Assess(emotion.Input{Motion: out.Motion, Vocal: out.Vocal, Pixels: out.Pixels})
	perfstats.Stats.Scorer.Update(time.Since(start))
	out.Energy = energy.ForFrame(&out.Assessment, &out.Vocal)

	if out.Motion.Posture.Changed {
		s.Log.Debugf("Posture %v -> %v", out.Motion.Posture.Previous, out.Motion.Posture.Current)
	}

	s.timeline.Add(TimelinePoint{
		Seconds:    in.Time.Sub(s.firstTime).Seconds(),
		Detected:   out.Motion.Detected,
		Emotion:    out.Assessment.PrimaryEmotion,
		Confidence: out.Assessment.Confidence,
		Speed:      out.Motion.AvgSpeed,
		Posture:    out.Motion.Posture.Current,
		Vocal:      vf.Type.IsVocalization(),
		RMS:        vf.Features.RMS,
	})
	s.sendToWatchers(out)
	return out, nil
}

// Stop ends the session. The open bark event is closed, the session reports
// are frozen and reconciled once. Further calls return the same result.
func (s *Session) Stop() *Result {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.stopped {
		return s.result
	}
	s.stopped = true

	barks := vocal.NoAudioReport()
	if s.vocal != nil {
		barks = s.vocal.FinalizeAudioSession()
	}
	er := s.scorer.Report(s.tracker.Summary())
	vs := s.pixels.Summary()
	en := energy.Compute(er, barks)
	cr := coherence.Reconcile(er, barks, en, vs)

	r := &Result{
		ID:          s.ID,
		Started:     s.started,
		Stopped:     time.Now(),
		Frames:      s.frames,
		Emotion:     er,
		Barks:       barks,
		Energy:      en,
		Vision:      vs,
		Coherent:    cr,
		Translation: evidence.Translate(&cr, &er, &en),
		Timeline:    s.timeline.All(),
	}
	s.result = r
	s.closeWatchers()
	s.Log.Infof("Stopped after %v frames: %v, %v", r.Frames, cr.BehaviorState.Label, cr.ValidatedEmotion.Emotion)
	s.Log.Infof("Step %v avg. Stages: %v", s.stepTime.Average(), &perfstats.Stats)
	return r
}

// Result returns the frozen result, or nil if the session is still running
func (s *Session) Result() *Result {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.result
}

// IsTransient is true for errors that a caller may ignore and keep feeding frames
func IsTransient(err error) bool {
	return errors.Is(err, ErrOutOfOrder)
}
