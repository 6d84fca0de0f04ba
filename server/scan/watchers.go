package scan

import "github.com/cyclopcam/pawscan/pkg/gen"

// SYNC-WATCHER-CHANNEL-SIZE
const WatcherChannelSize = 100

// AddWatcher registers for the per-frame output of this session.
// The channel is closed when the session stops.
func (s *Session) AddWatcher() chan *FrameOutput {
	s.watchersLock.Lock()
	defer s.watchersLock.Unlock()
	ch := make(chan *FrameOutput, WatcherChannelSize)
	if s.watchersClosed {
		close(ch)
		return ch
	}
	s.watchers = append(s.watchers, ch)
	return ch
}

// RemoveWatcher unregisters a watcher. It is not an error to remove a watcher
// after the session has stopped.
func (s *Session) RemoveWatcher(ch chan *FrameOutput) {
	s.watchersLock.Lock()
	defer s.watchersLock.Unlock()
	for i, w := range s.watchers {
		if w == ch {
			s.watchers = gen.DeleteFromSliceUnordered(s.watchers, i)
			return
		}
	}
	if !s.watchersClosed {
		s.Log.Warnf("RemoveWatcher failed to find channel")
	}
}

func (s *Session) sendToWatchers(out *FrameOutput) {
	s.watchersLock.RLock()
	defer s.watchersLock.RUnlock()
	// A slow watcher loses frames instead of stalling the pipeline and every other watcher.
	for _, ch := range s.watchers {
		// SYNC-WATCHER-CHANNEL-SIZE
		if len(ch) >= cap(ch)*9/10 {
			s.Log.Warnf("Watcher is falling behind. Dropping frame %v", out.Frame)
		} else {
			ch <- out
		}
	}
}

func (s *Session) closeWatchers() {
	s.watchersLock.Lock()
	defer s.watchersLock.Unlock()
	for _, ch := range s.watchers {
		close(ch)
	}
	s.watchers = nil
	s.watchersClosed = true
}
