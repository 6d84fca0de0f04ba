package scan

import (
	"time"

	"github.com/cyclopcam/pawscan/server/emotion"
	"github.com/cyclopcam/pawscan/server/motion"
	"github.com/cyclopcam/pawscan/server/vision"
	"github.com/cyclopcam/pawscan/server/vocal"
)

// Config aggregates the tunables of every stage of a session
type Config struct {
	Motion  motion.Config  `json:"motion"`
	Vision  vision.Config  `json:"vision"`
	Vocal   vocal.Config   `json:"vocal"`
	Emotion emotion.Config `json:"emotion"`

	MinDogConfidence float32       `json:"minDogConfidence"` // detections below this are ignored
	AcceptDogLike    bool          `json:"acceptDogLike"`    // fall back to classes that detectors confuse with dogs
	PersistFrames    int           `json:"persistFrames"`    // re-use the last box for this many ticks without a detection
	SearchBuffer     float64       `json:"searchBuffer"`     // fraction of the frame width searched around the last box
	TimelineFrames   int           `json:"timelineFrames"`   // most recent frames kept for the timeline chart
	IdleTimeout      time.Duration `json:"idleTimeout"`      // the manager stops sessions that receive no frames for this long
}

func DefaultConfig() Config {
	return Config{
		Motion:           motion.DefaultConfig(),
		Vision:           vision.DefaultConfig(),
		Vocal:            vocal.DefaultConfig(),
		Emotion:          emotion.DefaultConfig(),
		MinDogConfidence: 0.3,
		AcceptDogLike:    true,
		PersistFrames:    15,
		SearchBuffer:     0.05,
		TimelineFrames:   9000,
		IdleTimeout:      2 * time.Minute,
	}
}
