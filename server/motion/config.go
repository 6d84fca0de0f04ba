package motion

// Tracker tunables. The pattern thresholds are calibrated against NoiseFloor,
// so change them together or not at all.
type Config struct {
	SmoothingAlpha   float64 `json:"smoothingAlpha"`
	NoiseFloor       float64 `json:"noiseFloor"`  // px/frame
	HistorySize      int     `json:"historySize"` // frames, movements and postures
	PostureWindow    int     `json:"postureWindow"`
	HysteresisVotes  int     `json:"hysteresisVotes"`
	HysteresisQuota  int     `json:"hysteresisQuota"` // a candidate needs this many of the last HysteresisVotes
	MinPatternFrames int     `json:"minPatternFrames"`
	LocomotionFrames int     `json:"locomotionFrames"` // window for AvgSpeed
}

func DefaultConfig() Config {
	return Config{
		SmoothingAlpha:   0.3,
		NoiseFloor:       6,
		HistorySize:      300,
		PostureWindow:    20,
		HysteresisVotes:  5,
		HysteresisQuota:  3,
		MinPatternFrames: 10,
		LocomotionFrames: 15,
	}
}
