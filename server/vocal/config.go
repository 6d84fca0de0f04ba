package vocal

import "time"

type Config struct {
	SampleRate           int           `json:"sampleRate"`
	FFTSize              int           `json:"fftSize"`
	RingSeconds          int           `json:"ringSeconds"`
	BaselineFrames       int           `json:"baselineFrames"`
	FixedThreshold       float64       `json:"fixedThreshold"`     // minimum voice-activity RMS
	BaselineMultiplier   float64       `json:"baselineMultiplier"` // voice activity above this many baselines
	MinRMS               float64       `json:"minRMS"`             // below this, active sound is always ambient
	AmbientMultiplier    float64       `json:"ambientMultiplier"`  // below this many baselines, active sound is always ambient
	BarkOnsetRMS         float64       `json:"barkOnsetRMS"`
	SilenceFramesToClose int           `json:"silenceFramesToClose"`
	BarkHistory          int           `json:"barkHistory"`
	FrameHistory         int           `json:"frameHistory"` // frames considered by QuickAssess
	RateWindow           time.Duration `json:"rateWindow"`
	MinReportFrames      int           `json:"minReportFrames"`
}

func DefaultConfig() Config {
	return Config{
		SampleRate:           48000,
		FFTSize:              4096,
		RingSeconds:          2,
		BaselineFrames:       90,
		FixedThreshold:       0.015,
		BaselineMultiplier:   3.5,
		MinRMS:               0.02,
		AmbientMultiplier:    4.0,
		BarkOnsetRMS:         0.12,
		SilenceFramesToClose: 3,
		BarkHistory:          100,
		FrameHistory:         30,
		RateWindow:           30 * time.Second,
		MinReportFrames:      10,
	}
}
