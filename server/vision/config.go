package vision

type Config struct {
	Size              int     `json:"size"`             // side of the square luminance crop
	StillThreshold    float64 `json:"stillThreshold"`   // below this a pixel change is noise
	MacroThreshold    float64 `json:"macroThreshold"`   // at or above this a pixel change is macro motion
	SmoothingAlpha    float64 `json:"smoothingAlpha"`   // EMA of the aggregate signals
	HistorySize       int     `json:"historySize"`      // samples
	MinBoxSide        int     `json:"minBoxSide"`       // px; smaller boxes are not analyzed
	TailWagWindow     int     `json:"tailWagWindow"`    // samples
	TailWagAmplitude  float64 `json:"tailWagAmplitude"` // minimum edge-zone delta that counts as a swing
	MinSummarySamples int     `json:"minSummarySamples"`
}

func DefaultConfig() Config {
	return Config{
		Size:              64,
		StillThreshold:    0.008,
		MacroThreshold:    0.06,
		SmoothingAlpha:    0.3,
		HistorySize:       90,
		MinBoxSide:        16,
		TailWagWindow:     12,
		TailWagAmplitude:  0.003,
		MinSummarySamples: 10,
	}
}
