// Package nn holds the types that describe the output of an external object detector.
// The pipeline does not run a neural network itself. Frames arrive with their detections attached.
package nn

import "time"

// ObjectDetection is an object that a neural network has found in an image
type ObjectDetection struct {
	Class      int     `json:"class"`
	Confidence float32 `json:"confidence"`
	Box        Rect    `json:"box"`
}

// Results of an NN object detection run
type DetectionResult struct {
	ImageWidth  int               `json:"imageWidth"`
	ImageHeight int               `json:"imageHeight"`
	Objects     []ObjectDetection `json:"objects"`
	FramePTS    time.Time         `json:"framePTS"`
}

// Return the indices of all objects of the given class, with at least minConfidence
func (r *DetectionResult) OfClass(class int, minConfidence float32) []int {
	idx := []int{}
	for i, o := range r.Objects {
		if o.Class == class && o.Confidence >= minConfidence {
			idx = append(idx, i)
		}
	}
	return idx
}
