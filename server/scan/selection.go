package scan

import (
	"github.com/bmharper/flatbush-go"
	"github.com/cyclopcam/pawscan/pkg/nn"
)

// Pick the dog to follow in this frame. When we have a last known box, the
// detection that overlaps it best (or else is closest to it) wins, so that a
// second dog walking through the frame does not steal the track.
func (s *Session) selectDog(det *nn.DetectionResult) (nn.ObjectDetection, bool) {
	if det == nil {
		return nn.ObjectDetection{}, false
	}
	cand := []int{}
	for i, o := range det.Objects {
		if o.Class == nn.COCODog && o.Confidence >= s.cfg.MinDogConfidence {
			cand = append(cand, i)
		}
	}
	if len(cand) == 0 && s.cfg.AcceptDogLike {
		for i, o := range det.Objects {
			if nn.IsDogLike(o.Class) && o.Confidence >= s.cfg.MinDogConfidence {
				cand = append(cand, i)
			}
		}
	}
	if len(cand) == 0 {
		return nn.ObjectDetection{}, false
	}
	if s.hasLast {
		if best := s.nearestToLast(det, cand); best != -1 {
			return det.Objects[best], true
		}
	}
	best := cand[0]
	for _, i := range cand[1:] {
		if det.Objects[i].Confidence > det.Objects[best].Confidence {
			best = i
		}
	}
	return det.Objects[best], true
}

// Returns the index into det.Objects of the candidate nearest to the last box, or -1
// if no candidate is within the search region.
func (s *Session) nearestToLast(det *nn.DetectionResult, cand []int) int {
	fb := flatbush.NewFlatbush[int32]()
	fb.Reserve(len(cand))
	for _, i := range cand {
		b := det.Objects[i].Box
		fb.Add(int32(b.X), int32(b.Y), int32(b.X2()), int32(b.Y2()))
	}
	fb.Finish()

	last := s.lastBox
	minBuffer := int(s.cfg.SearchBuffer * float64(det.ImageWidth))
	bufX := max(minBuffer, int(0.8*float64(last.Width)))
	bufY := max(minBuffer, int(0.8*float64(last.Height)))
	region := last.Inflate(bufX, bufY)
	s.searchScratch = fb.SearchFast(int32(region.X), int32(region.Y), int32(region.X2()), int32(region.Y2()), s.searchScratch)

	bestJ := -1
	bestIOU := float32(0)
	bestDistance := float32(9e20)
	for _, j := range s.searchScratch {
		box := det.Objects[cand[j]].Box
		iou := box.IOU(last)
		distance := box.Center().Distance(last.Center())
		// Boxes need not overlap at low frame rates, so fall back to center distance
		if iou > bestIOU {
			bestIOU = iou
			bestJ = j
		} else if bestIOU == 0 && distance < bestDistance {
			bestDistance = distance
			bestJ = j
		}
	}
	if bestJ == -1 {
		return -1
	}
	return cand[bestJ]
}
