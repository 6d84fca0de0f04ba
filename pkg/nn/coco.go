package nn

// COCO class ids that matter for a pet capture. Detectors trained on COCO
// report these; anything else is ignored by the scan.
const (
	COCOPerson = 0
	COCOBird   = 14
	COCOCat    = 15
	COCODog    = 16
	COCOHorse  = 17
	COCOSheep  = 18
	COCOCow    = 19
	COCOBear   = 21
	COCOTeddy  = 77
)

var cocoNames = map[int]string{
	COCOPerson: "person",
	COCOBird:   "bird",
	COCOCat:    "cat",
	COCODog:    "dog",
	COCOHorse:  "horse",
	COCOSheep:  "sheep",
	COCOCow:    "cow",
	COCOBear:   "bear",
	COCOTeddy:  "teddy bear",
}

// COCOClassName returns a human name for the class, or "" if it is not one we know
func COCOClassName(class int) string {
	return cocoNames[class]
}

// Classes that a detector commonly confuses with a dog. Used as a fallback
// when no dog detection is present in a frame.
func IsDogLike(class int) bool {
	switch class {
	case COCODog, COCOCat, COCOSheep, COCOBear, COCOTeddy:
		return true
	}
	return false
}
