package vocal

// sampleRing is the audio ring buffer. It is written in place, so
// steady-state streaming allocates nothing.
type sampleRing struct {
	buf    []float32
	next   int // write position
	filled int
}

func newSampleRing(capacity int) *sampleRing {
	return &sampleRing{buf: make([]float32, capacity)}
}

func (r *sampleRing) write(samples []float32) {
	if len(samples) > len(r.buf) {
		samples = samples[len(samples)-len(r.buf):]
	}
	for len(samples) > 0 {
		n := copy(r.buf[r.next:], samples)
		samples = samples[n:]
		r.next = (r.next + n) % len(r.buf)
		r.filled = min(len(r.buf), r.filled+n)
	}
}

// latest copies up to len(dst) of the newest samples into the tail of dst,
// oldest first, and returns that tail.
func (r *sampleRing) latest(dst []float32) []float32 {
	n := min(len(dst), r.filled)
	dst = dst[len(dst)-n:]
	start := (r.next - n + len(r.buf)) % len(r.buf)
	c := copy(dst, r.buf[start:])
	if c < n {
		copy(dst[c:], r.buf[:n-c])
	}
	return dst
}

func (r *sampleRing) reset() {
	clear(r.buf)
	r.next = 0
	r.filled = 0
}
