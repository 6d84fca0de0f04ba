// Package history provides the bounded, oldest-first histories that every
// stage of the pipeline keeps.
package history

import (
	"math"

	"github.com/bmharper/ringbuffer"
)

// Ring keeps at most Capacity items. Adding to a full Ring evicts the oldest.
// Index 0 is the oldest retained item.
type Ring[T any] struct {
	capacity int
	ring     ringbuffer.RingP[T]
}

func nextPowerOf2(n int) int {
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}

func NewRing[T any](capacity int) *Ring[T] {
	capacity = max(capacity, 1)
	return &Ring[T]{
		capacity: capacity,
		ring:     ringbuffer.NewRingP[T](nextPowerOf2(capacity + 1)),
	}
}

func (r *Ring[T]) Capacity() int {
	return r.capacity
}

func (r *Ring[T]) Add(item T) {
	r.ring.Add(item)
}

// Number of retained items, never more than Capacity
func (r *Ring[T]) Len() int {
	return min(r.ring.Len(), r.capacity)
}

// Peek returns item i, where 0 is the oldest retained item
func (r *Ring[T]) Peek(i int) T {
	skip := r.ring.Len() - r.Len()
	return r.ring.Peek(skip + i)
}

// Back returns the item n places from the newest, so Back(0) is the newest.
func (r *Ring[T]) Back(n int) T {
	return r.Peek(r.Len() - 1 - n)
}

// Newest returns the most recent item, and false if the ring is empty
func (r *Ring[T]) Newest() (T, bool) {
	if r.Len() == 0 {
		var zero T
		return zero, false
	}
	return r.Back(0), true
}

// Last returns up to n of the newest items, oldest first
func (r *Ring[T]) Last(n int) []T {
	n = min(n, r.Len())
	out := make([]T, n)
	start := r.Len() - n
	for i := 0; i < n; i++ {
		out[i] = r.Peek(start + i)
	}
	return out
}

// All returns every retained item, oldest first
func (r *Ring[T]) All() []T {
	return r.Last(r.Len())
}

func (r *Ring[T]) Clear() {
	r.ring = ringbuffer.NewRingP[T](nextPowerOf2(r.capacity + 1))
}
