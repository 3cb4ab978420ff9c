package floodcheck

import (
	"container/ring"
	"sync"
)

// LastDetections keeps track of last N detections, thread-safe.
type LastDetections struct {
	items *ring.Ring
	size  int
	total int
	lock  sync.RWMutex
}

// NewLastDetections creates new detections tracker
func NewLastDetections(size int) *LastDetections {
	// minimum size is 1
	if size < 1 {
		size = 1
	}
	return &LastDetections{
		items: ring.New(size),
		size:  size,
	}
}

// Push adds new detection to the history
func (h *LastDetections) Push(d Detection) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.items.Value = d
	h.items = h.items.Next()
	h.total++
}

// Last returns up to n most recent detections in chronological order (oldest to newest)
func (h *LastDetections) Last(n int) []Detection {
	if n < 1 {
		return []Detection{}
	}

	h.lock.RLock()
	defer h.lock.RUnlock()

	result := make([]Detection, 0, h.size)
	// current position is the oldest slot once the ring is full
	h.items.Do(func(v any) {
		if d, ok := v.(Detection); ok {
			result = append(result, d)
		}
	})

	if len(result) > n {
		result = result[len(result)-n:]
	}
	return result
}

// Total returns the number of detections pushed since creation
func (h *LastDetections) Total() int {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return h.total
}

// Size returns the capacity of detections history
func (h *LastDetections) Size() int {
	return h.size
}
