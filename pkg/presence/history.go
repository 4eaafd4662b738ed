// Package presence turns the noisy per-frame "face found" signal into a
// stable presence decision over a short trailing window.
package presence

// History is a fixed-capacity ring of per-frame detection results.
// It starts full of false values, so its length is always its capacity.
type History struct {
	slots []bool
	head  int // index of the oldest value
	hits  int
}

// NewHistory returns a history of n slots, all false.
func NewHistory(n int) *History {
	if n < 1 {
		n = 1
	}
	return &History{slots: make([]bool, n)}
}

// Push appends v, evicting the oldest value.
func (h *History) Push(v bool) {
	if h.slots[h.head] {
		h.hits--
	}
	h.slots[h.head] = v
	if v {
		h.hits++
	}
	h.head = (h.head + 1) % len(h.slots)
}

// CountTrue returns how many slots hold true.
func (h *History) CountTrue() int {
	return h.hits
}

// Len returns the capacity of the window.
func (h *History) Len() int {
	return len(h.slots)
}

// Values returns the window oldest first.
func (h *History) Values() []bool {
	out := make([]bool, len(h.slots))
	for i := range out {
		out[i] = h.slots[(h.head+i)%len(h.slots)]
	}
	return out
}

// Reset clears the window back to all false.
func (h *History) Reset() {
	for i := range h.slots {
		h.slots[i] = false
	}
	h.head, h.hits = 0, 0
}
