package presence

import (
	"reflect"
	"testing"
)

func TestHistory_StartsAbsent(t *testing.T) {
	h := NewHistory(5)
	if h.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", h.Len())
	}
	if h.CountTrue() != 0 {
		t.Errorf("CountTrue() = %d, want 0", h.CountTrue())
	}
	if !reflect.DeepEqual(h.Values(), []bool{false, false, false, false, false}) {
		t.Errorf("Values() = %v", h.Values())
	}
}

func TestHistory_EvictsOldest(t *testing.T) {
	h := NewHistory(3)
	h.Push(true)
	h.Push(false)
	h.Push(true)
	if got := h.Values(); !reflect.DeepEqual(got, []bool{true, false, true}) {
		t.Fatalf("Values() = %v", got)
	}

	h.Push(false) // evicts the first true
	if got := h.Values(); !reflect.DeepEqual(got, []bool{false, true, false}) {
		t.Errorf("after eviction Values() = %v", got)
	}
	if h.CountTrue() != 1 {
		t.Errorf("CountTrue() = %d, want 1", h.CountTrue())
	}
	if h.Len() != 3 {
		t.Errorf("Len() changed to %d", h.Len())
	}
}

func TestHistory_Reset(t *testing.T) {
	h := NewHistory(4)
	for i := 0; i < 6; i++ {
		h.Push(true)
	}
	h.Reset()
	if h.CountTrue() != 0 {
		t.Errorf("CountTrue() after Reset = %d", h.CountTrue())
	}
}

// fill pushes a window so that Values() equals w.
func fill(d *Debouncer, w []bool) bool {
	var out bool
	for _, v := range w {
		out = d.Update(v)
	}
	return out
}

func TestDebouncer_Windows(t *testing.T) {
	T, F := true, false
	tests := []struct {
		name   string
		window []bool
		expect bool
	}{
		{"all absent", []bool{F, F, F, F, F}, false},
		{"single hit", []bool{T, F, F, F, F}, false},
		{"two hits", []bool{T, T, F, F, F}, true},
		{"three hits", []bool{T, T, T, F, F}, true},
		{"two scattered", []bool{F, T, F, F, T}, true},
		{"all present", []bool{T, T, T, T, T}, true},
		{"only newest", []bool{F, F, F, F, T}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDebouncer(DefaultConfig())
			if got := fill(d, tc.window); got != tc.expect {
				t.Errorf("window %v: confirmed = %v, want %v", tc.window, got, tc.expect)
			}
		})
	}
}

func TestDebouncer_MatchesCountRuleExhaustively(t *testing.T) {
	for mask := 0; mask < 32; mask++ {
		window := make([]bool, 5)
		count := 0
		for i := range window {
			window[i] = mask&(1<<i) != 0
			if window[i] {
				count++
			}
		}
		d := NewDebouncer(DefaultConfig())
		if got := fill(d, window); got != (count >= 2) {
			t.Errorf("window %v: confirmed = %v, count = %d", window, got, count)
		}
	}
}

func TestDebouncer_SymmetricTransitions(t *testing.T) {
	d := NewDebouncer(DefaultConfig())

	if d.Update(true) {
		t.Error("one hit should not confirm presence")
	}
	if !d.Update(true) {
		t.Error("two hits should confirm presence")
	}

	// Presence holds while two hits remain in the window
	for i := 0; i < 3; i++ {
		if !d.Update(false) {
			t.Errorf("miss %d: presence dropped early", i+1)
		}
	}
	// Fourth miss evicts the first hit
	if d.Update(false) {
		t.Error("presence should drop once fewer than two hits remain")
	}
	if d.Count() != 1 {
		t.Errorf("Count() = %d, want 1", d.Count())
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("default invalid: %v", errs)
	}
	bad := Config{Window: 3, MinHits: 4}
	if errs := bad.Validate(); len(errs) != 1 {
		t.Errorf("expected 1 error, got %v", errs)
	}
}
