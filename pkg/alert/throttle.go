package alert

import "time"

// Throttle decides whether an absence or mismatch reading should produce an
// alert. It is not safe for concurrent use; the loop goroutine owns it.
type Throttle struct {
	cooldown time.Duration
	policy   Policy

	// last holds the most recent alert time per kind. Under PolicyShared
	// only the KindMissing slot is used.
	last map[Kind]time.Time

	absent       bool
	absenceStart time.Time
}

// NewThrottle creates a throttle with no alert history.
func NewThrottle(cooldown time.Duration, policy Policy) *Throttle {
	if policy == "" {
		policy = PolicyShared
	}
	return &Throttle{
		cooldown: cooldown,
		policy:   policy,
		last:     make(map[Kind]time.Time, 2),
	}
}

func (t *Throttle) slot(k Kind) Kind {
	if t.policy == PolicyShared {
		return KindMissing
	}
	return k
}

// open reports whether more than cooldown has passed since the last alert
// in the kind's slot. A slot that never fired is open.
func (t *Throttle) open(k Kind, now time.Time) bool {
	last, ok := t.last[t.slot(k)]
	if !ok {
		return true
	}
	return now.Sub(last) > t.cooldown
}

func (t *Throttle) mark(k Kind, now time.Time) {
	t.last[t.slot(k)] = now
}

// Absent records a reading without a confirmed face. The first absent reading
// starts the absence timer. It returns true when the face has been gone for
// longer than the cooldown and the gate is open; the caller must then emit a
// KindMissing alert.
func (t *Throttle) Absent(now time.Time) bool {
	if !t.absent {
		t.absent = true
		t.absenceStart = now
	}
	if now.Sub(t.absenceStart) > t.cooldown && t.open(KindMissing, now) {
		t.mark(KindMissing, now)
		return true
	}
	return false
}

// Present clears the absence timer.
func (t *Throttle) Present() {
	t.absent = false
	t.absenceStart = time.Time{}
}

// Mismatch records a different-person reading and returns true when the
// caller must emit a KindMismatch alert.
func (t *Throttle) Mismatch(now time.Time) bool {
	if t.open(KindMismatch, now) {
		t.mark(KindMismatch, now)
		return true
	}
	return false
}

// AbsentSince returns when the current absence started.
func (t *Throttle) AbsentSince() (time.Time, bool) {
	return t.absenceStart, t.absent
}

// LastAlert returns the most recent alert time that gates kind k.
func (t *Throttle) LastAlert(k Kind) (time.Time, bool) {
	last, ok := t.last[t.slot(k)]
	return last, ok
}

// Policy returns the active cooldown policy.
func (t *Throttle) Policy() Policy {
	return t.policy
}
