package core

// Timer counts ticks up to a limit. Every time-based rule in the simulation
// (prop lifetime, spawn immunity, death delay, prop spawning) uses one.
type Timer struct {
	Elapsed int
	Limit   int
}

// NewTimer returns a timer that is done after limit ticks.
// A limit of zero or less is done immediately.
func NewTimer(limit int) Timer {
	return Timer{Limit: limit}
}

// Tick advances the timer by one tick.
func (t *Timer) Tick() {
	t.Elapsed++
}

// IsDone reports whether the limit has been reached.
func (t Timer) IsDone() bool {
	return t.Limit <= t.Elapsed
}

// Reset rewinds the timer to zero, keeping its limit.
func (t *Timer) Reset() {
	t.Elapsed = 0
}

// Remaining returns how many ticks are left before the timer is done.
func (t Timer) Remaining() int {
	return max(0, t.Limit-t.Elapsed)
}
