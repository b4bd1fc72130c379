package snake

import "github.com/vovakirdan/snuake/internal/core"

// BuffKind is the closed catalog of timed snake modifiers.
type BuffKind uint8

const (
	// BuffDoubleScore doubles positive score deltas while active.
	BuffDoubleScore BuffKind = iota
)

func (k BuffKind) String() string {
	switch k {
	case BuffDoubleScore:
		return "double_score"
	default:
		return "unknown"
	}
}

// Buff is a modifier granted for a number of ticks.
type Buff struct {
	Kind  BuffKind
	Ticks int
}

type activeBuff struct {
	kind  BuffKind
	timer core.Timer
}

// buffSet holds the buffs currently applied to one snake.
type buffSet []activeBuff

func (s buffSet) add(b Buff) buffSet {
	if b.Ticks <= 0 {
		return s
	}
	// Re-granting a buff refreshes its timer instead of stacking
	for i := range s {
		if s[i].kind == b.Kind {
			s[i].timer = core.NewTimer(b.Ticks)
			return s
		}
	}
	return append(s, activeBuff{kind: b.Kind, timer: core.NewTimer(b.Ticks)})
}

func (s buffSet) tick() buffSet {
	kept := s[:0]
	for _, b := range s {
		b.timer.Tick()
		if !b.timer.IsDone() {
			kept = append(kept, b)
		}
	}
	return kept
}

func (s buffSet) has(kind BuffKind) bool {
	for _, b := range s {
		if b.kind == kind {
			return true
		}
	}
	return false
}
