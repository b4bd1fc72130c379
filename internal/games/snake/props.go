package snake

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/snuake/internal/core"
)

// CollisionResult says which side of a head-vs-prop collision keeps the cell.
type CollisionResult uint8

const (
	RemoveSelf  CollisionResult = iota // Prop is consumed, head keeps the cell
	RemoveBoth                         // Prop is consumed, head does not take the cell
	RemoveOther                        // Prop stays, head is blocked
)

func (r CollisionResult) String() string {
	switch r {
	case RemoveSelf:
		return "remove_self"
	case RemoveBoth:
		return "remove_both"
	case RemoveOther:
		return "remove_other"
	default:
		return "unknown"
	}
}

// PropKind is the closed catalog of props. The numeric value is also the
// id exposed through Tag.
type PropKind uint8

const (
	PropGrowFood PropKind = iota
	PropBadFood
	PropGoldFood
	PropRock
)

// PropKinds lists the catalog in id order.
var PropKinds = [...]PropKind{PropGrowFood, PropBadFood, PropGoldFood, PropRock}

const (
	defaultFoodLifetime = 20
	rockLifetime        = 40
	goldScore           = 3
	goldBuffTicks       = 30
)

func (k PropKind) String() string {
	switch k {
	case PropGrowFood:
		return "grow_food"
	case PropBadFood:
		return "bad_food"
	case PropGoldFood:
		return "gold_food"
	case PropRock:
		return "rock"
	default:
		return "unknown"
	}
}

// ParsePropKind converts a name produced by String back into a PropKind.
func ParsePropKind(s string) (PropKind, error) {
	for _, k := range PropKinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("snake: unknown prop kind %q", s)
}

// CollisionResult returns the collision policy of the kind.
func (k PropKind) CollisionResult() CollisionResult {
	switch k {
	case PropBadFood:
		return RemoveBoth
	case PropRock:
		return RemoveOther
	default:
		return RemoveSelf
	}
}

// CollisionEvents returns the effects on the snake whose head reached the prop.
func (k PropKind) CollisionEvents(id SnakeID) []SnakeEvent {
	switch k {
	case PropGrowFood:
		return []SnakeEvent{Grow(id, 1), GiveScore(id, 1)}
	case PropBadFood, PropRock:
		return []SnakeEvent{Kill(id)}
	case PropGoldFood:
		return []SnakeEvent{
			GiveScore(id, goldScore),
			GiveBuff(id, Buff{Kind: BuffDoubleScore, Ticks: goldBuffTicks}),
		}
	default:
		return nil
	}
}

// Lifetime returns the default expiry timer for the kind.
func (k PropKind) Lifetime() (core.Timer, bool) {
	switch k {
	case PropRock:
		return core.NewTimer(rockLifetime), true
	default:
		return core.NewTimer(defaultFoodLifetime), true
	}
}

// PropWeights maps each catalog kind to its relative spawn weight.
type PropWeights map[PropKind]int

// DefaultPropWeights picks grow and bad food with equal odds and never
// spawns the other kinds.
func DefaultPropWeights() PropWeights {
	return PropWeights{
		PropGrowFood: 1,
		PropBadFood:  1,
	}
}

// Total returns the sum of the positive weights.
func (w PropWeights) Total() int {
	total := 0
	for _, k := range PropKinds {
		if w[k] > 0 {
			total += w[k]
		}
	}
	return total
}

// Pick draws a kind by weighted-random index over the catalog, walking it in
// id order so the same rng state always yields the same kind.
func (w PropWeights) Pick(rng *rand.Rand) (PropKind, bool) {
	total := w.Total()
	if total == 0 {
		return 0, false
	}

	n := rng.Intn(total)
	for _, k := range PropKinds {
		if w[k] <= 0 {
			continue
		}
		if n < w[k] {
			return k, true
		}
		n -= w[k]
	}
	return 0, false
}

// propEntry is the bookkeeping for one live prop.
type propEntry struct {
	timer    core.Timer
	hasTimer bool
	id       PropID
	pos      core.Index
}

// PropManager tracks live props and their expiry.
type PropManager struct {
	props []propEntry
}

// NewPropManager creates an empty manager.
func NewPropManager() *PropManager {
	return &PropManager{}
}

// Add starts tracking a prop. Props without a timer only leave by collision.
func (m *PropManager) Add(timer core.Timer, hasTimer bool, id PropID, pos core.Index) {
	m.props = append(m.props, propEntry{timer: timer, hasTimer: hasTimer, id: id, pos: pos})
}

// Tick advances every lifetime timer by one.
func (m *PropManager) Tick() {
	for i := range m.props {
		if m.props[i].hasTimer {
			m.props[i].timer.Tick()
		}
	}
}

// RemoveByID drops a prop consumed in a collision.
func (m *PropManager) RemoveByID(id PropID) {
	kept := m.props[:0]
	for _, p := range m.props {
		if p.id != id {
			kept = append(kept, p)
		}
	}
	m.props = kept
}

// ExpiredProp is a prop whose lifetime ran out.
type ExpiredProp struct {
	ID  PropID
	Pos core.Index
}

// IndicesToRemove drains every prop whose timer completed and returns where
// they were.
func (m *PropManager) IndicesToRemove() []ExpiredProp {
	var expired []ExpiredProp
	kept := m.props[:0]
	for _, p := range m.props {
		if p.hasTimer && p.timer.IsDone() {
			expired = append(expired, ExpiredProp{ID: p.id, Pos: p.pos})
			continue
		}
		kept = append(kept, p)
	}
	m.props = kept
	return expired
}

// Len returns the number of live props.
func (m *PropManager) Len() int {
	return len(m.props)
}
