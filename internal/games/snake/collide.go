package snake

import (
	"errors"
	"fmt"
)

// ErrImpossibleCollision reports a set of contenders the grid bookkeeping
// should never produce, such as two non-head occupants in one cell.
var ErrImpossibleCollision = errors.New("snake: impossible collision")

// Resolution is the outcome of resolving one contested cell.
type Resolution struct {
	Survivor    Entity // EntityNone when the cell ends empty
	PropEvents  []PropEvent
	SnakeEvents []SnakeEvent
}

// Collide resolves exactly two contenders, one of which must be a mortal
// snake head.
func Collide(a, b Entity) (Resolution, error) {
	if !a.IsSnakeHead() {
		a, b = b, a
	}
	if !a.IsSnakeHead() {
		return Resolution{}, fmt.Errorf("%w: no head in %v; %v", ErrImpossibleCollision, a, b)
	}

	var res Resolution
	head := a.ID

	switch b.Kind {
	case EntityProp:
		res.SnakeEvents = append(res.SnakeEvents, b.Prop.CollisionEvents(head)...)

		switch b.Prop.CollisionResult() {
		case RemoveSelf:
			res.PropEvents = append(res.PropEvents, RemoveProp(b.ID))
			res.Survivor = a
		case RemoveBoth:
			res.PropEvents = append(res.PropEvents, RemoveProp(b.ID))
		case RemoveOther:
			res.Survivor = b
		}

	case EntitySnakeBody, EntityImmortalSnakeHead:
		res.SnakeEvents = append(res.SnakeEvents, Kill(head))
		res.Survivor = b

	case EntitySnakeHead:
		res.SnakeEvents = append(res.SnakeEvents, Kill(head), Kill(b.ID))

	default:
		return Resolution{}, fmt.Errorf("%w: %v; %v", ErrImpossibleCollision, a, b)
	}

	return res, nil
}

// CollideMany resolves every entity contending for one cell in a tick.
//
// With three or more contenders the heads are separated from the rest. The
// grid holds at most one entity per cell between ticks, so at most one
// non-head can be present; more than one is an invariant violation. Every
// head dies. A surviving body or immortal head keeps the cell; a prop keeps it
// only under RemoveOther, and its collision events are not applied because no
// single snake reached it.
func CollideMany(ens []Entity) (Resolution, error) {
	switch len(ens) {
	case 0:
		return Resolution{}, nil
	case 1:
		return Resolution{Survivor: ens[0]}, nil
	case 2:
		return Collide(ens[0], ens[1])
	}

	var heads, others []Entity
	for _, e := range ens {
		if e.IsSnakeHead() {
			heads = append(heads, e)
		} else {
			others = append(others, e)
		}
	}

	if len(others) > 1 {
		return Resolution{}, fmt.Errorf("%w: %d non-head occupants in %v", ErrImpossibleCollision, len(others), ens)
	}

	res := Resolution{SnakeEvents: killAll(heads)}
	if len(others) == 0 {
		return res, nil
	}

	other := others[0]
	switch other.Kind {
	case EntitySnakeBody, EntityImmortalSnakeHead:
		res.Survivor = other
	case EntityProp:
		switch other.Prop.CollisionResult() {
		case RemoveSelf, RemoveBoth:
			res.PropEvents = append(res.PropEvents, RemoveProp(other.ID))
		case RemoveOther:
			res.Survivor = other
		}
	default:
		return Resolution{}, fmt.Errorf("%w: unexpected occupant %v", ErrImpossibleCollision, other)
	}

	return res, nil
}

func killAll(heads []Entity) []SnakeEvent {
	evs := make([]SnakeEvent, 0, len(heads))
	for _, h := range heads {
		evs = append(evs, Kill(h.ID))
	}
	return evs
}
