// Package snake implements the deterministic simulation core of the
// multiplayer snake arena: a toroidal grid holding at most one entity per
// cell, an N-way collision resolver, the prop catalog, per-snake state
// machines, and the GameState that advances all of it one tick at a time.
//
// The package has no I/O and no logging. Every call runs to completion on the
// caller's goroutine; callers that share a GameState must serialize access.
package snake

import "fmt"

// SnakeID identifies a snake for the lifetime of a GameState.
type SnakeID = uint64

// PropID identifies a spawned prop for the lifetime of a GameState.
type PropID = uint64

// EntityKind tags the variant stored in an Entity.
type EntityKind uint8

const (
	EntityNone EntityKind = iota
	EntityProp
	EntitySnakeBody
	EntitySnakeHead
	EntityImmortalSnakeHead // Head during the spawn window; cannot die
)

func (k EntityKind) String() string {
	switch k {
	case EntityNone:
		return "none"
	case EntityProp:
		return "prop"
	case EntitySnakeBody:
		return "snake_body"
	case EntitySnakeHead:
		return "snake_head"
	case EntityImmortalSnakeHead:
		return "immortal_snake_head"
	default:
		return "unknown"
	}
}

// Entity is the occupant of a grid cell. The zero value is a vacant cell.
// ID is the snake id for snake parts and the prop id for props.
type Entity struct {
	Kind EntityKind
	ID   uint64
	Prop PropKind // Only meaningful when Kind == EntityProp
}

// PropEntity builds a prop occupant.
func PropEntity(id PropID, kind PropKind) Entity {
	return Entity{Kind: EntityProp, ID: id, Prop: kind}
}

// BodyEntity builds a snake body occupant.
func BodyEntity(id SnakeID) Entity {
	return Entity{Kind: EntitySnakeBody, ID: id}
}

// HeadEntity builds a mortal snake head occupant.
func HeadEntity(id SnakeID) Entity {
	return Entity{Kind: EntitySnakeHead, ID: id}
}

// ImmortalHeadEntity builds an invulnerable snake head occupant.
func ImmortalHeadEntity(id SnakeID) Entity {
	return Entity{Kind: EntityImmortalSnakeHead, ID: id}
}

// IsEmpty reports whether the entity is the vacant cell.
func (e Entity) IsEmpty() bool { return e.Kind == EntityNone }

// IsProp reports whether the entity is a prop.
func (e Entity) IsProp() bool { return e.Kind == EntityProp }

// IsSnakeHead reports whether the entity is a mortal snake head.
// Immortal heads report false; they collide like bodies.
func (e Entity) IsSnakeHead() bool { return e.Kind == EntitySnakeHead }

func (e Entity) String() string {
	if e.Kind == EntityProp {
		return fmt.Sprintf("prop(id=%d, kind=%s)", e.ID, e.Prop)
	}
	return fmt.Sprintf("%s(id=%d)", e.Kind, e.ID)
}

// Tag returns the read-only projection of the entity used by renderers and
// the network layer. Props are tagged with their catalog kind, not their
// instance id, so clients can tell food apart.
func (e Entity) Tag() Tag {
	switch e.Kind {
	case EntityProp:
		return Tag{Kind: TagProp, ID: uint64(e.Prop)}
	case EntitySnakeBody:
		return Tag{Kind: TagSnakeBody, ID: e.ID}
	case EntitySnakeHead, EntityImmortalSnakeHead:
		return Tag{Kind: TagSnakeHead, ID: e.ID}
	default:
		return Tag{Kind: TagNone}
	}
}

// TagKind is the coarse occupant category exposed to consumers.
type TagKind uint8

const (
	TagNone TagKind = iota
	TagProp
	TagSnakeHead
	TagSnakeBody
)

func (k TagKind) String() string {
	switch k {
	case TagNone:
		return "None"
	case TagProp:
		return "Prop"
	case TagSnakeHead:
		return "SnakeHead"
	case TagSnakeBody:
		return "SnakeBody"
	default:
		return "Unknown"
	}
}

// Tag is the projection of one grid cell.
type Tag struct {
	Kind TagKind `json:"kind"`
	ID   uint64  `json:"id"`
}

// Cmd is the effect a SnakeEvent applies.
type Cmd uint8

const (
	CmdKill Cmd = iota
	CmdGiveScore
	CmdGrow
	CmdGiveBuff
)

func (c Cmd) String() string {
	switch c {
	case CmdKill:
		return "kill"
	case CmdGiveScore:
		return "give_score"
	case CmdGrow:
		return "grow"
	case CmdGiveBuff:
		return "give_buff"
	default:
		return "unknown"
	}
}

// SnakeEvent is an effect targeting one snake, applied after collision
// resolution. Amount carries the score delta for CmdGiveScore and the
// (positive) growth for CmdGrow.
type SnakeEvent struct {
	SnakeID SnakeID
	Cmd     Cmd
	Amount  int
	Buff    Buff
}

// Kill returns an event that kills the snake.
func Kill(id SnakeID) SnakeEvent {
	return SnakeEvent{SnakeID: id, Cmd: CmdKill}
}

// GiveScore returns an event that adds delta (possibly negative) to the score.
func GiveScore(id SnakeID, delta int) SnakeEvent {
	return SnakeEvent{SnakeID: id, Cmd: CmdGiveScore, Amount: delta}
}

// Grow returns an event that queues n units of growth. n must be positive.
func Grow(id SnakeID, n int) SnakeEvent {
	return SnakeEvent{SnakeID: id, Cmd: CmdGrow, Amount: n}
}

// GiveBuff returns an event that grants a timed buff.
func GiveBuff(id SnakeID, b Buff) SnakeEvent {
	return SnakeEvent{SnakeID: id, Cmd: CmdGiveBuff, Buff: b}
}

// PropEventKind tags a PropEvent.
type PropEventKind uint8

const (
	PropRemove PropEventKind = iota
)

// PropEvent tells the PropManager to drop bookkeeping for a prop.
type PropEvent struct {
	Kind   PropEventKind
	PropID PropID
}

// RemoveProp returns a removal event for the given prop.
func RemoveProp(id PropID) PropEvent {
	return PropEvent{Kind: PropRemove, PropID: id}
}
