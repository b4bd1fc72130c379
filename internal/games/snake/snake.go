package snake

import (
	"math/rand"

	"github.com/vovakirdan/snuake/internal/core"
)

// CameFromKind distinguishes a moved live cell from a vacated one.
type CameFromKind uint8

const (
	CameFromReal  CameFromKind = iota // A live cell moved from From to To
	CameFromDummy                     // A vacated cell with no successor
)

func (k CameFromKind) String() string {
	if k == CameFromDummy {
		return "Dummy"
	}
	return "Real"
}

// CameFrom is an animation hint pairing a cell with where it moved from.
type CameFrom struct {
	Kind CameFromKind `json:"kind"`
	To   core.Index   `json:"to"`
	From core.Index   `json:"from"`
}

func realMove(to, from core.Index) *CameFrom {
	return &CameFrom{Kind: CameFromReal, To: to, From: from}
}

func dummyMove(to, from core.Index) *CameFrom {
	return &CameFrom{Kind: CameFromDummy, To: to, From: from}
}

// Snake is the per-agent state machine:
// spawning (immortal) → alive (mortal) → dying → replaced by a fresh Snake.
type Snake struct {
	id         SnakeID
	pos        core.Index // Head cell
	prevLast   core.Index // Last vacated tail cell
	dead       bool
	deathTimer *core.Timer
	spawnTimer core.Timer
	score      int
	body       []core.Index // Head-to-tail, excluding the head
	growCount  int          // Pending growth; 0 when none
	currDir    core.Direction
	nextDir    *core.Direction
	buffs      buffSet

	cameFromHead *CameFrom
	cameFromTail *CameFrom
}

// newSnake creates a snake at pos with one unit of pending growth and a
// random heading. immunity is the length of the spawn window in ticks.
func newSnake(id SnakeID, pos core.Index, immunity int, rng *rand.Rand) *Snake {
	s := &Snake{
		id:         id,
		pos:        pos,
		prevLast:   pos,
		spawnTimer: core.NewTimer(immunity),
		currDir:    core.RandomDirection(rng),
	}
	s.grow(1)
	return s
}

// ID returns the snake id.
func (s *Snake) ID() SnakeID { return s.id }

// Pos returns the head cell.
func (s *Snake) Pos() core.Index { return s.pos }

// Score returns the current score.
func (s *Snake) Score() int { return s.score }

// BodyLen returns the number of body cells, excluding the head.
func (s *Snake) BodyLen() int { return len(s.body) }

// IsDead reports whether the snake is dying or waiting to respawn.
func (s *Snake) IsDead() bool { return s.dead }

// IsImmortal reports whether the spawn window is still open.
func (s *Snake) IsImmortal() bool { return !s.spawnTimer.IsDone() }

// IsMortal reports whether the snake is alive and past its spawn window.
func (s *Snake) IsMortal() bool { return s.spawnTimer.IsDone() && !s.dead }

// Direction returns the current heading.
func (s *Snake) Direction() core.Direction { return s.currDir }

// GrowCount returns the pending growth.
func (s *Snake) GrowCount() int { return s.growCount }

func (s *Snake) giveBuff(b Buff) {
	s.buffs = s.buffs.add(b)
}

func (s *Snake) giveScore(delta int) {
	if delta > 0 && s.buffs.has(BuffDoubleScore) {
		delta *= 2
	}
	s.score = max(0, s.score+delta)
}

// tick advances the spawn window, the buffs, and the death countdown. While
// dying, one body cell is shed per tick starting next to the former head, so
// the corpse retracts toward its tail.
func (s *Snake) tick(grid *Grid) {
	if !s.spawnTimer.IsDone() {
		s.spawnTimer.Tick()
	}
	s.buffs = s.buffs.tick()

	if s.deathTimer == nil || s.deathTimer.IsDone() {
		return
	}
	s.deathTimer.Tick()

	if len(s.body) == 0 {
		return
	}
	first := s.body[0]
	s.body = s.body[1:]
	grid.Remove(first)

	if len(s.body) > 0 {
		s.cameFromTail = realMove(s.body[0], first)
	} else {
		s.cameFromTail = dummyMove(s.prevLast, first)
	}
}

// shouldSpawn reports whether the death countdown has finished.
func (s *Snake) shouldSpawn() bool {
	return s.deathTimer != nil && s.deathTimer.IsDone()
}

// removeHead vacates the head cell. Immortal heads stay put because
// moveBody re-adds them every tick.
func (s *Snake) removeHead(grid *Grid) {
	if s.spawnTimer.IsDone() {
		grid.Remove(s.pos)
	}
}

// moveBody turns the current head cell into the neck, then either consumes
// one unit of growth or vacates the tail. While immortal the head is simply
// (re)placed and no trail is grown.
func (s *Snake) moveBody(grid *Grid) {
	if !s.spawnTimer.IsDone() {
		grid.Add(s.pos, ImmortalHeadEntity(s.id))
		s.cameFromHead = realMove(s.pos, s.pos)
		return
	}

	s.body = append([]core.Index{s.pos}, s.body...)
	grid.Add(s.pos, BodyEntity(s.id))

	if s.growCount > 0 {
		s.growCount--
		return
	}

	last := s.body[len(s.body)-1]
	s.body = s.body[:len(s.body)-1]
	grid.Remove(last)

	if len(s.body) > 0 {
		s.cameFromTail = realMove(s.body[len(s.body)-1], last)
	}
	s.prevLast = last
}

// tickHead applies a buffered turn and moves the head one cell.
func (s *Snake) tickHead(grid *Grid) {
	if !s.spawnTimer.IsDone() {
		return
	}

	prev := s.pos
	s.tickDir()
	s.pos = grid.Wrap(s.pos.Neighbor(s.currDir))
	s.cameFromHead = realMove(s.pos, prev)
}

// tickDir consumes the buffered direction, accepting only 90° turns.
func (s *Snake) tickDir() {
	if s.nextDir == nil {
		return
	}
	next := *s.nextDir
	s.nextDir = nil
	if s.currDir.IsPerpendicular(next) {
		s.currDir = next
	}
}

// giveDirection buffers a turn for the next tick. While immortal the snake
// does not move, so the heading is replaced outright.
func (s *Snake) giveDirection(dir core.Direction) {
	if s.spawnTimer.IsDone() {
		s.nextDir = &dir
		return
	}
	s.currDir = dir
}

func (s *Snake) grow(n int) {
	if n <= 0 {
		return
	}
	s.growCount += n
}

// kill starts the death countdown. The extra tick vacates the dummy tail.
func (s *Snake) kill() {
	if s.dead {
		return
	}
	s.dead = true
	s.deathTimer = &core.Timer{Limit: 1 + len(s.body)}
}

// remove vacates every remaining body cell.
func (s *Snake) remove(grid *Grid) {
	for _, idx := range s.body {
		grid.Remove(idx)
	}
	s.body = nil
}

// takeCameFrom returns and clears the animation hints.
func (s *Snake) takeCameFrom() (head, tail *CameFrom) {
	head, tail = s.cameFromHead, s.cameFromTail
	s.cameFromHead, s.cameFromTail = nil, nil
	return head, tail
}
