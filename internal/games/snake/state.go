package snake

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"

	"github.com/vovakirdan/snuake/internal/core"
)

var (
	// ErrUnknownSnake is returned for snake ids the state does not hold.
	ErrUnknownSnake = errors.New("snake: unknown snake id")

	// ErrNoSpace is returned when the grid has no vacant cell.
	ErrNoSpace = errors.New("snake: no vacant cell")

	// ErrOccupied is returned when placing onto a taken cell.
	ErrOccupied = errors.New("snake: cell occupied")

	// ErrOutOfBounds is returned for cells outside the grid.
	ErrOutOfBounds = errors.New("snake: cell out of bounds")
)

// GameData is everything a client needs to draw one tick.
type GameData struct {
	CameFromHeads map[SnakeID]CameFrom `json:"came_from_heads"`
	CameFromTails map[SnakeID]CameFrom `json:"came_from_tails"`
	Grid          GridData             `json:"grid_data"`
}

// Builder configures a GameState.
type Builder struct {
	rows           int
	cols           int
	propSpawnTimer core.Timer
	spawnImmunity  int
	propLifetime   int
	propWeights    PropWeights
	rng            *rand.Rand
}

// NewBuilder returns a builder with the default settings: a 16×16 grid, a
// prop every 5 ticks, a 5-tick spawn window, catalog prop lifetimes, and the
// default prop weights.
func NewBuilder() *Builder {
	return &Builder{
		rows:           16,
		cols:           16,
		propSpawnTimer: core.NewTimer(5),
		spawnImmunity:  5,
		propWeights:    DefaultPropWeights(),
	}
}

// WithDimensions sets the grid size.
func (b *Builder) WithDimensions(rows, cols int) *Builder {
	b.rows = rows
	b.cols = cols
	return b
}

// WithPropSpawnTimer sets the interval between prop spawns.
func (b *Builder) WithPropSpawnTimer(t core.Timer) *Builder {
	b.propSpawnTimer = t
	return b
}

// WithSpawnImmunity sets the length of the post-spawn immortal window.
// The window is at least one tick: a snake must be placed before it can move.
func (b *Builder) WithSpawnImmunity(ticks int) *Builder {
	b.spawnImmunity = ticks
	return b
}

// WithPropLifetime overrides the lifetime of every prop kind.
// Zero keeps the catalog lifetimes; a negative value disables expiry.
func (b *Builder) WithPropLifetime(ticks int) *Builder {
	b.propLifetime = ticks
	return b
}

// WithPropWeights replaces the spawn weight table.
func (b *Builder) WithPropWeights(w PropWeights) *Builder {
	b.propWeights = w
	return b
}

// WithSeed seeds the state's random source.
func (b *Builder) WithSeed(seed int64) *Builder {
	b.rng = rand.New(rand.NewSource(seed))
	return b
}

// WithRand uses rng as the state's random source.
func (b *Builder) WithRand(rng *rand.Rand) *Builder {
	b.rng = rng
	return b
}

// Build creates the GameState.
func (b *Builder) Build() *GameState {
	rng := b.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(core.DefaultConfig().ResolveSeed()))
	}

	return &GameState{
		grid:           NewGrid(max(1, b.rows), max(1, b.cols)),
		props:          NewPropManager(),
		propSpawnTimer: b.propSpawnTimer,
		propWeights:    b.propWeights,
		propLifetime:   b.propLifetime,
		spawnImmunity:  max(1, b.spawnImmunity),
		snakes:         make(map[SnakeID]*Snake),
		rng:            rng,
	}
}

// GameState owns the grid, every snake, and the props, and advances them
// one deterministic tick per call. It is not safe for concurrent use.
type GameState struct {
	grid           *Grid
	props          *PropManager
	propSpawnTimer core.Timer
	propWeights    PropWeights
	propLifetime   int
	spawnImmunity  int

	snakes map[SnakeID]*Snake
	order  []SnakeID // Ascending ids; fixes iteration order

	nextPropID  PropID
	nextSnakeID SnakeID
	tick        uint64
	rng         *rand.Rand
}

// contest is every entity competing for one cell this tick.
type contest struct {
	pos core.Index
	ens []Entity
}

// Tick advances the simulation one step. Collisions the grid should never
// produce and events for unknown snakes are skipped and reported in the
// returned error; the tick still completes.
func (st *GameState) Tick() error {
	st.tick++

	// 1. per-snake state machines and movement
	for _, id := range st.order {
		sn := st.snakes[id]
		sn.tick(st.grid)

		if !sn.dead {
			sn.removeHead(st.grid)
			sn.moveBody(st.grid)
			sn.tickHead(st.grid)
		}
	}

	// 2. bucket mortal heads by destination, with any occupant already there
	var contests []*contest
	byPos := make(map[core.Index]*contest)
	for _, id := range st.order {
		sn := st.snakes[id]
		if !sn.IsMortal() {
			continue
		}

		head := HeadEntity(sn.id)
		if c, ok := byPos[sn.pos]; ok {
			c.ens = append(c.ens, head)
			continue
		}

		c := &contest{pos: sn.pos, ens: []Entity{head}}
		if occupant := st.grid.Take(sn.pos); !occupant.IsEmpty() {
			c.ens = append(c.ens, occupant)
		}
		byPos[sn.pos] = c
		contests = append(contests, c)
	}

	// 3. resolve each cell
	var (
		errs     []error
		propEvs  []PropEvent
		snakeEvs []SnakeEvent
	)
	for _, c := range contests {
		res, err := CollideMany(c.ens)
		if err != nil {
			errs = append(errs, fmt.Errorf("tick %d at %v: %w", st.tick, c.pos, err))
			continue
		}
		if !res.Survivor.IsEmpty() {
			st.grid.Add(c.pos, res.Survivor)
		}
		propEvs = append(propEvs, res.PropEvents...)
		snakeEvs = append(snakeEvs, res.SnakeEvents...)
	}

	// 4. apply events
	st.applyPropEvents(propEvs)
	if err := st.applySnakeEvents(snakeEvs); err != nil {
		errs = append(errs, err)
	}

	// 5. respawn finished corpses
	st.respawnDead()

	// 6. props go last: spawning needs the grid consistent after all
	// removals and respawns above
	st.tickProps()

	return errors.Join(errs...)
}

func (st *GameState) applyPropEvents(evs []PropEvent) {
	for _, ev := range evs {
		switch ev.Kind {
		case PropRemove:
			st.props.RemoveByID(ev.PropID)
		}
	}
}

func (st *GameState) applySnakeEvents(evs []SnakeEvent) error {
	var errs []error
	for _, ev := range evs {
		sn, ok := st.snakes[ev.SnakeID]
		if !ok {
			errs = append(errs, fmt.Errorf("%s event: %w %d", ev.Cmd, ErrUnknownSnake, ev.SnakeID))
			continue
		}

		switch ev.Cmd {
		case CmdKill:
			sn.kill()
		case CmdGrow:
			sn.grow(ev.Amount)
		case CmdGiveScore:
			sn.giveScore(ev.Amount)
		case CmdGiveBuff:
			sn.giveBuff(ev.Buff)
		}
	}
	return errors.Join(errs...)
}

func (st *GameState) respawnDead() {
	for _, id := range st.order {
		sn := st.snakes[id]
		if !sn.dead || !sn.shouldSpawn() {
			continue
		}

		sn.remove(st.grid)
		pos, ok := st.grid.IndexOfRandomVacant(st.rng)
		if !ok {
			// Full grid: stay dead and try again next tick
			continue
		}

		fresh := newSnake(id, pos, st.spawnImmunity, st.rng)
		fresh.score = sn.score
		fresh.moveBody(st.grid)
		st.snakes[id] = fresh
	}
}

func (st *GameState) tickProps() {
	if st.propSpawnTimer.IsDone() {
		if kind, ok := st.propWeights.Pick(st.rng); ok {
			if pos, ok := st.grid.IndexOfRandomVacant(st.rng); ok {
				st.placeProp(pos, kind)
			}
		}
		st.propSpawnTimer.Reset()
	}
	st.propSpawnTimer.Tick()

	st.props.Tick()
	for _, p := range st.props.IndicesToRemove() {
		if e := st.grid.At(p.Pos); e.IsProp() && e.ID == p.ID {
			st.grid.Remove(p.Pos)
		}
	}
}

func (st *GameState) placeProp(pos core.Index, kind PropKind) PropID {
	id := st.nextPropID
	st.nextPropID++

	timer, hasTimer := kind.Lifetime()
	switch {
	case st.propLifetime > 0:
		timer = core.NewTimer(st.propLifetime)
	case st.propLifetime < 0:
		hasTimer = false
	}

	st.props.Add(timer, hasTimer, id, pos)
	st.grid.Add(pos, PropEntity(id, kind))
	return id
}

// AddSnake spawns a new snake at a random vacant cell and returns its id.
// The immortal head is placed right away so that snakes added between two
// ticks never pick the same cell.
func (st *GameState) AddSnake() (SnakeID, error) {
	pos, ok := st.grid.IndexOfRandomVacant(st.rng)
	if !ok {
		return 0, ErrNoSpace
	}

	id := st.nextSnakeID
	st.nextSnakeID++

	sn := newSnake(id, pos, st.spawnImmunity, st.rng)
	sn.moveBody(st.grid)
	st.snakes[id] = sn
	st.order = append(st.order, id)
	return id, nil
}

// RemoveSnake despawns a snake and vacates every cell it still holds.
func (st *GameState) RemoveSnake(id SnakeID) error {
	sn, ok := st.snakes[id]
	if !ok {
		return fmt.Errorf("remove %d: %w", id, ErrUnknownSnake)
	}

	if e := st.grid.At(sn.pos); (e.Kind == EntitySnakeHead || e.Kind == EntityImmortalSnakeHead) && e.ID == id {
		st.grid.Remove(sn.pos)
	}
	sn.remove(st.grid)

	delete(st.snakes, id)
	st.order = slices.DeleteFunc(st.order, func(x SnakeID) bool { return x == id })
	return nil
}

// GiveDirection steers a snake.
func (st *GameState) GiveDirection(id SnakeID, dir core.Direction) error {
	sn, ok := st.snakes[id]
	if !ok {
		return fmt.Errorf("direction for %d: %w", id, ErrUnknownSnake)
	}
	sn.giveDirection(dir)
	return nil
}

// Score returns a snake's score.
func (st *GameState) Score(id SnakeID) (int, bool) {
	sn, ok := st.snakes[id]
	if !ok {
		return 0, false
	}
	return sn.score, true
}

// Snake returns a snake for inspection.
func (st *GameState) Snake(id SnakeID) (*Snake, bool) {
	sn, ok := st.snakes[id]
	return sn, ok
}

// Snakes returns every snake id in ascending order.
func (st *GameState) Snakes() []SnakeID {
	return slices.Clone(st.order)
}

// AddProp places a prop of the given kind on a vacant cell.
func (st *GameState) AddProp(pos core.Index, kind PropKind) (PropID, error) {
	if !st.grid.InBounds(pos) {
		return 0, fmt.Errorf("prop at %v: %w", pos, ErrOutOfBounds)
	}
	if !st.grid.At(pos).IsEmpty() {
		return 0, fmt.Errorf("prop at %v: %w", pos, ErrOccupied)
	}
	return st.placeProp(pos, kind), nil
}

// PropCount returns the number of live props.
func (st *GameState) PropCount() int {
	return st.props.Len()
}

// TickCount returns how many ticks have run.
func (st *GameState) TickCount() uint64 {
	return st.tick
}

// GridData returns a snapshot of the grid.
func (st *GameState) GridData() GridData {
	return st.grid.Data()
}

// GameData returns a snapshot of the grid together with the movement hints
// recorded since the previous call. The hints are consumed.
func (st *GameState) GameData() GameData {
	data := GameData{
		CameFromHeads: make(map[SnakeID]CameFrom),
		CameFromTails: make(map[SnakeID]CameFrom),
		Grid:          st.grid.Data(),
	}

	for _, id := range st.order {
		head, tail := st.snakes[id].takeCameFrom()
		if head != nil {
			data.CameFromHeads[id] = *head
		}
		if tail != nil {
			data.CameFromTails[id] = *tail
		}
	}

	return data
}
