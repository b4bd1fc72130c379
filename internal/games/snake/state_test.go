package snake

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/vovakirdan/snuake/internal/core"
)

// newTestState returns a state that never spawns props on its own.
func newTestState(rows, cols int) *GameState {
	return NewBuilder().
		WithDimensions(rows, cols).
		WithPropWeights(PropWeights{}).
		WithSeed(1).
		Build()
}

// place registers a hand-built snake and draws it on the grid.
func place(st *GameState, sn *Snake) SnakeID {
	sn.id = st.nextSnakeID
	st.nextSnakeID++

	st.grid.Add(sn.pos, HeadEntity(sn.id))
	for _, b := range sn.body {
		st.grid.Add(b, BodyEntity(sn.id))
	}
	st.snakes[sn.id] = sn
	st.order = append(st.order, sn.id)
	return sn.id
}

func mustTick(t *testing.T, st *GameState) {
	t.Helper()
	if err := st.Tick(); err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}
}

func mustSnake(t *testing.T, st *GameState, id SnakeID) *Snake {
	t.Helper()
	sn, ok := st.Snake(id)
	if !ok {
		t.Fatalf("snake %d not found", id)
	}
	return sn
}

// expectedOccupancy counts the cells the bookkeeping says are taken.
func expectedOccupancy(st *GameState) int {
	n := st.props.Len()
	for _, id := range st.order {
		sn := st.snakes[id]
		n += len(sn.body)
		if !sn.dead {
			n++
		}
	}
	return n
}

func TestSpawnWindowThenGrowth(t *testing.T) {
	st := NewBuilder().WithDimensions(5, 5).WithPropWeights(PropWeights{}).WithSeed(42).Build()

	id, err := st.AddSnake()
	if err != nil {
		t.Fatalf("AddSnake() failed: %v", err)
	}
	sn := mustSnake(t, st, id)
	start := sn.Pos()
	if got := st.grid.At(start); got != ImmortalHeadEntity(id) {
		t.Fatalf("At(start) = %v, expected immortal head", got)
	}

	for i := 1; i <= 4; i++ {
		mustTick(t, st)
		if !sn.IsImmortal() || sn.Pos() != start || sn.BodyLen() != 0 {
			t.Fatalf("tick %d: expected immortal at %v, got pos %v body %d", i, start, sn.Pos(), sn.BodyLen())
		}
	}

	mustTick(t, st)
	if !sn.IsMortal() {
		t.Fatal("tick 5: expected mortal snake")
	}
	if sn.BodyLen() != 1 || sn.GrowCount() != 0 {
		t.Fatalf("tick 5: body %d grow %d, expected 1 and 0", sn.BodyLen(), sn.GrowCount())
	}
	if want := st.grid.Wrap(start.Neighbor(sn.Direction())); sn.Pos() != want {
		t.Fatalf("tick 5: head at %v, expected %v", sn.Pos(), want)
	}

	ahead := st.grid.Wrap(sn.Pos().Neighbor(sn.Direction()))
	if _, err := st.AddProp(ahead, PropGrowFood); err != nil {
		t.Fatalf("AddProp() failed: %v", err)
	}

	mustTick(t, st)
	if sn.Score() != 1 || sn.GrowCount() != 1 || sn.BodyLen() != 1 {
		t.Errorf("tick 6: score %d grow %d body %d, expected 1 1 1", sn.Score(), sn.GrowCount(), sn.BodyLen())
	}
	if st.PropCount() != 0 {
		t.Errorf("tick 6: PropCount() = %d, expected 0", st.PropCount())
	}

	mustTick(t, st)
	if sn.BodyLen() != 2 || sn.GrowCount() != 0 {
		t.Errorf("tick 7: body %d grow %d, expected 2 and 0", sn.BodyLen(), sn.GrowCount())
	}
}

func TestHeadOnCollision(t *testing.T) {
	st := newTestState(5, 5)
	a := place(st, mortalSnake(core.Idx(2, 1), core.DirRight))
	b := place(st, mortalSnake(core.Idx(2, 3), core.DirLeft))
	st.snakes[a].score = 4

	mustTick(t, st)

	if !mustSnake(t, st, a).IsDead() || !mustSnake(t, st, b).IsDead() {
		t.Fatal("both snakes should die")
	}
	if !st.grid.At(core.Idx(2, 2)).IsEmpty() {
		t.Errorf("contested cell holds %v", st.grid.At(core.Idx(2, 2)))
	}
	if st.grid.Occupied() != 0 {
		t.Errorf("Occupied() = %d, expected 0", st.grid.Occupied())
	}

	mustTick(t, st)

	sa := mustSnake(t, st, a)
	if sa.IsDead() || !sa.IsImmortal() {
		t.Error("snake a should respawn immortal")
	}
	if sa.Score() != 4 {
		t.Errorf("respawn lost score: %d", sa.Score())
	}
	if st.grid.Occupied() != 2 {
		t.Errorf("Occupied() = %d, expected 2", st.grid.Occupied())
	}
}

func TestHeadIntoBody(t *testing.T) {
	st := newTestState(5, 5)
	a := place(st, mortalSnake(core.Idx(1, 2), core.DirDown))
	b := place(st, mortalSnake(core.Idx(2, 3), core.DirRight, core.Idx(2, 2), core.Idx(2, 1)))

	mustTick(t, st)

	if !mustSnake(t, st, a).IsDead() {
		t.Error("snake a should die on b's body")
	}
	if mustSnake(t, st, b).IsDead() {
		t.Error("snake b should survive")
	}
	if got := st.grid.At(core.Idx(2, 2)); got != BodyEntity(b) {
		t.Errorf("At(2, 2) = %v, expected b's body", got)
	}
	if got := st.grid.At(core.Idx(2, 4)); got != HeadEntity(b) {
		t.Errorf("At(2, 4) = %v, expected b's head", got)
	}
}

func TestHeadIntoImmortalHead(t *testing.T) {
	st := newTestState(5, 5)
	a := place(st, mortalSnake(core.Idx(2, 1), core.DirRight))
	b := place(st, newSnake(0, core.Idx(2, 2), 5, rand.New(rand.NewSource(1))))
	st.grid.Add(core.Idx(2, 2), ImmortalHeadEntity(b))

	mustTick(t, st)

	if !mustSnake(t, st, a).IsDead() {
		t.Error("mortal snake should die on the immortal head")
	}
	if got := st.grid.At(core.Idx(2, 2)); got != ImmortalHeadEntity(b) {
		t.Errorf("At(2, 2) = %v, expected immortal head", got)
	}
}

func TestPropEffects(t *testing.T) {
	tests := []struct {
		name     string
		prop     PropKind
		dead     bool
		score    int
		grow     int
		props    int
		occupant Entity
	}{
		{"grow food", PropGrowFood, false, 1, 1, 0, HeadEntity(0)},
		{"bad food", PropBadFood, true, 0, 0, 0, Entity{}},
		{"gold food", PropGoldFood, false, goldScore, 0, 0, HeadEntity(0)},
		{"rock", PropRock, true, 0, 0, 1, PropEntity(0, PropRock)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := newTestState(5, 5)
			id := place(st, mortalSnake(core.Idx(2, 1), core.DirRight, core.Idx(2, 0)))
			if _, err := st.AddProp(core.Idx(2, 2), tc.prop); err != nil {
				t.Fatalf("AddProp() failed: %v", err)
			}

			mustTick(t, st)

			sn := mustSnake(t, st, id)
			if sn.IsDead() != tc.dead {
				t.Errorf("IsDead() = %v, expected %v", sn.IsDead(), tc.dead)
			}
			if sn.Score() != tc.score || sn.GrowCount() != tc.grow {
				t.Errorf("score %d grow %d, expected %d %d", sn.Score(), sn.GrowCount(), tc.score, tc.grow)
			}
			if st.PropCount() != tc.props {
				t.Errorf("PropCount() = %d, expected %d", st.PropCount(), tc.props)
			}
			if got := st.grid.At(core.Idx(2, 2)); got != tc.occupant {
				t.Errorf("At(2, 2) = %v, expected %v", got, tc.occupant)
			}
		})
	}
}

func TestGoldFoodDoublesNextScore(t *testing.T) {
	st := newTestState(5, 5)
	id := place(st, mortalSnake(core.Idx(2, 0), core.DirRight))
	if _, err := st.AddProp(core.Idx(2, 1), PropGoldFood); err != nil {
		t.Fatal(err)
	}
	if _, err := st.AddProp(core.Idx(2, 2), PropGrowFood); err != nil {
		t.Fatal(err)
	}

	mustTick(t, st)
	mustTick(t, st)

	if got, _ := st.Score(id); got != goldScore+2 {
		t.Errorf("Score() = %d, expected %d", got, goldScore+2)
	}
}

func TestConvergingHeads(t *testing.T) {
	center := core.Idx(2, 2)

	tests := []struct {
		name     string
		prop     *PropKind
		survivor Entity
		props    int
	}{
		{"empty cell", nil, Entity{}, 0},
		{"grow food is lost", ptr(PropGrowFood), Entity{}, 0},
		{"rock stays", ptr(PropRock), PropEntity(0, PropRock), 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := newTestState(5, 5)
			ids := []SnakeID{
				place(st, mortalSnake(core.Idx(1, 2), core.DirDown)),
				place(st, mortalSnake(core.Idx(3, 2), core.DirUp)),
				place(st, mortalSnake(core.Idx(2, 1), core.DirRight)),
				place(st, mortalSnake(core.Idx(2, 3), core.DirLeft)),
			}
			if tc.prop != nil {
				if _, err := st.AddProp(center, *tc.prop); err != nil {
					t.Fatal(err)
				}
			}

			mustTick(t, st)

			for _, id := range ids {
				sn := mustSnake(t, st, id)
				if !sn.IsDead() {
					t.Errorf("snake %d survived", id)
				}
				if sn.Score() != 0 || sn.GrowCount() != 0 {
					t.Errorf("snake %d received prop effects", id)
				}
			}
			if got := st.grid.At(center); got != tc.survivor {
				t.Errorf("At(center) = %v, expected %v", got, tc.survivor)
			}
			if st.PropCount() != tc.props {
				t.Errorf("PropCount() = %d, expected %d", st.PropCount(), tc.props)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestDeathAndRespawnTiming(t *testing.T) {
	st := newTestState(5, 5)
	id := place(st, mortalSnake(core.Idx(2, 2), core.DirRight, core.Idx(2, 1), core.Idx(2, 0)))
	st.snakes[id].score = 7
	if _, err := st.AddProp(core.Idx(2, 3), PropBadFood); err != nil {
		t.Fatal(err)
	}

	// The kill tick leaves a two-cell corpse
	mustTick(t, st)
	sn := mustSnake(t, st, id)
	if !sn.IsDead() || sn.BodyLen() != 2 {
		t.Fatalf("expected dead with body 2, got %v %d", sn.IsDead(), sn.BodyLen())
	}
	if st.grid.Occupied() != 2 {
		t.Errorf("Occupied() = %d, expected 2", st.grid.Occupied())
	}

	for _, want := range []int{1, 0} {
		mustTick(t, st)
		if !sn.IsDead() || sn.BodyLen() != want {
			t.Fatalf("expected dead with body %d, got %v %d", want, sn.IsDead(), sn.BodyLen())
		}
	}

	data := st.GameData()
	want := CameFrom{Kind: CameFromDummy, To: core.Idx(2, 0), From: core.Idx(2, 1)}
	if got := data.CameFromTails[id]; got != want {
		t.Errorf("tail hint = %+v, expected %+v", got, want)
	}

	mustTick(t, st)
	fresh := mustSnake(t, st, id)
	if fresh.IsDead() || !fresh.IsImmortal() {
		t.Fatal("snake should respawn L+1 ticks after the kill")
	}
	if fresh.Score() != 7 {
		t.Errorf("Score() = %d, expected 7", fresh.Score())
	}
	if st.grid.Occupied() != 1 {
		t.Errorf("Occupied() = %d, expected 1", st.grid.Occupied())
	}
}

func TestToroidalWrap(t *testing.T) {
	tests := []struct {
		name     string
		start    core.Index
		dir      core.Direction
		expected core.Index
	}{
		{"right edge", core.Idx(0, 4), core.DirRight, core.Idx(0, 0)},
		{"top edge", core.Idx(0, 2), core.DirUp, core.Idx(4, 2)},
		{"bottom edge", core.Idx(4, 1), core.DirDown, core.Idx(0, 1)},
		{"left edge", core.Idx(3, 0), core.DirLeft, core.Idx(3, 4)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := newTestState(5, 5)
			id := place(st, mortalSnake(tc.start, tc.dir))

			mustTick(t, st)

			sn := mustSnake(t, st, id)
			if sn.IsDead() || sn.Pos() != tc.expected {
				t.Errorf("head at %v (dead %v), expected %v", sn.Pos(), sn.IsDead(), tc.expected)
			}
		})
	}
}

func TestDirectionBuffering(t *testing.T) {
	st := newTestState(5, 5)
	id := place(st, mortalSnake(core.Idx(2, 2), core.DirRight))

	if err := st.GiveDirection(id, core.DirLeft); err != nil {
		t.Fatal(err)
	}
	mustTick(t, st)
	sn := mustSnake(t, st, id)
	if sn.Pos() != core.Idx(2, 3) || sn.Direction() != core.DirRight {
		t.Fatalf("reversal applied: pos %v dir %v", sn.Pos(), sn.Direction())
	}

	if err := st.GiveDirection(id, core.DirUp); err != nil {
		t.Fatal(err)
	}
	if sn.Direction() != core.DirRight {
		t.Fatal("turn applied before the tick")
	}
	mustTick(t, st)
	if sn.Pos() != core.Idx(1, 3) || sn.Direction() != core.DirUp {
		t.Errorf("pos %v dir %v, expected (1, 3) Up", sn.Pos(), sn.Direction())
	}
}

func TestAddSnakeFillsGrid(t *testing.T) {
	st := newTestState(2, 2)

	seen := make(map[core.Index]bool)
	for rangeIdx := 0; rangeIdx < 4; rangeIdx++ {
		id, err := st.AddSnake()
		if err != nil {
			t.Fatalf("AddSnake() failed: %v", err)
		}
		pos := mustSnake(t, st, id).Pos()
		if seen[pos] {
			t.Fatalf("two snakes spawned at %v", pos)
		}
		seen[pos] = true
	}

	if _, err := st.AddSnake(); !errors.Is(err, ErrNoSpace) {
		t.Errorf("expected ErrNoSpace, got %v", err)
	}
	if got := st.Snakes(); len(got) != 4 {
		t.Errorf("Snakes() = %v, expected 4 ids", got)
	}
}

func TestUnknownSnake(t *testing.T) {
	st := newTestState(3, 3)

	if err := st.GiveDirection(99, core.DirUp); !errors.Is(err, ErrUnknownSnake) {
		t.Errorf("GiveDirection: expected ErrUnknownSnake, got %v", err)
	}
	if err := st.RemoveSnake(99); !errors.Is(err, ErrUnknownSnake) {
		t.Errorf("RemoveSnake: expected ErrUnknownSnake, got %v", err)
	}
	if _, ok := st.Score(99); ok {
		t.Error("Score should report unknown id")
	}
	if err := st.applySnakeEvents([]SnakeEvent{Kill(99), GiveScore(99, 1)}); !errors.Is(err, ErrUnknownSnake) {
		t.Errorf("applySnakeEvents: expected ErrUnknownSnake, got %v", err)
	}
}

func TestAddPropRejectsBadCells(t *testing.T) {
	st := newTestState(3, 3)
	for _, pos := range []core.Index{core.Idx(3, 0), core.Idx(0, -1)} {
		if _, err := st.AddProp(pos, PropRock); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("AddProp(%v) = %v, expected ErrOutOfBounds", pos, err)
		}
	}
	if _, err := st.AddProp(core.Idx(1, 1), PropRock); err != nil {
		t.Fatal(err)
	}
	if _, err := st.AddProp(core.Idx(1, 1), PropGrowFood); !errors.Is(err, ErrOccupied) {
		t.Errorf("expected ErrOccupied, got %v", err)
	}
}

func TestRemoveSnakeVacatesCells(t *testing.T) {
	st := newTestState(5, 5)
	mortal := place(st, mortalSnake(core.Idx(0, 3), core.DirRight, core.Idx(0, 2), core.Idx(0, 1)))
	spawning, err := st.AddSnake()
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []SnakeID{mortal, spawning} {
		if err := st.RemoveSnake(id); err != nil {
			t.Fatalf("RemoveSnake(%d) failed: %v", id, err)
		}
	}

	if st.grid.Occupied() != 0 {
		t.Errorf("Occupied() = %d, expected 0", st.grid.Occupied())
	}
	if len(st.Snakes()) != 0 {
		t.Errorf("Snakes() = %v, expected none", st.Snakes())
	}

	// Ticking after removal is harmless
	mustTick(t, st)
}

func TestGameDataConsumesHints(t *testing.T) {
	st := newTestState(4, 6)
	id, err := st.AddSnake()
	if err != nil {
		t.Fatal(err)
	}
	mustTick(t, st)

	first := st.GameData()
	if first.Grid.Rows != 4 || first.Grid.Cols != 6 {
		t.Errorf("grid %dx%d, expected 4x6", first.Grid.Rows, first.Grid.Cols)
	}
	pos := mustSnake(t, st, id).Pos()
	if got := first.CameFromHeads[id]; got != (CameFrom{Kind: CameFromReal, To: pos, From: pos}) {
		t.Errorf("head hint = %+v", got)
	}

	second := st.GameData()
	if len(second.CameFromHeads) != 0 || len(second.CameFromTails) != 0 {
		t.Errorf("hints were not consumed: %+v", second)
	}
	if !reflect.DeepEqual(first.Grid, second.Grid) {
		t.Error("grid changed without a tick")
	}
}

func TestPropSpawnTimer(t *testing.T) {
	st := NewBuilder().
		WithDimensions(5, 5).
		WithPropWeights(PropWeights{PropGrowFood: 1}).
		WithPropSpawnTimer(core.NewTimer(5)).
		WithSeed(3).
		Build()

	for rangeIdx := 0; rangeIdx < 5; rangeIdx++ {
		mustTick(t, st)
	}
	if st.PropCount() != 0 {
		t.Fatalf("PropCount() = %d after 5 ticks, expected 0", st.PropCount())
	}

	mustTick(t, st)
	if st.PropCount() != 1 {
		t.Fatalf("PropCount() = %d after 6 ticks, expected 1", st.PropCount())
	}

	for rangeIdx := 0; rangeIdx < 5; rangeIdx++ {
		mustTick(t, st)
	}
	if st.PropCount() != 2 {
		t.Errorf("PropCount() = %d after 11 ticks, expected 2", st.PropCount())
	}
}

func TestPropLifetime(t *testing.T) {
	tests := []struct {
		name     string
		lifetime int
		ticks    int
		expected int
	}{
		{"override expires", 3, 3, 0},
		{"override still alive", 3, 2, 1},
		{"catalog lifetime", 0, 20, 0},
		{"catalog still alive", 0, 19, 1},
		{"no expiry", -1, 200, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := NewBuilder().
				WithDimensions(3, 3).
				WithPropWeights(PropWeights{}).
				WithPropLifetime(tc.lifetime).
				WithSeed(1).
				Build()
			if _, err := st.AddProp(core.Idx(1, 1), PropGrowFood); err != nil {
				t.Fatal(err)
			}

			for rangeIdx := 0; rangeIdx < tc.ticks; rangeIdx++ {
				mustTick(t, st)
			}

			if st.PropCount() != tc.expected {
				t.Errorf("PropCount() = %d, expected %d", st.PropCount(), tc.expected)
			}
			if got := st.grid.Occupied(); got != tc.expected {
				t.Errorf("Occupied() = %d, expected %d", got, tc.expected)
			}
		})
	}
}

func TestOccupancyInvariant(t *testing.T) {
	st := NewBuilder().
		WithDimensions(12, 12).
		WithPropWeights(PropWeights{PropGrowFood: 3, PropBadFood: 1, PropGoldFood: 1, PropRock: 1}).
		WithPropSpawnTimer(core.NewTimer(2)).
		WithSeed(99).
		Build()
	steer := rand.New(rand.NewSource(7))

	for rangeIdx := 0; rangeIdx < 6; rangeIdx++ {
		if _, err := st.AddSnake(); err != nil {
			t.Fatal(err)
		}
	}

	for tick := 1; tick <= 1000; tick++ {
		for _, id := range st.Snakes() {
			if steer.Intn(3) == 0 {
				if err := st.GiveDirection(id, core.RandomDirection(steer)); err != nil {
					t.Fatal(err)
				}
			}
		}

		switch tick {
		case 200:
			if _, err := st.AddSnake(); err != nil {
				t.Fatal(err)
			}
		case 400:
			if err := st.RemoveSnake(st.Snakes()[0]); err != nil {
				t.Fatal(err)
			}
		}

		mustTick(t, st)

		if got, want := st.grid.Occupied(), expectedOccupancy(st); got != want {
			t.Fatalf("tick %d: Occupied() = %d, expected %d", tick, got, want)
		}
		for _, id := range st.Snakes() {
			sn := st.snakes[id]
			if !sn.IsDead() && st.grid.At(sn.Pos()).ID != id {
				t.Fatalf("tick %d: snake %d head missing from %v", tick, id, sn.Pos())
			}
			if sn.Score() < 0 {
				t.Fatalf("tick %d: snake %d has negative score", tick, id)
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	run := func() (Snapshot, GridData) {
		st := NewBuilder().
			WithDimensions(10, 14).
			WithPropWeights(PropWeights{PropGrowFood: 2, PropBadFood: 1, PropRock: 1}).
			WithSeed(12345).
			Build()
		steer := rand.New(rand.NewSource(1))
		for rangeIdx := 0; rangeIdx < 4; rangeIdx++ {
			if _, err := st.AddSnake(); err != nil {
				t.Fatal(err)
			}
		}
		for rangeIdx := 0; rangeIdx < 300; rangeIdx++ {
			for _, id := range st.Snakes() {
				_ = st.GiveDirection(id, core.RandomDirection(steer))
			}
			mustTick(t, st)
		}
		return st.Snapshot(), st.GridData()
	}

	snap1, grid1 := run()
	snap2, grid2 := run()

	if !reflect.DeepEqual(snap1, snap2) {
		t.Errorf("snapshot mismatch:\n%+v\n%+v", snap1, snap2)
	}
	if !reflect.DeepEqual(grid1, grid2) {
		t.Error("grid mismatch")
	}
	if snap1.Tick != 300 {
		t.Errorf("Tick = %d, expected 300", snap1.Tick)
	}
}
