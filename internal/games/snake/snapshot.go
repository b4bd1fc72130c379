package snake

import "github.com/vovakirdan/snuake/internal/core"

// SnakePhase is the lifecycle phase of a snake.
type SnakePhase string

const (
	PhaseSpawning SnakePhase = "spawning"
	PhaseAlive    SnakePhase = "alive"
	PhaseDying    SnakePhase = "dying"
)

// SnakeSnapshot summarises one snake.
type SnakeSnapshot struct {
	ID      SnakeID
	Phase   SnakePhase
	Head    core.Index
	Dir     core.Direction
	BodyLen int
	Score   int
}

// Snapshot captures the state of a game for determinism testing and logging.
type Snapshot struct {
	Tick     uint64
	Rows     int
	Cols     int
	Props    int
	Occupied int
	Snakes   []SnakeSnapshot // Ascending ids
}

// Phase reports which lifecycle phase the snake is in.
func (s *Snake) Phase() SnakePhase {
	switch {
	case s.dead:
		return PhaseDying
	case s.IsImmortal():
		return PhaseSpawning
	default:
		return PhaseAlive
	}
}

// Snapshot returns the current game snapshot.
func (st *GameState) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:     st.tick,
		Rows:     st.grid.Rows(),
		Cols:     st.grid.Cols(),
		Props:    st.props.Len(),
		Occupied: st.grid.Occupied(),
		Snakes:   make([]SnakeSnapshot, 0, len(st.order)),
	}

	for _, id := range st.order {
		sn := st.snakes[id]
		snap.Snakes = append(snap.Snakes, SnakeSnapshot{
			ID:      id,
			Phase:   sn.Phase(),
			Head:    sn.pos,
			Dir:     sn.currDir,
			BodyLen: len(sn.body),
			Score:   sn.score,
		})
	}

	return snap
}
