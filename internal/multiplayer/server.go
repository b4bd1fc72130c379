package multiplayer

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snuake/internal/core"
	"github.com/vovakirdan/snuake/internal/games/snake"
)

// ServerConfig holds configuration for the server.
type ServerConfig struct {
	TickRate            int           // Ticks per second
	Broadcast           BroadcastMode // What to send after each tick
	DespawnOnDisconnect bool          // Remove a snake when its session leaves
	EventBuffer         int           // Inbound queue length
	MaxTicks            uint64        // Stop after this many ticks; 0 runs until cancelled
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		TickRate:            core.DefaultConfig().TickRate,
		Broadcast:           BroadcastGame,
		DespawnOnDisconnect: true,
		EventBuffer:         256,
	}
}

// TickPeriod returns the wall-clock time between ticks.
func (c ServerConfig) TickPeriod() time.Duration {
	return core.RuntimeConfig{TickRate: c.TickRate}.TickPeriod()
}

// Server owns the GameState and every session's view of it. All game
// mutation happens on the goroutine running Run.
type Server struct {
	config   ServerConfig
	state    *snake.GameState
	logger   *log.Logger
	sessions *SessionRegistry
	saver    ScoreSaver // Optional, can be nil

	// Owned by the Run goroutine
	owners map[SessionID]snake.SnakeID
	final  []ScoreRecord

	events   chan serverEvent
	done     chan struct{}
	doneOnce sync.Once
}

// NewServer creates a server around state. A nil logger discards output.
func NewServer(cfg ServerConfig, state *snake.GameState, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.EventBuffer < 1 {
		cfg.EventBuffer = DefaultServerConfig().EventBuffer
	}
	if cfg.Broadcast == "" {
		cfg.Broadcast = BroadcastGame
	}

	return &Server{
		config:   cfg,
		state:    state,
		logger:   logger,
		sessions: NewSessionRegistry(),
		owners:   make(map[SessionID]snake.SnakeID),
		events:   make(chan serverEvent, cfg.EventBuffer),
		done:     make(chan struct{}),
	}
}

// SetScoreSaver sets the optional score saver.
// Must be called before Run.
func (s *Server) SetScoreSaver(saver ScoreSaver) {
	s.saver = saver
}

// Run processes events and ticks the game until ctx is cancelled or MaxTicks
// is reached. On return every remaining snake's score has been recorded (see
// Results).
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(s.config.TickPeriod())
	defer ticker.Stop()
	defer s.shutdown()

	s.logger.Info("server started",
		"tick_rate", s.config.TickRate,
		"broadcast", s.config.Broadcast,
		"rows", s.state.GridData().Rows,
		"cols", s.state.GridData().Cols,
	)

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.events:
			s.handle(ev)
		case <-ticker.C:
			s.tick()
			if s.config.MaxTicks > 0 && s.state.TickCount() >= s.config.MaxTicks {
				return
			}
		}
	}
}

// Open registers a new session.
func (s *Server) Open(handle SessionHandle) {
	s.enqueue(sessionOpened{handle: handle})
}

// Close unregisters a session.
func (s *Server) Close(id SessionID) {
	s.enqueue(sessionClosed{id: id})
}

// Deliver queues a message from a session.
func (s *Server) Deliver(id SessionID, msg ClientMsg) {
	s.enqueue(clientMessage{id: id, msg: msg})
}

// enqueue blocks until the event is queued or the server has stopped.
func (s *Server) enqueue(ev serverEvent) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

// Done returns a channel that closes once Run has returned.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// SessionCount returns the number of connected sessions.
func (s *Server) SessionCount() int {
	return s.sessions.Count()
}

// Results returns the scores recorded when Run returned, ordered by session.
// Only valid after Done is closed.
func (s *Server) Results() []ScoreRecord {
	return slices.Clone(s.final)
}

func (s *Server) handle(ev serverEvent) {
	switch e := ev.(type) {
	case sessionOpened:
		s.sessions.Register(e.handle)
		s.logger.Info("session opened", "session", e.handle.ID())
	case sessionClosed:
		s.disconnect(e.id, "closed")
	case clientMessage:
		s.handleClient(e.id, e.msg)
	}
}

func (s *Server) handleClient(id SessionID, msg ClientMsg) {
	session, ok := s.sessions.Get(id)
	if !ok {
		s.logger.Debug("message from unknown session", "session", id)
		return
	}

	var reply ServerMsg
	switch m := msg.(type) {
	case PingMsg:
		reply = PongMsg{Seq: m.Seq}

	case JoinMsg:
		if sid, owns := s.owners[id]; owns {
			reply = NewIDMsg{SnakeID: sid}
			break
		}
		sid, err := s.state.AddSnake()
		if err != nil {
			s.logger.Warn("join rejected", "session", id, "err", err)
			reply = ErrorMsg{Message: err.Error()}
			break
		}
		s.owners[id] = sid
		s.logger.Info("snake spawned", "session", id, "snake", sid)
		reply = NewIDMsg{SnakeID: sid}

	case ConsoleCmdMsg:
		s.logger.Info("console command", "session", id, "cmd", m.Text)

	case UserCmdMsg:
		sid, owns := s.owners[id]
		if !owns {
			return
		}
		if err := s.state.GiveDirection(sid, m.Dir); err != nil {
			s.logger.Error("steer", "session", id, "snake", sid, "err", err)
		}
	}

	if reply == nil {
		return
	}
	if err := session.Send(reply); err != nil {
		s.disconnect(id, "send failed")
	}
}

func (s *Server) tick() {
	if err := s.state.Tick(); err != nil {
		s.logger.Error("tick", "tick", s.state.TickCount(), "err", err)
	}
	if s.logger.GetLevel() <= log.DebugLevel {
		snap := s.state.Snapshot()
		s.logger.Debug("tick", "tick", snap.Tick, "snakes", len(snap.Snakes), "props", snap.Props, "occupied", snap.Occupied)
	}

	var msg ServerMsg
	switch s.config.Broadcast {
	case BroadcastGrid:
		msg = GridDataMsg{Tick: s.state.TickCount(), Data: s.state.GridData()}
	default:
		msg = GameDataMsg{Tick: s.state.TickCount(), Data: s.state.GameData()}
	}

	var stale []SessionID
	for _, session := range s.sessions.List() {
		if err := session.Send(msg); errors.Is(err, ErrSessionClosed) {
			stale = append(stale, session.ID())
		}
	}
	for _, id := range stale {
		s.disconnect(id, "send failed")
	}
}

// disconnect unregisters a session and, when configured, despawns its snake
// after recording the score.
func (s *Server) disconnect(id SessionID, reason string) {
	if _, ok := s.sessions.Get(id); !ok {
		return
	}
	s.sessions.Unregister(id)
	s.logger.Info("session closed", "session", id, "reason", reason)

	sid, owns := s.owners[id]
	if !owns || !s.config.DespawnOnDisconnect {
		return
	}
	delete(s.owners, id)

	s.record(id, sid)
	if err := s.state.RemoveSnake(sid); err != nil {
		s.logger.Error("despawn", "session", id, "snake", sid, "err", err)
	}
}

// record saves the current score of a session's snake.
func (s *Server) record(id SessionID, sid snake.SnakeID) ScoreRecord {
	score, _ := s.state.Score(sid)
	rec := ScoreRecord{SessionID: id, SnakeID: sid, Score: score}

	if s.saver != nil {
		if err := s.saver.SaveSessionScore(rec); err != nil {
			s.logger.Error("save score", "session", id, "err", err)
		}
	}
	return rec
}

func (s *Server) shutdown() {
	ids := make([]SessionID, 0, len(s.owners))
	for id := range s.owners {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		s.final = append(s.final, s.record(id, s.owners[id]))
	}

	s.logger.Info("server stopped", "ticks", s.state.TickCount(), "sessions", s.sessions.Count())
	s.doneOnce.Do(func() {
		close(s.done)
	})
}
