package multiplayer

import (
	"context"
	"math/rand"

	"github.com/vovakirdan/snuake/internal/core"
	"github.com/vovakirdan/snuake/internal/games/snake"
)

// Bot is a scripted client. It joins the server, then steers toward food
// and away from anything deadly, picking a random safe move instead of the
// best one with probability 1-skill.
type Bot struct {
	server  *Server
	session *ChannelSession
	rng     *rand.Rand
	skill   float64 // 0-1, 1 always takes the best move

	snakeID snake.SnakeID
	joined  bool
	dir     core.Direction
}

// NewBot creates a bot with its own session.
func NewBot(server *Server, seed int64, skill float64) *Bot {
	return &Bot{
		server:  server,
		session: NewChannelSession(NewSessionID(), 16),
		rng:     rand.New(rand.NewSource(seed)),
		skill:   max(0, min(1, skill)),
	}
}

// ID returns the bot's session id.
func (b *Bot) ID() SessionID {
	return b.session.ID()
}

// Connect opens the bot's session and asks for a snake.
func (b *Bot) Connect() {
	b.server.Open(b.session)
	b.server.Deliver(b.ID(), JoinMsg{})
}

// Run connects the bot and plays until ctx is cancelled or the server stops.
func (b *Bot) Run(ctx context.Context) {
	b.Connect()
	b.Play(ctx)
}

// Play answers server messages until ctx is cancelled or the server stops.
func (b *Bot) Play(ctx context.Context) {
	defer b.session.Close()

	for {
		select {
		case <-ctx.Done():
			b.server.Close(b.ID())
			return
		case <-b.server.Done():
			return
		case msg := <-b.session.Messages():
			if reply, ok := b.react(msg); ok {
				b.server.Deliver(b.ID(), reply)
			}
		}
	}
}

// react updates the bot's view from one server message and returns the
// command to send, if any.
func (b *Bot) react(msg ServerMsg) (ClientMsg, bool) {
	switch m := msg.(type) {
	case NewIDMsg:
		b.snakeID = m.SnakeID
		b.joined = true
	case GameDataMsg:
		if hint, ok := m.Data.CameFromHeads[b.snakeID]; ok && b.joined {
			if d, moved := heading(m.Data.Grid, hint); moved {
				b.dir = d
			}
		}
		return b.steer(m.Data.Grid)
	case GridDataMsg:
		return b.steer(m.Data)
	}
	return nil, false
}

func (b *Bot) steer(grid snake.GridData) (ClientMsg, bool) {
	if !b.joined {
		return nil, false
	}
	head, ok := findHead(grid, b.snakeID)
	if !ok {
		return nil, false
	}

	value := func(d core.Direction) int {
		next := head.Neighbor(d).Wrap(grid.Rows, grid.Cols)
		return cellValue(grid.Tags[next.Row][next.Col])
	}

	// Ties keep the current heading
	best, bestScore := b.dir, value(b.dir)
	var safe []core.Direction
	if bestScore >= 0 {
		safe = append(safe, b.dir)
	}
	for _, d := range core.Directions {
		if !d.IsPerpendicular(b.dir) {
			continue
		}
		score := value(d)
		if score >= 0 {
			safe = append(safe, d)
		}
		if score > bestScore {
			best, bestScore = d, score
		}
	}

	choice := best
	if len(safe) > 0 && b.rng.Float64() >= b.skill {
		choice = safe[b.rng.Intn(len(safe))]
	}
	if choice == b.dir {
		return nil, false
	}
	return UserCmdMsg{Dir: choice}, true
}

// cellValue rates a destination: food beats empty, anything else kills.
func cellValue(t snake.Tag) int {
	switch t.Kind {
	case snake.TagNone:
		return 0
	case snake.TagProp:
		switch snake.PropKind(t.ID) {
		case snake.PropGrowFood, snake.PropGoldFood:
			return 1
		}
	}
	return -1
}

func findHead(grid snake.GridData, id snake.SnakeID) (core.Index, bool) {
	for i, row := range grid.Tags {
		for j, t := range row {
			if t.Kind == snake.TagSnakeHead && t.ID == id {
				return core.Idx(i, j), true
			}
		}
	}
	return core.Index{}, false
}

// heading recovers the direction a head moved from its hint.
func heading(grid snake.GridData, hint snake.CameFrom) (core.Direction, bool) {
	for _, d := range core.Directions {
		if hint.From.Neighbor(d).Wrap(grid.Rows, grid.Cols) == hint.To {
			return d, true
		}
	}
	return 0, false
}
