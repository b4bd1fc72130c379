package multiplayer

import (
	"github.com/vovakirdan/snuake/internal/core"
	"github.com/vovakirdan/snuake/internal/games/snake"
)

// ClientMsg is a message from a session to the server.
type ClientMsg interface {
	clientMsg()
}

// PingMsg asks for a PongMsg carrying the same sequence number.
type PingMsg struct {
	Seq uint64
}

func (PingMsg) clientMsg() {}

// JoinMsg asks for a snake. A session owns at most one.
type JoinMsg struct{}

func (JoinMsg) clientMsg() {}

// ConsoleCmdMsg is free-form operator text. The server logs it.
type ConsoleCmdMsg struct {
	Text string
}

func (ConsoleCmdMsg) clientMsg() {}

// UserCmdMsg steers the session's snake.
type UserCmdMsg struct {
	Dir core.Direction
}

func (UserCmdMsg) clientMsg() {}

// ServerMsg is a message from the server to a session.
type ServerMsg interface {
	serverMsg()
}

// PongMsg answers a PingMsg.
type PongMsg struct {
	Seq uint64
}

func (PongMsg) serverMsg() {}

// NewIDMsg tells a session which snake it controls.
type NewIDMsg struct {
	SnakeID snake.SnakeID
}

func (NewIDMsg) serverMsg() {}

// ErrorMsg reports a request the server could not satisfy.
type ErrorMsg struct {
	Message string
}

func (ErrorMsg) serverMsg() {}

// GameDataMsg carries the grid and movement hints after a tick.
type GameDataMsg struct {
	Tick uint64
	Data snake.GameData
}

func (GameDataMsg) serverMsg() {}

// GridDataMsg carries only the grid after a tick.
type GridDataMsg struct {
	Tick uint64
	Data snake.GridData
}

func (GridDataMsg) serverMsg() {}

// serverEvent is everything queued for the server goroutine.
type serverEvent interface {
	serverEvent()
}

type sessionOpened struct {
	handle SessionHandle
}

func (sessionOpened) serverEvent() {}

type sessionClosed struct {
	id SessionID
}

func (sessionClosed) serverEvent() {}

type clientMessage struct {
	id  SessionID
	msg ClientMsg
}

func (clientMessage) serverEvent() {}
