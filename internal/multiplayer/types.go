// Package multiplayer connects client sessions to one authoritative game.
// A single Server goroutine owns the GameState; sessions talk to it through
// an event channel and receive snapshots through non-blocking sends.
package multiplayer

import (
	"fmt"

	"github.com/segmentio/ksuid"
)

// SessionID uniquely identifies a client connection.
type SessionID string

// NewSessionID returns a fresh, time-sortable session id.
func NewSessionID() SessionID {
	return SessionID(ksuid.New().String())
}

// BroadcastMode selects what the Server sends after each tick.
type BroadcastMode string

const (
	// BroadcastGame sends the grid together with the movement hints.
	BroadcastGame BroadcastMode = "game"

	// BroadcastGrid sends only the grid.
	BroadcastGrid BroadcastMode = "grid"
)

// ParseBroadcastMode validates a broadcast mode name.
func ParseBroadcastMode(s string) (BroadcastMode, error) {
	switch BroadcastMode(s) {
	case BroadcastGame, BroadcastGrid:
		return BroadcastMode(s), nil
	default:
		return "", fmt.Errorf("multiplayer: unknown broadcast mode %q", s)
	}
}

// ScoreRecord is a snake's score at the moment its session left.
type ScoreRecord struct {
	SessionID SessionID
	SnakeID   uint64
	Score     int
}

// ScoreSaver persists final scores.
// This allows the server to save scores without depending on the storage package.
type ScoreSaver interface {
	SaveSessionScore(rec ScoreRecord) error
}
