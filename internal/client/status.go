// Package client implements the Client Session Engine: the state
// machine that mirrors the server's view of a single player's session
// over the same wire protocol (spec §4.5).
package client

import "github.com/amalg/go-battleships/internal/board"

// Status is the client's view of its own session state. Only a subset
// of user intents are meaningful at each Status; everything else is
// silently dropped (see Session.handleIntent).
type Status int

const (
	StatusUnregistered Status = iota
	StatusAwaitFeatures
	StatusRegister
	StatusAvailable
	StatusAwaitReady
	StatusAwaitGameStart
	StatusWaiting
	StatusAwaitNotReady
	StatusPlacingShips
	StatusOpponentPlacing
	StatusPlanning
	StatusOpponentPlanning
	StatusSurrendered
)

func (s Status) String() string {
	switch s {
	case StatusUnregistered:
		return "Unregistered"
	case StatusAwaitFeatures:
		return "AwaitFeatures"
	case StatusRegister:
		return "Register"
	case StatusAvailable:
		return "Available"
	case StatusAwaitReady:
		return "AwaitReady"
	case StatusAwaitGameStart:
		return "AwaitGameStart"
	case StatusWaiting:
		return "Waiting"
	case StatusAwaitNotReady:
		return "AwaitNotReady"
	case StatusPlacingShips:
		return "PlacingShips"
	case StatusOpponentPlacing:
		return "OpponentPlacing"
	case StatusPlanning:
		return "Planning"
	case StatusOpponentPlanning:
		return "OpponentPlanning"
	case StatusSurrendered:
		return "Surrendered"
	default:
		return "Unknown"
	}
}

// initialAfkStrikes mirrors the server's starting strike count (see
// internal/game), so the locally tracked counters have a sane value
// before the first AfkWarning/EnemyAfk corrects them.
const initialAfkStrikes = 3

// ClientLobby is the client's view of who else is logged in and
// whether they're ready, plus the feature list the server advertised.
type ClientLobby struct {
	Players  map[string]bool // name -> ready
	Features []string
}

func newClientLobby() *ClientLobby {
	return &ClientLobby{Players: make(map[string]bool)}
}

// LobbySnapshot is pushed to the UI whenever the lobby changes.
type LobbySnapshot struct {
	Players  map[string]bool
	Features []string
}

func (l *ClientLobby) snapshot() LobbySnapshot {
	players := make(map[string]bool, len(l.Players))
	for k, v := range l.Players {
		players[k] = v
	}
	features := append([]string(nil), l.Features...)
	return LobbySnapshot{Players: players, Features: features}
}

// BoardSnapshot is pushed to the UI whenever a board, hit count, or
// destroyed count changes.
type BoardSnapshot struct {
	Own             *board.Board
	Opponent        *board.DumbBoard
	Hits            int
	Destroyed       int
	MyAfkStrikes    int
	EnemyAfkStrikes int
}
