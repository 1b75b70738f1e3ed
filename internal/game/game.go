// Package game implements the per-match turn engine: ship placement,
// whose turn it is, afk bookkeeping, and the terminal transition. It
// never touches the network — internal/server drives it from decoded
// protocol messages and turns its results back into Messages.
package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/amalg/go-battleships/internal/board"
	"github.com/amalg/go-battleships/internal/protocol"
)

// turnTimeout is how long a player may hold the active turn before
// TurnTimeExceeded reports it and the server's afk sweep acts on it
// (spec §4.3).
const turnTimeout = 60 * time.Second

// initialAfkStrikes is the afk strike count each player starts with.
// Every turn timeout costs one strike; the timeout that arrives with one
// strike left (the third) ends the game for inactivity. Strikes are not
// restored during a game.
const initialAfkStrikes = 3

// State is the coarse phase of a Game.
type State int

const (
	Placing State = iota
	Running
	Over
)

// Clock abstracts wall-clock time so turn-timeout logic is testable
// without real sleeps.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock, backed by time.Now.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// RNG abstracts the single random decision a Game makes: which player
// moves first.
type RNG interface {
	Intn(n int) int
}

// RealRNG is the production RNG, backed by the default math/rand
// source.
type RealRNG struct{}

func (RealRNG) Intn(n int) int { return rand.Intn(n) }

// side indexes the two players of a Game: 0 or 1.
type side int

const (
	sideA side = iota
	sideB
)

func (s side) other() side { return 1 - s }

// Game is one match between two named players.
type Game struct {
	names  [2]string
	boards [2]*board.Board // nil until that side has placed ships
	afk    [2]int

	active       side
	state        State
	turnDeadline time.Time

	clock Clock
	rng   RNG

	winner side
	reason protocol.Reason
}

// New creates a Game in the Placing state. The first active side is
// chosen at random via rng once both players have placed their ships.
func New(playerA, playerB string, clock Clock, rng RNG) *Game {
	return &Game{
		names: [2]string{playerA, playerB},
		afk:   [2]int{initialAfkStrikes, initialAfkStrikes},
		state: Placing,
		clock: clock,
		rng:   rng,
	}
}

func (g *Game) sideOf(name string) (side, bool) {
	switch name {
	case g.names[sideA]:
		return sideA, true
	case g.names[sideB]:
		return sideB, true
	default:
		return 0, false
	}
}

// Opponent returns the name of name's opponent in this game.
func (g *Game) Opponent(name string) (string, bool) {
	s, ok := g.sideOf(name)
	if !ok {
		return "", false
	}
	return g.names[s.other()], true
}

// PlaceShips validates and records placement for the named player. Once
// both players have placed, the game transitions to Running and an
// active side is chosen.
func (g *Game) PlaceShips(name string, placement [5]protocol.Placement) error {
	if g.state != Placing {
		return fmt.Errorf("game: not accepting placements")
	}
	s, ok := g.sideOf(name)
	if !ok {
		return fmt.Errorf("game: %s is not a player in this game", name)
	}
	if g.boards[s] != nil {
		return fmt.Errorf("game: %s already placed ships", name)
	}
	b, err := board.TryCreate(placement, true)
	if err != nil {
		return err
	}
	g.boards[s] = b

	if g.boards[sideA] != nil && g.boards[sideB] != nil {
		g.state = Running
		g.active = side(g.rng.Intn(2))
		g.turnDeadline = g.clock.Now().Add(turnTimeout)
	}
	return nil
}

// Placed reports whether name has already placed ships.
func (g *Game) Placed(name string) bool {
	s, ok := g.sideOf(name)
	return ok && g.boards[s] != nil
}

// Running reports whether both players have placed and the match is
// in its combat phase.
func (g *Game) Running() bool { return g.state == Running }

// Placing reports whether the game is still waiting on one or both
// players to place their ships.
func (g *Game) Placing() bool { return g.state == Placing }

// MyTurn reports whether it is currently name's turn to act.
func (g *Game) MyTurn(name string) bool {
	s, ok := g.sideOf(name)
	return ok && g.state == Running && g.active == s
}

// Board returns name's own board.
func (g *Game) Board(name string) *board.Board {
	s, ok := g.sideOf(name)
	if !ok {
		return nil
	}
	return g.boards[s]
}

// OpponentBoard returns the board belonging to name's opponent.
func (g *Game) OpponentBoard(name string) *board.Board {
	s, ok := g.sideOf(name)
	if !ok {
		return nil
	}
	return g.boards[s.other()]
}

// SwitchTurns hands the active turn to the other player and resets the
// turn-timeout deadline. It does not check whose turn it currently is —
// callers must have already validated the request.
func (g *Game) SwitchTurns() {
	g.active = g.active.other()
	g.turnDeadline = g.clock.Now().Add(turnTimeout)
}

// TurnTimeExceeded reports whether the active player has held the turn
// longer than the allotted timeout.
func (g *Game) TurnTimeExceeded() bool {
	return g.state == Running && g.clock.Now().After(g.turnDeadline)
}

// ActivePlayer returns the name of the player whose turn it currently is.
func (g *Game) ActivePlayer() string {
	return g.names[g.active]
}

// AfkCount returns name's remaining afk strikes.
func (g *Game) AfkCount(name string) int {
	s, ok := g.sideOf(name)
	if !ok {
		return 0
	}
	return g.afk[s]
}

// DecAfk decrements name's afk strikes by one (on a turn timeout) and
// returns the count remaining.
func (g *Game) DecAfk(name string) int {
	s, ok := g.sideOf(name)
	if !ok {
		return 0
	}
	g.afk[s]--
	return g.afk[s]
}

// End marks the game Over with a winner and a Reason, and reports the
// loser's name so the caller can notify both sides.
func (g *Game) End(winner string, reason protocol.Reason) (loser string, ok bool) {
	s, valid := g.sideOf(winner)
	if !valid {
		return "", false
	}
	g.state = Over
	g.winner = s
	g.reason = reason
	return g.names[s.other()], true
}

// Over reports whether the game has reached a terminal state.
func (g *Game) Over() bool { return g.state == Over }

// Result returns the winner's name and end reason, valid only once Over
// reports true.
func (g *Game) Result() (winner string, reason protocol.Reason) {
	return g.names[g.winner], g.reason
}

// Names returns both player names, in stable (A, B) order.
func (g *Game) Names() (a, b string) {
	return g.names[sideA], g.names[sideB]
}
