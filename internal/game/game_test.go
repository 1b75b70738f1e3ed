package game

import (
	"testing"
	"time"

	"github.com/amalg/go-battleships/internal/board"
	"github.com/amalg/go-battleships/internal/protocol"
)

// fakeClock lets tests advance time deterministically.
type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// fixedRNG always returns the configured side.
type fixedRNG struct{ n int }

func (r fixedRNG) Intn(int) int { return r.n }

func newTestGame() (*Game, *fakeClock) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	g := New("alice", "bob", clock, fixedRNG{n: 0})
	return g, clock
}

func TestPlaceShipsTransitionsToRunningOnceBothPlace(t *testing.T) {
	g, _ := newTestGame()
	if g.Running() {
		t.Fatalf("game should not be running before any placement")
	}
	if err := g.PlaceShips("alice", board.CanonicalPlacement()); err != nil {
		t.Fatalf("alice placement: %v", err)
	}
	if g.Running() {
		t.Fatalf("game should not be running after only one placement")
	}
	if err := g.PlaceShips("bob", board.CanonicalPlacement()); err != nil {
		t.Fatalf("bob placement: %v", err)
	}
	if !g.Running() {
		t.Fatalf("expected game to be running once both players placed")
	}
}

func TestPlaceShipsRejectsUnknownPlayer(t *testing.T) {
	g, _ := newTestGame()
	if err := g.PlaceShips("mallory", board.CanonicalPlacement()); err == nil {
		t.Fatalf("expected error placing ships for a non-participant")
	}
}

func TestPlaceShipsRejectsDoublePlacement(t *testing.T) {
	g, _ := newTestGame()
	if err := g.PlaceShips("alice", board.CanonicalPlacement()); err != nil {
		t.Fatalf("first placement: %v", err)
	}
	if err := g.PlaceShips("alice", board.CanonicalPlacement()); err == nil {
		t.Fatalf("expected error on second placement by the same player")
	}
}

func TestPlaceShipsRejectsInvalidLayout(t *testing.T) {
	g, _ := newTestGame()
	placement := board.CanonicalPlacement()
	placement[1] = placement[0] // overlapping ships
	if err := g.PlaceShips("alice", placement); err == nil {
		t.Fatalf("expected invalid layout to be rejected")
	}
	if g.Placed("alice") {
		t.Fatalf("rejected placement must not be recorded")
	}
}

func TestActivePlayerChosenByRNGOnceRunning(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	g := New("alice", "bob", clock, fixedRNG{n: 1})
	g.PlaceShips("alice", board.CanonicalPlacement())
	g.PlaceShips("bob", board.CanonicalPlacement())
	if g.MyTurn("alice") {
		t.Fatalf("expected bob to have the first turn")
	}
	if !g.MyTurn("bob") {
		t.Fatalf("expected bob to have the first turn")
	}
}

func TestSwitchTurnsAlternatesActivePlayer(t *testing.T) {
	g, _ := newTestGame()
	g.PlaceShips("alice", board.CanonicalPlacement())
	g.PlaceShips("bob", board.CanonicalPlacement())
	first := g.ActivePlayer()
	g.SwitchTurns()
	if g.ActivePlayer() == first {
		t.Fatalf("expected active player to change after SwitchTurns")
	}
	g.SwitchTurns()
	if g.ActivePlayer() != first {
		t.Fatalf("expected active player to return to %s after two switches", first)
	}
}

func TestTurnTimeExceeded(t *testing.T) {
	g, clock := newTestGame()
	g.PlaceShips("alice", board.CanonicalPlacement())
	g.PlaceShips("bob", board.CanonicalPlacement())
	if g.TurnTimeExceeded() {
		t.Fatalf("fresh turn should not be timed out")
	}
	clock.advance(turnTimeout + time.Second)
	if !g.TurnTimeExceeded() {
		t.Fatalf("expected turn to be timed out after %v", turnTimeout)
	}
}

func TestAfkCountDecrementsToZero(t *testing.T) {
	g, _ := newTestGame()
	if g.AfkCount("alice") != initialAfkStrikes {
		t.Fatalf("got initial afk count %d, want %d", g.AfkCount("alice"), initialAfkStrikes)
	}
	for i := initialAfkStrikes - 1; i >= 0; i-- {
		if got := g.DecAfk("alice"); got != i {
			t.Fatalf("DecAfk: got %d, want %d", got, i)
		}
	}
}

func TestEndRecordsWinnerAndReason(t *testing.T) {
	g, _ := newTestGame()
	g.PlaceShips("alice", board.CanonicalPlacement())
	g.PlaceShips("bob", board.CanonicalPlacement())
	loser, ok := g.End("alice", protocol.ReasonObliterated)
	if !ok {
		t.Fatalf("End: expected ok")
	}
	if loser != "bob" {
		t.Fatalf("got loser %q, want bob", loser)
	}
	if !g.Over() {
		t.Fatalf("expected game to be Over")
	}
	winner, reason := g.Result()
	if winner != "alice" || reason != protocol.ReasonObliterated {
		t.Fatalf("Result: got (%s, %v)", winner, reason)
	}
}

func TestOpponentLookup(t *testing.T) {
	g, _ := newTestGame()
	opp, ok := g.Opponent("alice")
	if !ok || opp != "bob" {
		t.Fatalf("got (%q, %v), want (bob, true)", opp, ok)
	}
	if _, ok := g.Opponent("mallory"); ok {
		t.Fatalf("expected no opponent for a non-participant")
	}
}
