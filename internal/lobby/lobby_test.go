package lobby

import (
	"testing"
	"time"
)

type fakeClock struct{ now time.Time }

func (c fakeClock) Now() time.Time { return c.now }

type fixedRNG struct{}

func (fixedRNG) Intn(int) int { return 0 }

func TestLoginRejectsInvalidAndDuplicateNames(t *testing.T) {
	l := New()
	if err := l.Login("alice"); err != nil {
		t.Fatalf("Login(alice): %v", err)
	}
	if err := l.Login("alice"); err == nil {
		t.Fatalf("expected duplicate login to be rejected")
	}
	if err := l.Login("has space"); err == nil {
		t.Fatalf("expected name with a space to be rejected")
	}
	if err := l.Login(""); err == nil {
		t.Fatalf("expected empty name to be rejected")
	}
}

func TestReadyNotReadyRoundTrip(t *testing.T) {
	l := New()
	l.Login("alice")
	if err := l.SetReady("alice"); err != nil {
		t.Fatalf("SetReady: %v", err)
	}
	names := l.ReadyNames()
	if len(names) != 1 || names[0] != "alice" {
		t.Fatalf("got ready names %v", names)
	}
	if err := l.SetReady("alice"); err == nil {
		t.Fatalf("expected double-ready to be rejected")
	}
	if err := l.SetNotReady("alice"); err != nil {
		t.Fatalf("SetNotReady: %v", err)
	}
	if len(l.ReadyNames()) != 0 {
		t.Fatalf("expected no ready players after SetNotReady")
	}
}

func TestStartGameRequiresOpponentReady(t *testing.T) {
	l := New()
	l.Login("alice")
	l.Login("bob")
	// alice is Available (not Ready) when she challenges, matching the
	// client's allowed-intent table; only bob must be Ready.
	if _, err := l.StartGame("alice", "bob", fakeClock{}, fixedRNG{}); err == nil {
		t.Fatalf("expected StartGame to fail while bob is not ready")
	}
	l.SetReady("bob")
	g, err := l.StartGame("alice", "bob", fakeClock{}, fixedRNG{})
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	alice, _ := l.Player("alice")
	bob, _ := l.Player("bob")
	if alice.State != Playing || alice.Game != g {
		t.Fatalf("alice not transitioned to Playing with game set")
	}
	if bob.State != Playing || bob.Game != g {
		t.Fatalf("bob not transitioned to Playing with game set")
	}
	if len(l.Games()) != 1 {
		t.Fatalf("expected one active game, got %d", len(l.Games()))
	}
}

func TestEndGameReturnsPlayersToAvailable(t *testing.T) {
	l := New()
	l.Login("alice")
	l.Login("bob")
	l.SetReady("alice")
	l.SetReady("bob")
	g, _ := l.StartGame("alice", "bob", fakeClock{}, fixedRNG{})

	l.EndGame(g)

	alice, _ := l.Player("alice")
	bob, _ := l.Player("bob")
	if alice.State != Available || alice.Game != nil {
		t.Fatalf("alice not returned to Available")
	}
	if bob.State != Available || bob.Game != nil {
		t.Fatalf("bob not returned to Available")
	}
	if len(l.Games()) != 0 {
		t.Fatalf("expected no active games after EndGame, got %d", len(l.Games()))
	}
}

func TestLogoutDuringGameRemovesGame(t *testing.T) {
	l := New()
	l.Login("alice")
	l.Login("bob")
	l.SetReady("alice")
	l.SetReady("bob")
	l.StartGame("alice", "bob", fakeClock{}, fixedRNG{})

	l.Logout("alice")

	if _, ok := l.Player("alice"); ok {
		t.Fatalf("alice should have been removed from the lobby")
	}
	if len(l.Games()) != 0 {
		t.Fatalf("expected game to be removed on logout, got %d", len(l.Games()))
	}
}
