package client

import (
	"net"
	"testing"
	"time"

	"github.com/amalg/go-battleships/internal/board"
	"github.com/amalg/go-battleships/internal/protocol"
)

// testPeer stands in for the server side of the connection: it sends
// and receives raw protocol messages over the other end of a net.Pipe.
type testPeer struct {
	t    *testing.T
	conn net.Conn
}

func (p *testPeer) send(m protocol.Message) {
	p.t.Helper()
	data, err := protocol.Encode(m)
	if err != nil {
		p.t.Fatalf("encode %+v: %v", m, err)
	}
	if _, err := p.conn.Write(data); err != nil {
		p.t.Fatalf("write: %v", err)
	}
}

func (p *testPeer) recv() protocol.Message {
	p.t.Helper()
	p.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	m, err := protocol.Decode(p.conn)
	if err != nil {
		p.t.Fatalf("decode: %v", err)
	}
	return m
}

func (p *testPeer) expect(opcode protocol.Opcode) protocol.Message {
	p.t.Helper()
	m := p.recv()
	if m.Type != opcode {
		p.t.Fatalf("got opcode %d, want %d (message: %+v)", m.Type, opcode, m)
	}
	return m
}

// expectSilence asserts no message arrives within a short window — used
// to confirm a disallowed intent produced no wire traffic.
func (p *testPeer) expectSilence() {
	p.t.Helper()
	p.conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, err := protocol.Decode(p.conn); err == nil {
		p.t.Fatalf("expected no message, but one arrived")
	}
}

func newTestSession(t *testing.T) (*Session, *testPeer) {
	t.Helper()
	serverSide, clientSide := net.Pipe()
	s := NewSession(clientSide)
	go s.Run()
	t.Cleanup(s.Shutdown)
	return s, &testPeer{t: t, conn: serverSide}
}

func drainLobby(t *testing.T, s *Session) LobbySnapshot {
	t.Helper()
	select {
	case snap := <-s.Lobby():
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("no lobby snapshot")
		return LobbySnapshot{}
	}
}

func drainBoard(t *testing.T, s *Session) BoardSnapshot {
	t.Helper()
	select {
	case snap := <-s.Boards():
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("no board snapshot")
		return BoardSnapshot{}
	}
}

func waitStatus(t *testing.T, s *Session, want Status) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Status() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("status never reached %v, stuck at %v", want, s.Status())
}

func TestLoginTransitionsThroughRegisterToAvailable(t *testing.T) {
	s, peer := newTestSession(t)

	s.SubmitIntent(Intent{Kind: IntentLogin, Name: "alice"})
	if m := peer.expect(protocol.OpLogin); m.Name != "alice" {
		t.Fatalf("got %+v", m)
	}
	waitStatus(t, s, StatusRegister)

	peer.send(protocol.Message{Type: protocol.OpOk})
	waitStatus(t, s, StatusAvailable)

	snap := drainLobby(t, s)
	if snap.Players == nil {
		t.Fatalf("expected a lobby snapshot with an initialized player map")
	}
}

func TestDisallowedIntentProducesNoMessage(t *testing.T) {
	s, peer := newTestSession(t)

	// Available/Ready-only intents are meaningless while Unregistered.
	s.SubmitIntent(Intent{Kind: IntentReady})
	peer.expectSilence()
	if s.Status() != StatusUnregistered {
		t.Fatalf("status changed: %v", s.Status())
	}
}

func TestChallengeAndPlaceShipsReachPlanningOrOpponentPlacing(t *testing.T) {
	s, peer := newTestSession(t)

	s.SubmitIntent(Intent{Kind: IntentLogin, Name: "alice"})
	peer.expect(protocol.OpLogin)
	peer.send(protocol.Message{Type: protocol.OpOk})
	waitStatus(t, s, StatusAvailable)
	drainLobby(t, s)

	s.SubmitIntent(Intent{Kind: IntentChallengePlayer, Name: "bob"})
	if m := peer.expect(protocol.OpChallengePlayer); m.Name != "bob" {
		t.Fatalf("got %+v", m)
	}
	waitStatus(t, s, StatusAwaitGameStart)

	peer.send(protocol.Message{Type: protocol.OpOk})
	waitStatus(t, s, StatusPlacingShips)

	placement := board.CanonicalPlacement()
	s.SubmitIntent(Intent{Kind: IntentPlaceShips, Placement: placement})
	peer.expect(protocol.OpPlaceShips)

	peer.send(protocol.Message{Type: protocol.OpOk})
	waitStatus(t, s, StatusOpponentPlacing)

	snap := drainBoard(t, s)
	if snap.Own == nil {
		t.Fatalf("expected own board to be populated after placement Ok")
	}

	peer.send(protocol.Message{Type: protocol.OpYourTurn})
	waitStatus(t, s, StatusPlanning)

	s.SubmitIntent(Intent{Kind: IntentShoot, X: 2, Y: 3})
	if m := peer.expect(protocol.OpShoot); m.X != 2 || m.Y != 3 {
		t.Fatalf("got %+v", m)
	}
}

func TestShotResultUpdatesOpponentBoardAndHitCount(t *testing.T) {
	s, peer := newTestSession(t)
	bringToPlanning(t, s, peer)

	s.SubmitIntent(Intent{Kind: IntentShoot, X: 0, Y: 0})
	peer.expect(protocol.OpShoot)

	peer.send(protocol.Message{Type: protocol.OpDestroyed, X: 0, Y: 0})
	waitStatus(t, s, StatusOpponentPlacing)

	snap := drainBoard(t, s)
	if snap.Hits != 1 || snap.Destroyed != 1 {
		t.Fatalf("got hits=%d destroyed=%d", snap.Hits, snap.Destroyed)
	}
	if snap.Opponent.At(0, 0) != board.KnownShip {
		t.Fatalf("expected (0,0) known as ship")
	}
}

func TestGameOverResetsStateToAvailable(t *testing.T) {
	s, peer := newTestSession(t)
	bringToPlanning(t, s, peer)

	peer.send(protocol.Message{Type: protocol.OpGameOver, Victorious: false, Reason: protocol.ReasonObliterated})
	waitStatus(t, s, StatusAvailable)

	snap := drainBoard(t, s)
	if snap.Own != nil || snap.Hits != 0 || snap.Destroyed != 0 {
		t.Fatalf("expected reset board snapshot, got %+v", snap)
	}
}

// bringToPlanning drives a fresh session through login, challenge,
// placement, and YourTurn so combat tests can start from Planning.
func bringToPlanning(t *testing.T, s *Session, peer *testPeer) {
	t.Helper()
	s.SubmitIntent(Intent{Kind: IntentLogin, Name: "alice"})
	peer.expect(protocol.OpLogin)
	peer.send(protocol.Message{Type: protocol.OpOk})
	waitStatus(t, s, StatusAvailable)
	drainLobby(t, s)

	s.SubmitIntent(Intent{Kind: IntentChallengePlayer, Name: "bob"})
	peer.expect(protocol.OpChallengePlayer)
	peer.send(protocol.Message{Type: protocol.OpOk})
	waitStatus(t, s, StatusPlacingShips)

	s.SubmitIntent(Intent{Kind: IntentPlaceShips, Placement: board.CanonicalPlacement()})
	peer.expect(protocol.OpPlaceShips)
	peer.send(protocol.Message{Type: protocol.OpOk})
	waitStatus(t, s, StatusOpponentPlacing)
	drainBoard(t, s)

	peer.send(protocol.Message{Type: protocol.OpYourTurn})
	waitStatus(t, s, StatusPlanning)
}
