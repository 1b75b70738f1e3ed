package client

import (
	"fmt"
	"net"
	"time"

	"github.com/amalg/go-battleships/internal/board"
	"github.com/amalg/go-battleships/internal/protocol"
)

// tickInterval matches the server dispatch goroutine's afk-sweep
// granularity (spec §5): the session engine's select loop wakes at the
// same cadence even though, unlike the server, it has no periodic work
// of its own to drive.
const tickInterval = 100 * time.Millisecond

// Session is the Client Session Engine: it owns one connection, reads
// it on a dedicated goroutine, and advances Status on its own goroutine
// by multiplexing the decoded-message channel with the user-intent
// channel, exactly as spec §5 describes. All synchronization is via
// these two channels — no mutex guards Session's fields, since only the
// engine goroutine ever touches them.
type Session struct {
	conn net.Conn

	status  Status
	myName  string
	oppName string

	pendingChallenge string
	pendingBoard     *board.Board

	lobby    *ClientLobby
	own      *board.Board
	opponent *board.DumbBoard

	hits, destroyed               int
	myAfkStrikes, enemyAfkStrikes int

	intents  chan Intent
	incoming chan protocol.Message

	lobbyOut     chan LobbySnapshot
	boardOut     chan BoardSnapshot
	disconnected chan struct{}

	done chan struct{}
}

// NewSession wraps conn in a Session. Call Run in its own goroutine to
// start the engine; the reader goroutine is started internally.
func NewSession(conn net.Conn) *Session {
	s := &Session{
		conn:            conn,
		status:          StatusUnregistered,
		lobby:           newClientLobby(),
		opponent:        board.NewDumbBoard(),
		myAfkStrikes:    initialAfkStrikes,
		enemyAfkStrikes: initialAfkStrikes,
		intents:         make(chan Intent),
		incoming:        make(chan protocol.Message, 64),
		lobbyOut:        make(chan LobbySnapshot, 1),
		boardOut:        make(chan BoardSnapshot, 1),
		disconnected:    make(chan struct{}),
		done:            make(chan struct{}),
	}
	go s.readLoop()
	return s
}

// Lobby returns the snapshot channel the UI should range over for
// lobby/ready-list updates.
func (s *Session) Lobby() <-chan LobbySnapshot { return s.lobbyOut }

// Boards returns the snapshot channel the UI should range over for
// own-board/opponent-board/hit-count updates.
func (s *Session) Boards() <-chan BoardSnapshot { return s.boardOut }

// Disconnected is closed once the connection is gone, whether from a
// transport error, a decode error, or ServerGoingDown.
func (s *Session) Disconnected() <-chan struct{} { return s.disconnected }

// SubmitIntent queues a user action for the engine goroutine. It never
// blocks the caller beyond the engine's own processing of prior
// intents.
func (s *Session) SubmitIntent(i Intent) {
	select {
	case s.intents <- i:
	case <-s.done:
	}
}

// Status reports the session's current state. Intended for tests and
// for a UI that wants to gate input without waiting on a snapshot.
func (s *Session) Status() Status { return s.status }

// Shutdown stops the engine and reader goroutines and closes the
// connection.
func (s *Session) Shutdown() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	s.conn.Close()
}

// Run is the engine goroutine: it multiplexes inbound server messages
// with outbound user intents until Shutdown is called or the
// connection is lost. Blocking call — run it in its own goroutine.
func (s *Session) Run() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case msg := <-s.incoming:
			s.handleMessage(msg)
		case intent := <-s.intents:
			s.handleIntent(intent)
		case <-ticker.C:
			// No periodic work of its own; kept so the select loop's
			// cadence matches the server dispatch goroutine's.
		}
	}
}

func (s *Session) readLoop() {
	for {
		msg, err := protocol.Decode(s.conn)
		if err != nil {
			s.signalDisconnect()
			return
		}
		select {
		case s.incoming <- msg:
		case <-s.done:
			return
		}
	}
}

func (s *Session) signalDisconnect() {
	select {
	case <-s.disconnected:
	default:
		close(s.disconnected)
	}
}

func (s *Session) send(msg protocol.Message) {
	data, err := protocol.Encode(msg)
	if err != nil {
		// Only reachable via a programming error in this package's own
		// message construction, never from untrusted input.
		panic(fmt.Sprintf("client: encode %+v: %v", msg, err))
	}
	if _, err := s.conn.Write(data); err != nil {
		s.signalDisconnect()
	}
}

func (s *Session) reportMismatch(text string) {
	s.send(protocol.Message{Type: protocol.OpReportError, Text: text})
}

// pushLobby publishes a fresh lobby snapshot, replacing any unconsumed
// one still sitting in the buffered channel — the UI only ever wants
// the latest state, the same "drop stale, keep current" discipline the
// teacher's network.Client.receiveLoop uses for game-state updates.
func (s *Session) pushLobby() {
	snap := s.lobby.snapshot()
	select {
	case s.lobbyOut <- snap:
	default:
		select {
		case <-s.lobbyOut:
		default:
		}
		s.lobbyOut <- snap
	}
}

func (s *Session) pushBoard() {
	snap := BoardSnapshot{
		Own:             s.own,
		Opponent:        s.opponent,
		Hits:            s.hits,
		Destroyed:       s.destroyed,
		MyAfkStrikes:    s.myAfkStrikes,
		EnemyAfkStrikes: s.enemyAfkStrikes,
	}
	select {
	case s.boardOut <- snap:
	default:
		select {
		case <-s.boardOut:
		default:
		}
		s.boardOut <- snap
	}
}

func (s *Session) resetGameState() {
	s.own = nil
	s.opponent = board.NewDumbBoard()
	s.hits, s.destroyed = 0, 0
	s.myAfkStrikes, s.enemyAfkStrikes = initialAfkStrikes, initialAfkStrikes
	s.oppName = ""
	s.pendingBoard = nil
}
