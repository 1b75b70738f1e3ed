// Package server implements the authoritative server half of the
// protocol: a single dispatch goroutine owns the Lobby and every Game,
// fed by per-connection reader goroutines through one request queue,
// and drained to per-connection writer goroutines through per-player
// outbound queues (spec §4.4, §5).
package server

import (
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amalg/go-battleships/internal/game"
	"github.com/amalg/go-battleships/internal/lobby"
	"github.com/amalg/go-battleships/internal/protocol"
)

// afkSweepInterval is how often the dispatch goroutine checks every
// Running game for a turn-timeout (spec §4.4's "periodic tick").
const afkSweepInterval = 100 * time.Millisecond

// outboxCapacity bounds a connection's pending-write queue. It is sized
// generously so that, under normal play, the dispatch goroutine's sends
// never block on a slow client — the actual socket write backpressure
// is absorbed entirely by the writer goroutine (see DESIGN.md).
const outboxCapacity = 256

// Client is one connected player: its socket, identity, and outbound
// message queue. Name is empty until a successful Login.
type Client struct {
	ID   string
	Name string

	conn      net.Conn
	outbox    chan protocol.Message
	closeOnce sync.Once
}

func newClient(conn net.Conn) *Client {
	return &Client{
		ID:     uuid.NewString(),
		conn:   conn,
		outbox: make(chan protocol.Message, outboxCapacity),
	}
}

// send enqueues msg for delivery. Only ever called from the dispatch
// goroutine, which also owns closing the outbox, so no synchronization
// is needed here.
func (c *Client) send(msg protocol.Message) {
	c.outbox <- msg
}

// close shuts the client's outbox, which drains the writer goroutine
// and then closes the socket. Safe to call more than once.
func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.outbox) })
}

type inboundEvent struct {
	client     *Client
	msg        protocol.Message
	disconnect bool
}

// Server is the Protocol Engine: the listener plus the single goroutine
// that owns every mutable piece of server state.
type Server struct {
	addr     string
	listener net.Listener

	lobby *lobby.Lobby
	clock game.Clock
	rng   game.RNG

	clientsByName map[string]*Client

	events chan inboundEvent
	done   chan struct{}
}

// New creates a Server bound to addr (not yet listening).
func New(addr string, clock game.Clock, rng game.RNG) *Server {
	return &Server{
		addr:          addr,
		lobby:         lobby.New(),
		clock:         clock,
		rng:           rng,
		clientsByName: make(map[string]*Client),
		events:        make(chan inboundEvent, 256),
		done:          make(chan struct{}),
	}
}

// ListenAndServe binds addr, accepts connections, and runs the dispatch
// loop until Shutdown is called.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", s.addr, err)
	}
	s.listener = l
	log.Printf("[SERVER] listening on %s", s.addr)

	go s.acceptLoop()
	s.dispatchLoop()
	return nil
}

// Shutdown stops accepting connections and stops the dispatch loop. It
// does not close the connections of clients that are already connected.
func (s *Server) Shutdown() {
	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				log.Printf("[SERVER] accept error: %v", err)
				continue
			}
		}
		s.serveConn(conn)
	}
}

// serveConn registers conn as a new Client and starts its reader and
// writer goroutines. Split out of acceptLoop so tests can drive the
// engine over an in-memory net.Pipe without a real listener.
func (s *Server) serveConn(conn net.Conn) *Client {
	c := newClient(conn)
	go s.readLoop(c)
	go s.writeLoop(c)
	return c
}

func (s *Server) readLoop(c *Client) {
	for {
		msg, err := protocol.Decode(c.conn)
		if err != nil {
			select {
			case s.events <- inboundEvent{client: c, disconnect: true}:
			case <-s.done:
			}
			return
		}
		select {
		case s.events <- inboundEvent{client: c, msg: msg}:
		case <-s.done:
			return
		}
	}
}

func (s *Server) writeLoop(c *Client) {
	for msg := range c.outbox {
		data, err := protocol.Encode(msg)
		if err != nil {
			log.Printf("[SERVER] encode failed for %s: %v", c.ID, err)
			continue
		}
		if _, err := c.conn.Write(data); err != nil {
			log.Printf("[SERVER] write failed for %s: %v", c.ID, err)
			break
		}
	}
	c.conn.Close()
}

func (s *Server) dispatchLoop() {
	ticker := time.NewTicker(afkSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case ev := <-s.events:
			if ev.disconnect {
				s.handleDisconnect(ev.client)
				continue
			}
			result := s.dispatch(ev.client, ev.msg)
			s.route(ev.client, result)
		case <-ticker.C:
			s.afkSweep()
		}
	}
}

// dispatch computes the Result for one inbound message. This is the
// single switch the rest of the package's handler files implement.
func (s *Server) dispatch(c *Client, msg protocol.Message) Result {
	switch msg.Type {
	case protocol.OpGetFeatures:
		return handleGetFeatures(s, c, msg)
	case protocol.OpLogin:
		return handleLogin(s, c, msg)
	case protocol.OpReady:
		return handleReady(s, c, msg)
	case protocol.OpNotReady:
		return handleNotReady(s, c, msg)
	case protocol.OpChallengePlayer:
		return handleChallengePlayer(s, c, msg)
	case protocol.OpPlaceShips:
		return handlePlaceShips(s, c, msg)
	case protocol.OpShoot:
		return handleShoot(s, c, msg)
	case protocol.OpMoveAndShoot:
		return handleMoveAndShoot(s, c, msg)
	case protocol.OpSurrender:
		return handleSurrender(s, c, msg)
	case protocol.OpReportError:
		return handleReportError(s, c, msg)
	default:
		return reply(protocol.Message{Type: protocol.OpInvalidRequest})
	}
}

// route delivers a Result's response and updates, then — if requested —
// terminates the sender's connection.
func (s *Server) route(sender *Client, r Result) {
	if r.Response != nil {
		sender.send(*r.Response)
	}
	s.deliverUpdates(r.Updates)
	if r.Terminate {
		s.removeClient(sender)
	}
}

// deliverUpdates sends every update to its named recipient, if still
// connected. Used both for a Result's Updates and for engine-initiated
// events (the afk sweep, a reader-detected disconnect) that have no
// single sender to route a direct response to.
func (s *Server) deliverUpdates(updates map[string][]protocol.Message) {
	for name, msgs := range updates {
		target, ok := s.clientsByName[name]
		if !ok {
			continue
		}
		for _, m := range msgs {
			target.send(m)
		}
	}
}

// removeClient drops c from the clientsByName lookup table and closes its
// connection. It does not, by itself, touch the Lobby or any Game —
// callers are responsible for that per spec §4.4's termination
// procedures before calling this.
func (s *Server) removeClient(c *Client) {
	if c.Name != "" {
		delete(s.clientsByName, c.Name)
	}
	c.close()
}

// player looks up the lobby entry for a logged-in client. ok is false
// if the client has not yet logged in or is no longer registered.
func (s *Server) player(c *Client) (*lobby.Player, bool) {
	if c.Name == "" {
		return nil, false
	}
	return s.lobby.Player(c.Name)
}
