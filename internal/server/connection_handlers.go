package server

import (
	"log"

	"github.com/amalg/go-battleships/internal/game"
	"github.com/amalg/go-battleships/internal/protocol"
)

func handleReportError(s *Server, c *Client, msg protocol.Message) Result {
	log.Printf("[SERVER] %s reported an error, closing connection: %s", c.ID, msg.Text)
	r := s.disconnectPlayer(c)
	r.Terminate = true
	return r
}

// handleDisconnect runs the disconnect procedure for a connection whose
// reader goroutine hit a decode or transport error. Unlike a dispatched
// request, there is no sender to reply to — updates are delivered
// directly and the connection is torn down unconditionally.
func (s *Server) handleDisconnect(c *Client) {
	r := s.disconnectPlayer(c)
	s.deliverUpdates(r.Updates)
	s.removeClient(c)
}

// disconnectPlayer implements spec §4.4's disconnect procedure: if the
// player was Playing, terminate that Game with Disconnected; in all
// cases broadcast PlayerLeft to the rest of the lobby and remove the
// player from it.
func (s *Server) disconnectPlayer(c *Client) Result {
	var r Result
	p, ok := s.player(c)
	if !ok {
		return r
	}
	if p.Game != nil {
		opponent, _ := p.Game.Opponent(c.Name)
		terminateGame(s, &r, p.Game, opponent, protocol.ReasonDisconnected)
	}
	s.lobby.Logout(c.Name)
	for _, name := range s.lobby.Names() {
		r.sendTo(name, protocol.Message{Type: protocol.OpPlayerLeft, Name: c.Name})
	}
	return r
}

// afkSweep inspects every Running game whose active player has held the
// turn past the timeout (spec §4.4). It runs on the dispatch goroutine's
// own ticker, so it needs no locking, but has no single sender — updates
// are delivered directly via deliverUpdates.
func (s *Server) afkSweep() {
	games := append([]*game.Game(nil), s.lobby.Games()...)
	for _, g := range games {
		if !g.TurnTimeExceeded() {
			continue
		}
		active := g.ActivePlayer()
		opponent, _ := g.Opponent(active)

		var r Result
		if g.AfkCount(active) > 1 {
			remaining := g.DecAfk(active)
			g.SwitchTurns()
			r.sendTo(active, protocol.Message{Type: protocol.OpAfkWarning, Strikes: remaining})
			r.sendTo(opponent, protocol.Message{Type: protocol.OpEnemyAfk, Strikes: remaining})
		} else {
			terminateGame(s, &r, g, opponent, protocol.ReasonAfk)
		}
		s.deliverUpdates(r.Updates)
	}
}
