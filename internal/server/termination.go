package server

import (
	"github.com/amalg/go-battleships/internal/game"
	"github.com/amalg/go-battleships/internal/protocol"
)

// terminateGame runs the termination procedure from spec §4.4: clear
// both players' game references, return both to Available, send
// GameOver to each side with the victorious flag inverted for the
// loser, followed by a fresh lobby snapshot for each, then drop g from
// the registry. It appends these as updates on r rather than sending
// them directly, so callers can still attach a direct response to the
// triggering sender first.
func terminateGame(s *Server, r *Result, g *game.Game, winner string, reason protocol.Reason) {
	loser, ok := g.End(winner, reason)
	if !ok {
		return
	}
	s.lobby.EndGame(g)

	r.sendTo(winner, protocol.Message{Type: protocol.OpGameOver, Victorious: true, Reason: reason})
	r.sendTo(winner, lobbySnapshot(s, winner)...)
	r.sendTo(loser, protocol.Message{Type: protocol.OpGameOver, Victorious: false, Reason: reason})
	r.sendTo(loser, lobbySnapshot(s, loser)...)
}
