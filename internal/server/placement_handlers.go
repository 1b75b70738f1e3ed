package server

import "github.com/amalg/go-battleships/internal/protocol"

func handlePlaceShips(s *Server, c *Client, msg protocol.Message) Result {
	p, ok := s.player(c)
	if !ok || p.Game == nil || !p.Game.Placing() {
		return reply(protocol.Message{Type: protocol.OpInvalidRequest})
	}
	g := p.Game

	if err := g.PlaceShips(c.Name, msg.Placement); err != nil {
		return reply(protocol.Message{Type: protocol.OpInvalidRequest})
	}

	r := reply(protocol.Message{Type: protocol.OpOk})
	if g.Running() {
		active := g.ActivePlayer()
		opponent, _ := g.Opponent(active)
		r.sendTo(active, protocol.Message{Type: protocol.OpYourTurn})
		r.sendTo(opponent, protocol.Message{Type: protocol.OpEnemyTurn})
	}
	return r
}
