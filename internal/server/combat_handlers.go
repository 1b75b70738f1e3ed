package server

import (
	"github.com/amalg/go-battleships/internal/board"
	"github.com/amalg/go-battleships/internal/game"
	"github.com/amalg/go-battleships/internal/protocol"
)

func handleShoot(s *Server, c *Client, msg protocol.Message) Result {
	p, ok := s.player(c)
	if !ok || p.Game == nil || !p.Game.Running() {
		return reply(protocol.Message{Type: protocol.OpInvalidRequest})
	}
	g := p.Game
	if !g.MyTurn(c.Name) {
		return reply(protocol.Message{Type: protocol.OpNotYourTurn})
	}
	return resolveShot(s, c, g, msg.X, msg.Y)
}

func handleMoveAndShoot(s *Server, c *Client, msg protocol.Message) Result {
	p, ok := s.player(c)
	if !ok || p.Game == nil || !p.Game.Running() {
		return reply(protocol.Message{Type: protocol.OpInvalidRequest})
	}
	g := p.Game
	if !g.MyTurn(c.Name) {
		return reply(protocol.Message{Type: protocol.OpNotYourTurn})
	}
	if !g.Board(c.Name).MoveShip(msg.ShipID, msg.Dir) {
		return reply(protocol.Message{Type: protocol.OpInvalidRequest})
	}
	return resolveShot(s, c, g, msg.X, msg.Y)
}

func handleSurrender(s *Server, c *Client, _ protocol.Message) Result {
	p, ok := s.player(c)
	if !ok || p.Game == nil {
		return reply(protocol.Message{Type: protocol.OpInvalidRequest})
	}
	g := p.Game
	opponent, _ := g.Opponent(c.Name)

	r := reply(protocol.Message{Type: protocol.OpOk})
	terminateGame(s, &r, g, opponent, protocol.ReasonSurrendered)
	return r
}

// resolveShot applies a shot already validated (and, for MoveAndShoot,
// already moved) against the opponent's board, and drives the rest of
// spec §4.4's Shoot/MoveAndShoot contract: the direct Hit/Miss/Destroyed
// response, the EnemyHit/EnemyMiss update, visibility updates drained
// from both boards, and either game termination or a turn switch.
func resolveShot(s *Server, c *Client, g *game.Game, x, y int) Result {
	opponentName, _ := g.Opponent(c.Name)
	opponentBoard := g.OpponentBoard(c.Name)
	outcome := opponentBoard.Hit(x, y)

	var responseType, enemyType protocol.Opcode
	switch outcome {
	case board.Hit:
		responseType, enemyType = protocol.OpHit, protocol.OpEnemyHit
	case board.Destroyed:
		responseType, enemyType = protocol.OpDestroyed, protocol.OpEnemyHit
	default:
		responseType, enemyType = protocol.OpMiss, protocol.OpEnemyMiss
	}

	r := reply(protocol.Message{Type: responseType, X: x, Y: y})

	gameOver := outcome == board.Destroyed && opponentBoard.IsDead()
	if !gameOver {
		r.sendTo(opponentName, protocol.Message{Type: enemyType, X: x, Y: y})
	}

	for _, u := range opponentBoard.PopUpdates() {
		r.sendTo(c.Name, visibilityMessage(u))
	}
	for _, u := range g.Board(c.Name).PopUpdates() {
		r.sendTo(opponentName, visibilityMessage(u))
	}

	if gameOver {
		terminateGame(s, &r, g, c.Name, protocol.ReasonObliterated)
		return r
	}

	g.SwitchTurns()
	active := g.ActivePlayer()
	other, _ := g.Opponent(active)
	r.sendTo(active, protocol.Message{Type: protocol.OpYourTurn})
	r.sendTo(other, protocol.Message{Type: protocol.OpEnemyTurn})
	return r
}

func visibilityMessage(u board.VisibilityUpdate) protocol.Message {
	if u.Visible {
		return protocol.Message{Type: protocol.OpEnemyVisible, X: u.X, Y: u.Y}
	}
	return protocol.Message{Type: protocol.OpEnemyInvisible, X: u.X, Y: u.Y}
}
