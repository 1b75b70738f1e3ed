package client

import (
	"github.com/amalg/go-battleships/internal/board"
	"github.com/amalg/go-battleships/internal/protocol"
)

// handleIntent implements spec §4.5's allowed-intent table: an intent
// not listed for the current Status produces no message and no
// transition.
func (s *Session) handleIntent(i Intent) {
	switch s.status {
	case StatusUnregistered:
		switch i.Kind {
		case IntentGetFeatures:
			s.send(protocol.Message{Type: protocol.OpGetFeatures})
			s.status = StatusAwaitFeatures
		case IntentLogin:
			s.myName = i.Name
			s.send(protocol.Message{Type: protocol.OpLogin, Name: i.Name})
			s.status = StatusRegister
		}

	case StatusAvailable:
		switch i.Kind {
		case IntentReady:
			s.send(protocol.Message{Type: protocol.OpReady})
			s.status = StatusAwaitReady
		case IntentChallengePlayer:
			s.pendingChallenge = i.Name
			s.send(protocol.Message{Type: protocol.OpChallengePlayer, Name: i.Name})
			s.status = StatusAwaitGameStart
		}

	case StatusWaiting:
		if i.Kind == IntentNotReady {
			s.send(protocol.Message{Type: protocol.OpNotReady})
			s.status = StatusAwaitNotReady
		}

	case StatusPlacingShips:
		switch i.Kind {
		case IntentPlaceShips:
			b, err := board.TryCreate(i.Placement, true)
			if err != nil {
				// An illegal local layout never reaches the wire; the UI
				// is responsible for only offering legal placements.
				return
			}
			s.pendingBoard = b
			s.send(protocol.Message{Type: protocol.OpPlaceShips, Placement: i.Placement})
		case IntentSurrender:
			s.send(protocol.Message{Type: protocol.OpSurrender})
			s.status = StatusSurrendered
		}

	case StatusPlanning:
		switch i.Kind {
		case IntentShoot:
			s.send(protocol.Message{Type: protocol.OpShoot, X: i.X, Y: i.Y})
		case IntentMoveAndShoot:
			s.send(protocol.Message{
				Type: protocol.OpMoveAndShoot, ShipID: i.ShipID, Dir: i.Dir, X: i.X, Y: i.Y,
			})
		case IntentSurrender:
			s.send(protocol.Message{Type: protocol.OpSurrender})
			s.status = StatusSurrendered
		}

	case StatusOpponentPlanning, StatusOpponentPlacing:
		if i.Kind == IntentSurrender {
			s.send(protocol.Message{Type: protocol.OpSurrender})
			s.status = StatusSurrendered
		}
	}
}
