package client

import "github.com/amalg/go-battleships/internal/protocol"

// handleMessage implements spec §4.5's response/update reaction table.
// Responses whose current Status doesn't match the documented from-state
// are a protocol violation by the server: report it and stay put.
func (s *Session) handleMessage(msg protocol.Message) {
	switch msg.Type {
	case protocol.OpOk:
		s.handleOk()
	case protocol.OpNameTaken:
		if s.status == StatusRegister {
			s.status = StatusUnregistered
		} else {
			s.reportMismatch("unexpected NameTaken")
		}
	case protocol.OpNoSuchPlayer, protocol.OpNotWaiting:
		if s.status == StatusAwaitGameStart {
			s.status = StatusAvailable
		} else {
			s.reportMismatch("unexpected NoSuchPlayer/NotWaiting")
		}
	case protocol.OpFeatures:
		if s.status == StatusAwaitFeatures {
			s.lobby.Features = msg.Features
			s.status = StatusUnregistered
			s.pushLobby()
		} else {
			s.reportMismatch("unexpected Features")
		}

	case protocol.OpHit, protocol.OpMiss, protocol.OpDestroyed:
		s.handleShotResult(msg)

	case protocol.OpYourTurn:
		if s.status == StatusOpponentPlacing {
			s.status = StatusPlanning
		} else {
			s.reportMismatch("unexpected YourTurn")
		}
	case protocol.OpEnemyTurn:
		if s.status == StatusOpponentPlacing {
			s.status = StatusOpponentPlanning
		} else {
			s.reportMismatch("unexpected EnemyTurn")
		}

	case protocol.OpEnemyHit:
		if s.status == StatusOpponentPlanning {
			s.status = StatusPlanning
			if s.own != nil {
				s.own.Hit(msg.X, msg.Y)
			}
			s.pushBoard()
		} else {
			s.reportMismatch("unexpected EnemyHit")
		}
	case protocol.OpEnemyMiss:
		if s.status == StatusOpponentPlanning {
			s.status = StatusPlanning
			if s.own != nil {
				s.own.Hit(msg.X, msg.Y)
			}
			s.pushBoard()
		} else {
			s.reportMismatch("unexpected EnemyMiss")
		}

	case protocol.OpEnemyVisible:
		s.opponent.SetShip(msg.X, msg.Y)
		s.pushBoard()
	case protocol.OpEnemyInvisible:
		s.opponent.SetWater(msg.X, msg.Y)
		s.pushBoard()

	case protocol.OpAfkWarning:
		if s.status == StatusPlanning {
			s.status = StatusOpponentPlanning
			s.myAfkStrikes = msg.Strikes
			s.pushBoard()
		} else {
			s.reportMismatch("unexpected AfkWarning")
		}
	case protocol.OpEnemyAfk:
		if s.status == StatusOpponentPlanning {
			s.status = StatusPlanning
			s.enemyAfkStrikes = msg.Strikes
			s.pushBoard()
		} else {
			s.reportMismatch("unexpected EnemyAfk")
		}

	case protocol.OpGameStart:
		if s.status == StatusWaiting {
			s.oppName = msg.Name
			s.status = StatusPlacingShips
		} else {
			s.reportMismatch("unexpected GameStart")
		}

	case protocol.OpGameOver:
		s.resetGameState()
		s.status = StatusAvailable
		s.pushBoard()
		s.pushLobby()

	case protocol.OpPlayerJoined:
		s.lobby.Players[msg.Name] = false
		s.pushLobby()
	case protocol.OpPlayerLeft:
		delete(s.lobby.Players, msg.Name)
		s.pushLobby()
	case protocol.OpPlayerReady:
		s.lobby.Players[msg.Name] = true
		s.pushLobby()
	case protocol.OpPlayerNotReady:
		s.lobby.Players[msg.Name] = false
		s.pushLobby()

	case protocol.OpServerGoingDown:
		s.signalDisconnect()

	case protocol.OpInvalidRequest, protocol.OpNotYourTurn, protocol.OpGameAlreadyStarted:
		// A direct rejection of our own last request; no state change is
		// specified beyond what the UI chooses to show the player.
	}
}

func (s *Session) handleOk() {
	switch s.status {
	case StatusRegister:
		s.status = StatusAvailable
		s.pushLobby()
	case StatusAwaitNotReady:
		s.status = StatusAvailable
	case StatusSurrendered:
		s.status = StatusAvailable
	case StatusAwaitGameStart:
		s.oppName = s.pendingChallenge
		s.status = StatusPlacingShips
	case StatusAwaitReady:
		s.status = StatusWaiting
	case StatusPlacingShips:
		s.own = s.pendingBoard
		s.pendingBoard = nil
		s.status = StatusOpponentPlacing
		s.pushBoard()
	default:
		s.reportMismatch("unexpected Ok")
	}
}

func (s *Session) handleShotResult(msg protocol.Message) {
	if s.status != StatusPlanning {
		s.reportMismatch("unexpected shot result")
		return
	}
	s.status = StatusOpponentPlacing
	switch msg.Type {
	case protocol.OpHit:
		s.opponent.SetShip(msg.X, msg.Y)
		s.hits++
	case protocol.OpDestroyed:
		s.opponent.SetShip(msg.X, msg.Y)
		s.hits++
		s.destroyed++
	case protocol.OpMiss:
		s.opponent.SetWater(msg.X, msg.Y)
	}
	s.pushBoard()
}
