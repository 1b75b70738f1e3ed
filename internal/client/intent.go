package client

import "github.com/amalg/go-battleships/internal/protocol"

// IntentKind is a user-issued action, one per request opcode except
// ReportError, which the session sends on its own.
type IntentKind int

const (
	IntentGetFeatures IntentKind = iota
	IntentLogin
	IntentReady
	IntentNotReady
	IntentChallengePlayer
	IntentPlaceShips
	IntentShoot
	IntentMoveAndShoot
	IntentSurrender
)

// Intent is one user action submitted to the session engine. Only the
// fields relevant to Kind are meaningful.
type Intent struct {
	Kind      IntentKind
	Name      string // Login, ChallengePlayer
	Placement [5]protocol.Placement
	X, Y      int
	ShipID    int
	Dir       protocol.Direction
}
