package protocol

import (
	"bytes"
	"io"
)

// Message is a single protocol message. Only the fields relevant to
// Type are meaningful; Encode/Decode know which fields belong to which
// opcode from the table in spec §4.1.
type Message struct {
	Type Opcode

	// Name carries Login/ChallengePlayer/NameTaken/NoSuchPlayer/NotWaiting's
	// subject, and the PlayerJoined/Left/Ready/NotReady/GameStart name.
	Name       string
	Features   []string            // Features
	Placement  [numShips]Placement // PlaceShips
	X, Y       int                 // Shoot, Hit, Miss, Destroyed, EnemyVisible/Invisible, EnemyHit/Miss
	ShipID     int                 // MoveAndShoot
	Dir        Direction           // MoveAndShoot
	Text       string              // ReportError, ServerGoingDown
	Victorious bool                // GameOver
	Reason     Reason              // GameOver
	Strikes    int                 // AfkWarning, EnemyAfk
}

// Encode serializes m to its wire form.
func Encode(m Message) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeU8(&buf, uint8(m.Type)); err != nil {
		return nil, err
	}

	switch m.Type {
	case OpGetFeatures, OpReady, OpNotReady, OpSurrender,
		OpOk, OpGameAlreadyStarted, OpNotYourTurn, OpInvalidRequest,
		OpYourTurn, OpEnemyTurn:
		// no fields

	case OpLogin, OpChallengePlayer,
		OpNameTaken, OpNoSuchPlayer, OpNotWaiting,
		OpPlayerJoined, OpPlayerLeft, OpPlayerReady, OpPlayerNotReady, OpGameStart:
		if err := writeString(&buf, m.Name); err != nil {
			return nil, err
		}

	case OpPlaceShips:
		if err := writePlacement(&buf, m.Placement); err != nil {
			return nil, err
		}

	case OpShoot, OpHit, OpMiss, OpDestroyed,
		OpEnemyVisible, OpEnemyInvisible, OpEnemyHit, OpEnemyMiss:
		if err := writeCell(&buf, m.X, m.Y); err != nil {
			return nil, err
		}

	case OpMoveAndShoot:
		if err := writeU8(&buf, uint8(m.ShipID)); err != nil {
			return nil, err
		}
		if err := writeDirection(&buf, m.Dir); err != nil {
			return nil, err
		}
		if err := writeCell(&buf, m.X, m.Y); err != nil {
			return nil, err
		}

	case OpReportError, OpServerGoingDown:
		if err := writeString(&buf, m.Text); err != nil {
			return nil, err
		}

	case OpFeatures:
		if err := writeFeatureList(&buf, m.Features); err != nil {
			return nil, err
		}

	case OpGameOver:
		if err := writeBool(&buf, m.Victorious); err != nil {
			return nil, err
		}
		if err := writeReason(&buf, m.Reason); err != nil {
			return nil, err
		}

	case OpAfkWarning, OpEnemyAfk:
		if err := writeU8(&buf, uint8(m.Strikes)); err != nil {
			return nil, err
		}

	default:
		return nil, newDecodeErr(ErrUnknownOpcode, "")
	}

	return buf.Bytes(), nil
}

// Decode reads exactly one Message from r.
func Decode(r io.Reader) (Message, error) {
	opByte, err := readU8(r)
	if err != nil {
		return Message{}, err
	}
	op := Opcode(opByte)
	m := Message{Type: op}

	switch op {
	case OpGetFeatures, OpReady, OpNotReady, OpSurrender,
		OpOk, OpGameAlreadyStarted, OpNotYourTurn, OpInvalidRequest,
		OpYourTurn, OpEnemyTurn:
		// no fields

	case OpLogin, OpChallengePlayer,
		OpNameTaken, OpNoSuchPlayer, OpNotWaiting,
		OpPlayerJoined, OpPlayerLeft, OpPlayerReady, OpPlayerNotReady, OpGameStart:
		name, err := readString(r, false)
		if err != nil {
			return Message{}, err
		}
		m.Name = name

	case OpPlaceShips:
		placement, err := readPlacement(r)
		if err != nil {
			return Message{}, err
		}
		m.Placement = placement

	case OpShoot, OpHit, OpMiss, OpDestroyed,
		OpEnemyVisible, OpEnemyInvisible, OpEnemyHit, OpEnemyMiss:
		x, y, err := readCell(r)
		if err != nil {
			return Message{}, err
		}
		m.X, m.Y = x, y

	case OpMoveAndShoot:
		id, err := readU8(r)
		if err != nil {
			return Message{}, err
		}
		dir, err := readDirection(r)
		if err != nil {
			return Message{}, err
		}
		x, y, err := readCell(r)
		if err != nil {
			return Message{}, err
		}
		m.ShipID = int(id)
		m.Dir = dir
		m.X, m.Y = x, y

	case OpReportError, OpServerGoingDown:
		text, err := readString(r, true)
		if err != nil {
			return Message{}, err
		}
		m.Text = text

	case OpFeatures:
		features, err := readFeatureList(r)
		if err != nil {
			return Message{}, err
		}
		m.Features = features

	case OpGameOver:
		victorious, err := readBool(r)
		if err != nil {
			return Message{}, err
		}
		reason, err := readReason(r)
		if err != nil {
			return Message{}, err
		}
		m.Victorious = victorious
		m.Reason = reason

	case OpAfkWarning, OpEnemyAfk:
		strikes, err := readU8(r)
		if err != nil {
			return Message{}, err
		}
		m.Strikes = int(strikes)

	default:
		return Message{}, newDecodeErr(ErrUnknownOpcode, "")
	}

	return m, nil
}
