package protocol

import (
	"bytes"
	"errors"
	"testing"
)

func roundTrip(t *testing.T, m Message) Message {
	t.Helper()
	encoded, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode(%+v): %v", m, err)
	}
	decoded, err := Decode(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("Decode(Encode(%+v)): %v", m, err)
	}
	return decoded
}

func TestRoundTripNoFields(t *testing.T) {
	for _, op := range []Opcode{
		OpGetFeatures, OpReady, OpNotReady, OpSurrender,
		OpOk, OpGameAlreadyStarted, OpNotYourTurn, OpInvalidRequest,
		OpYourTurn, OpEnemyTurn,
	} {
		got := roundTrip(t, Message{Type: op})
		if got.Type != op {
			t.Errorf("opcode %d: got type %d", op, got.Type)
		}
	}
}

func TestRoundTripName(t *testing.T) {
	got := roundTrip(t, Message{Type: OpLogin, Name: "alice"})
	if got.Name != "alice" {
		t.Errorf("got name %q", got.Name)
	}
}

func TestRoundTripPlaceShips(t *testing.T) {
	placement := [5]Placement{
		{X: 0, Y: 0, Dir: East},
		{X: 0, Y: 1, Dir: East},
		{X: 0, Y: 2, Dir: East},
		{X: 0, Y: 3, Dir: East},
		{X: 0, Y: 4, Dir: East},
	}
	got := roundTrip(t, Message{Type: OpPlaceShips, Placement: placement})
	if got.Placement != placement {
		t.Errorf("got placement %+v, want %+v", got.Placement, placement)
	}
}

func TestRoundTripCell(t *testing.T) {
	got := roundTrip(t, Message{Type: OpShoot, X: 15, Y: 9})
	if got.X != 15 || got.Y != 9 {
		t.Errorf("got (%d,%d)", got.X, got.Y)
	}
}

func TestRoundTripMoveAndShoot(t *testing.T) {
	got := roundTrip(t, Message{Type: OpMoveAndShoot, ShipID: 3, Dir: South, X: 2, Y: 7})
	if got.ShipID != 3 || got.Dir != South || got.X != 2 || got.Y != 7 {
		t.Errorf("got %+v", got)
	}
}

func TestRoundTripFreeFormTextWithSpace(t *testing.T) {
	got := roundTrip(t, Message{Type: OpReportError, Text: "lost connection to peer"})
	if got.Text != "lost connection to peer" {
		t.Errorf("got text %q", got.Text)
	}
}

func TestRoundTripFeatures(t *testing.T) {
	features := []string{"UDP Server Discovery", "a b c"}
	got := roundTrip(t, Message{Type: OpFeatures, Features: features})
	if len(got.Features) != 2 || got.Features[0] != features[0] || got.Features[1] != features[1] {
		t.Errorf("got %+v", got.Features)
	}
}

func TestRoundTripGameOver(t *testing.T) {
	got := roundTrip(t, Message{Type: OpGameOver, Victorious: true, Reason: ReasonSurrendered})
	if !got.Victorious || got.Reason != ReasonSurrendered {
		t.Errorf("got %+v", got)
	}
}

func TestRoundTripAfkWarning(t *testing.T) {
	got := roundTrip(t, Message{Type: OpAfkWarning, Strikes: 2})
	if got.Strikes != 2 {
		t.Errorf("got strikes %d", got.Strikes)
	}
}

func TestDecodeUnknownOpcode(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte{250}))
	var de *DecodeError
	if !errors.As(err, &de) || de.Kind != ErrUnknownOpcode {
		t.Fatalf("expected ErrUnknownOpcode, got %v", err)
	}
}

func TestDecodeInvalidDirection(t *testing.T) {
	// MoveAndShoot: id, direction, x, y — direction byte 7 is out of range.
	_, err := Decode(bytes.NewReader([]byte{byte(OpMoveAndShoot), 0, 7, 0, 0}))
	var de *DecodeError
	if !errors.As(err, &de) || de.Kind != ErrInvalidEnum {
		t.Fatalf("expected ErrInvalidEnum, got %v", err)
	}
}

func TestDecodeInvalidBool(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte{byte(OpGameOver), 2, 0}))
	var de *DecodeError
	if !errors.As(err, &de) || de.Kind != ErrInvalidEnum {
		t.Fatalf("expected ErrInvalidEnum, got %v", err)
	}
}

func TestDecodeInvalidStringByte(t *testing.T) {
	// Login name string: length 1, byte 0x1F is below the printable range.
	_, err := Decode(bytes.NewReader([]byte{byte(OpLogin), 1, 0x1F}))
	var de *DecodeError
	if !errors.As(err, &de) || de.Kind != ErrInvalidString {
		t.Fatalf("expected ErrInvalidString, got %v", err)
	}
}

func TestDecodeSpaceRejectedInPlainString(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte{byte(OpLogin), 1, 0x20}))
	var de *DecodeError
	if !errors.As(err, &de) || de.Kind != ErrInvalidString {
		t.Fatalf("expected ErrInvalidString for space in plain name, got %v", err)
	}
}

func TestDecodeShortInputNoPanic(t *testing.T) {
	inputs := [][]byte{
		{},
		{byte(OpLogin)},
		{byte(OpLogin), 5, 'a', 'b'},
		{byte(OpShoot), 1},
	}
	for _, in := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Decode(%v) panicked: %v", in, r)
				}
			}()
			_, err := Decode(bytes.NewReader(in))
			var de *DecodeError
			if !errors.As(err, &de) || de.Kind != ErrShortRead {
				t.Errorf("Decode(%v): expected ErrShortRead, got %v", in, err)
			}
		}()
	}
}
