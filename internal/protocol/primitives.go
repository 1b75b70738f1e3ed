package protocol

import (
	"errors"
	"io"
)

// readByte reads exactly one byte, turning any read failure (including a
// clean io.EOF between messages) into an ErrShortRead.
func readByte(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, newDecodeErr(ErrShortRead, "")
		}
		return 0, newDecodeErr(ErrShortRead, err.Error())
	}
	return buf[0], nil
}

func readU8(r io.Reader) (uint8, error) {
	b, err := readByte(r)
	return uint8(b), err
}

func writeU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func readBool(r io.Reader) (bool, error) {
	b, err := readByte(r)
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, newDecodeErr(ErrInvalidEnum, "bool")
	}
}

func writeBool(w io.Writer, v bool) error {
	if v {
		return writeU8(w, 1)
	}
	return writeU8(w, 0)
}

func readDirection(r io.Reader) (Direction, error) {
	b, err := readByte(r)
	if err != nil {
		return 0, err
	}
	d := Direction(b)
	if !d.valid() {
		return 0, newDecodeErr(ErrInvalidEnum, "direction")
	}
	return d, nil
}

func writeDirection(w io.Writer, d Direction) error {
	return writeU8(w, uint8(d))
}

func readReason(r io.Reader) (Reason, error) {
	b, err := readByte(r)
	if err != nil {
		return 0, err
	}
	reason := Reason(b)
	if !reason.valid() {
		return 0, newDecodeErr(ErrInvalidEnum, "reason")
	}
	return reason, nil
}

func writeReason(w io.Writer, reason Reason) error {
	return writeU8(w, uint8(reason))
}

// validStringByte reports whether b is allowed in a protocol string.
// Plain strings (names) use [0x21,0x7E]; free-form strings (error
// messages, feature labels) additionally allow the space character.
func validStringByte(b byte, allowSpace bool) bool {
	if b >= 0x21 && b <= 0x7E {
		return true
	}
	return allowSpace && b == 0x20
}

// ValidName reports whether s is an acceptable player name: 1-255 bytes,
// every byte printable ASCII, no spaces. Used by the lobby to reject
// names before a Login ever reaches the wire.
func ValidName(s string) bool {
	if len(s) < 1 || len(s) > 0xFF {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !validStringByte(s[i], false) {
			return false
		}
	}
	return true
}

func readString(r io.Reader, allowSpace bool) (string, error) {
	n, err := readU8(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", newDecodeErr(ErrShortRead, "")
		}
	}
	for _, b := range buf {
		if !validStringByte(b, allowSpace) {
			return "", newDecodeErr(ErrInvalidString, "")
		}
	}
	return string(buf), nil
}

func writeString(w io.Writer, s string) error {
	if len(s) > 0xFF {
		return errors.New("protocol: string exceeds 255 bytes")
	}
	if err := writeU8(w, uint8(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readCell(r io.Reader) (x, y int, err error) {
	xb, err := readU8(r)
	if err != nil {
		return 0, 0, err
	}
	yb, err := readU8(r)
	if err != nil {
		return 0, 0, err
	}
	return int(xb), int(yb), nil
}

func writeCell(w io.Writer, x, y int) error {
	if err := writeU8(w, uint8(x)); err != nil {
		return err
	}
	return writeU8(w, uint8(y))
}

func readFeatureList(r io.Reader) ([]string, error) {
	n, err := readU8(r)
	if err != nil {
		return nil, err
	}
	features := make([]string, n)
	for i := range features {
		s, err := readString(r, true)
		if err != nil {
			return nil, err
		}
		features[i] = s
	}
	return features, nil
}

func writeFeatureList(w io.Writer, features []string) error {
	if len(features) > 0xFF {
		return errors.New("protocol: too many features")
	}
	if err := writeU8(w, uint8(len(features))); err != nil {
		return err
	}
	for _, f := range features {
		if err := writeString(w, f); err != nil {
			return err
		}
	}
	return nil
}

const numShips = 5

func readPlacement(r io.Reader) ([numShips]Placement, error) {
	var placement [numShips]Placement
	for i := range placement {
		x, y, err := readCell(r)
		if err != nil {
			return placement, err
		}
		dir, err := readDirection(r)
		if err != nil {
			return placement, err
		}
		placement[i] = Placement{X: x, Y: y, Dir: dir}
	}
	return placement, nil
}

func writePlacement(w io.Writer, placement [numShips]Placement) error {
	for _, p := range placement {
		if err := writeCell(w, p.X, p.Y); err != nil {
			return err
		}
		if err := writeDirection(w, p.Dir); err != nil {
			return err
		}
	}
	return nil
}
