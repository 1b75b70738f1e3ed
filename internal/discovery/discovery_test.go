package discovery

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	buf := encode(5000, "Alice's Server")
	port, name, err := decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if port != 5000 || name != "Alice's Server" {
		t.Fatalf("got port=%d name=%q", port, name)
	}
}

func TestDecodeRejectsShortPacket(t *testing.T) {
	if _, _, err := decode([]byte{0x01}); err == nil {
		t.Fatalf("expected an error for a packet shorter than the port field")
	}
}

func TestDecodeAcceptsEmptyName(t *testing.T) {
	port, name, err := decode(encode(80, ""))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if port != 80 || name != "" {
		t.Fatalf("got port=%d name=%q", port, name)
	}
}
