package protocol

import (
	"errors"
	"testing"
)

func TestFrameEnvelope(t *testing.T) {
	data := EncodeFrame(FramePatches, []byte{0x01, 0x02})

	ft, payload, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ft != FramePatches {
		t.Errorf("type = %d", ft)
	}
	if len(payload) != 2 || payload[0] != 0x01 {
		t.Errorf("payload = %v", payload)
	}
}

func TestFrameErrors(t *testing.T) {
	if _, _, err := DecodeFrame(nil); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("empty: %v", err)
	}
	if _, _, err := DecodeFrame([]byte{0x7F}); !errors.Is(err, ErrUnknownFrameType) {
		t.Errorf("unknown type: %v", err)
	}
	if _, _, err := DecodeFrame(make([]byte, MaxFrameBytes+1)); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("oversized: %v", err)
	}
}

func TestHelloRoundTrip(t *testing.T) {
	data, err := EncodeClientHello(&ClientHello{Version: Version, Resume: "s-123"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	ft, payload, err := DecodeFrame(data)
	if err != nil || ft != FrameHello {
		t.Fatalf("frame: %v %v", ft, err)
	}
	h, err := DecodeClientHello(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if h.Resume != "s-123" {
		t.Errorf("resume = %q", h.Resume)
	}
}

func TestHelloVersionMismatch(t *testing.T) {
	data, err := EncodeClientHello(&ClientHello{Version: Version + 1})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	_, payload, _ := DecodeFrame(data)
	if _, err := DecodeClientHello(payload); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("err = %v, want ErrVersionMismatch", err)
	}
}
