package protocol

import "github.com/vmihailenco/msgpack/v5"

// FrameType identifies a frame's payload.
type FrameType uint8

const (
	FrameHello   FrameType = 0x00 // ClientHello / ServerHello
	FrameEvent   FrameType = 0x01 // client to server
	FramePatches FrameType = 0x02 // server to client
	FrameError   FrameType = 0x03 // server to client
)

// ClientHello opens a session. Resume carries a previous session ID when
// the client reconnects.
type ClientHello struct {
	Version int    `msgpack:"version"`
	Resume  string `msgpack:"resume,omitempty"`
}

// ServerHello answers a ClientHello with the session identity and the
// sequence number the server will start from.
type ServerHello struct {
	SessionID string `msgpack:"session"`
	Seq       uint64 `msgpack:"seq"`
}

// ErrorFrame reports a session-fatal condition before the server closes.
type ErrorFrame struct {
	Code    int    `msgpack:"code"`
	Message string `msgpack:"message"`
}

// EncodeFrame wraps a msgpack payload in the one-byte envelope.
func EncodeFrame(t FrameType, payload []byte) []byte {
	out := make([]byte, 0, 1+len(payload))
	out = append(out, byte(t))
	return append(out, payload...)
}

// DecodeFrame splits the envelope, enforcing the frame size limit.
func DecodeFrame(data []byte) (FrameType, []byte, error) {
	if len(data) == 0 {
		return 0, nil, ErrEmptyFrame
	}
	if len(data) > MaxFrameBytes {
		return 0, nil, ErrFrameTooLarge
	}
	t := FrameType(data[0])
	switch t {
	case FrameHello, FrameEvent, FramePatches, FrameError:
		return t, data[1:], nil
	}
	return 0, nil, ErrUnknownFrameType
}

// EncodeClientHello serializes and frames a client hello.
func EncodeClientHello(h *ClientHello) ([]byte, error) {
	payload, err := msgpack.Marshal(h)
	if err != nil {
		return nil, err
	}
	return EncodeFrame(FrameHello, payload), nil
}

// DecodeClientHello deserializes a hello payload and checks the version.
func DecodeClientHello(payload []byte) (*ClientHello, error) {
	var h ClientHello
	if err := msgpack.Unmarshal(payload, &h); err != nil {
		return nil, err
	}
	if h.Version != Version {
		return nil, ErrVersionMismatch
	}
	return &h, nil
}

// EncodeServerHello serializes and frames a server hello.
func EncodeServerHello(h *ServerHello) ([]byte, error) {
	payload, err := msgpack.Marshal(h)
	if err != nil {
		return nil, err
	}
	return EncodeFrame(FrameHello, payload), nil
}

// DecodeServerHello deserializes a server hello payload.
func DecodeServerHello(payload []byte) (*ServerHello, error) {
	var h ServerHello
	if err := msgpack.Unmarshal(payload, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// EncodeErrorFrame serializes and frames an error.
func EncodeErrorFrame(ef *ErrorFrame) ([]byte, error) {
	payload, err := msgpack.Marshal(ef)
	if err != nil {
		return nil, err
	}
	return EncodeFrame(FrameError, payload), nil
}

// DecodeErrorFrame deserializes an error payload.
func DecodeErrorFrame(payload []byte) (*ErrorFrame, error) {
	var ef ErrorFrame
	if err := msgpack.Unmarshal(payload, &ef); err != nil {
		return nil, err
	}
	return &ef, nil
}
