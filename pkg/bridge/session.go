package bridge

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/loom-ui/loom/pkg/livedom"
	"github.com/loom-ui/loom/pkg/protocol"
	"github.com/loom-ui/loom/pkg/runtime"
	"github.com/loom-ui/loom/pkg/vdom"
)

// Session is one connected client: its own document, rendering context,
// and WebSocket connection. All rendering and event dispatch for a session
// happens on its read loop, which keeps the rendering context on a single
// goroutine.
type Session struct {
	ID string

	conn     *websocket.Conn
	doc      *livedom.Document
	recorder *Recorder
	rc       *runtime.RenderingContext
	root     vdom.ComponentFn

	config Config
	logger *slog.Logger
	tracer trace.Tracer

	sendSeq atomic.Uint64
	writeMu sync.Mutex
	closed  atomic.Bool
	done    chan struct{}

	onClose func(*Session)
}

func newSessionID() string {
	var b [18]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b[:])
}

func newSession(conn *websocket.Conn, root vdom.ComponentFn, cfg Config, logger *slog.Logger, tracer trace.Tracer) *Session {
	doc := livedom.NewDocument()
	rec := NewRecorder(doc)
	s := &Session{
		ID:       newSessionID(),
		conn:     conn,
		doc:      doc,
		recorder: rec,
		rc:       runtime.New(rec, runtime.WithLogger(logger)),
		root:     root,
		config:   cfg,
		logger:   logger,
		tracer:   tracer,
		done:     make(chan struct{}),
	}
	s.logger = logger.With("session", s.ID)
	return s
}

// run performs the handshake, sends the initial tree, then serves events
// until the connection drops. It blocks; the server calls it on a fresh
// goroutine per connection.
func (s *Session) run() {
	// the unmount runs here so effect cleanups stay on the session
	// goroutine, which owns the rendering context
	defer func() {
		s.rc.Render(nil, s.doc.Body())
		s.Close()
	}()

	if err := s.handshake(); err != nil {
		s.logger.Warn("handshake failed", "error", err)
		metrics().wsErrors.WithLabelValues("handshake").Inc()
		return
	}

	s.rc.Render(vdom.H(s.root, nil), s.doc.Body())
	if err := s.flushPatches(); err != nil {
		return
	}

	go s.pingLoop()
	s.readLoop()
}

func (s *Session) handshake() error {
	s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	_, msg, err := s.conn.ReadMessage()
	if err != nil {
		return err
	}
	ft, payload, err := protocol.DecodeFrame(msg)
	if err != nil {
		return err
	}
	if ft != protocol.FrameHello {
		return protocol.ErrUnknownFrameType
	}
	if _, err := protocol.DecodeClientHello(payload); err != nil {
		return err
	}

	hello, err := protocol.EncodeServerHello(&protocol.ServerHello{
		SessionID: s.ID,
		Seq:       s.sendSeq.Load(),
	})
	if err != nil {
		return err
	}
	return s.write(hello)
}

func (s *Session) readLoop() {
	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				metrics().wsErrors.WithLabelValues("read").Inc()
			}
			return
		}

		ft, payload, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.logger.Warn("frame decode error", "error", err)
			metrics().wsErrors.WithLabelValues("decode").Inc()
			continue
		}

		switch ft {
		case protocol.FrameEvent:
			s.handleEventFrame(payload)
		default:
			s.logger.Warn("unexpected frame type", "type", ft)
		}
	}
}

// handleEventFrame dispatches one client event into the component tree and
// streams out whatever patches the re-render produced. Panics from
// component code are contained to the event.
func (s *Session) handleEventFrame(payload []byte) {
	ev, err := protocol.DecodeEvent(payload)
	if err != nil {
		s.logger.Warn("event decode error", "error", err)
		s.sendError(1, "invalid event")
		metrics().eventsTotal.WithLabelValues("invalid").Inc()
		return
	}

	start := time.Now()
	_, span := s.tracer.Start(context.Background(), "loom.event",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("loom.session_id", s.ID),
			attribute.String("loom.event", ev.Name),
			attribute.Int64("loom.node", int64(ev.Node)),
		),
	)
	defer span.End()

	result := "dispatched"
	func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("event dispatch panic", "panic", r, "event", ev.Name)
				span.SetStatus(codes.Error, "dispatch panic")
				result = "panic"
			}
		}()

		target := s.doc.ByID(ev.Node)
		if target == nil {
			s.logger.Warn("event for unknown node", "node", ev.Node)
			result = "unknown_node"
			return
		}
		if !s.rc.Dispatch(s.doc.Body(), target, ev.Name, ev.Payload) {
			result = "no_handler"
		}
	}()

	if err := s.flushPatches(); err != nil {
		return
	}

	span.SetAttributes(attribute.String("loom.result", result))
	metrics().eventsTotal.WithLabelValues(result).Inc()
	metrics().eventDuration.Observe(time.Since(start).Seconds())
}

// flushPatches drains the recorder and sends one patches frame, if there
// is anything to send.
func (s *Session) flushPatches() error {
	patches := s.recorder.Drain()
	if len(patches) == 0 {
		return nil
	}

	pf := &protocol.PatchFrame{
		Seq:     s.sendSeq.Add(1),
		Patches: patches,
	}
	payload, err := protocol.EncodePatches(pf)
	if err != nil {
		s.logger.Error("patch encode error", "error", err)
		return err
	}
	if err := s.write(protocol.EncodeFrame(protocol.FramePatches, payload)); err != nil {
		s.logger.Error("write error", "error", err)
		metrics().wsErrors.WithLabelValues("write").Inc()
		return err
	}
	metrics().patchesSent.Add(float64(len(patches)))
	return nil
}

func (s *Session) sendError(code int, message string) {
	payload, err := protocol.EncodeErrorFrame(&protocol.ErrorFrame{Code: code, Message: message})
	if err != nil {
		return
	}
	s.write(protocol.EncodeFrame(protocol.FrameError, payload))
}

func (s *Session) write(frame []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed.Load() {
		return websocket.ErrCloseSent
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	return s.conn.WriteMessage(websocket.BinaryMessage, frame)
}

func (s *Session) pingLoop() {
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.writeMu.Lock()
			s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			err := s.conn.WriteMessage(websocket.PingMessage, nil)
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// Close ends the session. Closing the connection unblocks the read loop,
// whose exit path unmounts the tree.
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	close(s.done)
	s.conn.Close()
	if s.onClose != nil {
		s.onClose(s)
	}
	s.logger.Info("session closed")
}
