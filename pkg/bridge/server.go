package bridge

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/loom-ui/loom/pkg/livedom"
	"github.com/loom-ui/loom/pkg/runtime"
	"github.com/loom-ui/loom/pkg/vdom"
)

// ErrTooManySessions is returned to clients rejected by the session cap.
var ErrTooManySessions = errors.New("loom: session limit reached")

// Config holds the bridge server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// MetricsPath is where Prometheus metrics are exposed.
	MetricsPath string

	// AllowedOrigins whitelists WebSocket origins. A single "*" entry
	// allows any origin; empty allows same-host only.
	AllowedOrigins []string

	// MaxSessions caps concurrent sessions; 0 means unlimited.
	MaxSessions int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	PingInterval    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the settings used when a field is left zero.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		MetricsPath:     "/metrics",
		ReadTimeout:     60 * time.Second,
		WriteTimeout:    10 * time.Second,
		PingInterval:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.MetricsPath == "" {
		c.MetricsPath = d.MetricsPath
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.PingInterval == 0 {
		c.PingInterval = d.PingInterval
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

// Server hosts rendering sessions for one root component.
type Server struct {
	config Config
	root   vdom.ComponentFn
	logger *slog.Logger
	tracer trace.Tracer

	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*Session

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates a bridge server rendering root for every session.
func New(cfg Config, root vdom.ComponentFn, opts ...Option) *Server {
	s := &Server{
		config:   cfg.withDefaults(),
		root:     root,
		logger:   slog.Default().With("component", "bridge"),
		tracer:   otel.Tracer("loom"),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.config.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	if len(s.config.AllowedOrigins) > 0 {
		return false
	}
	// empty allowlist: same-host origins only
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// Handler returns the HTTP surface: page shell, WebSocket endpoint, health
// check, and metrics.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/live", s.handleWebSocket)
	r.Get("/healthz", s.handleHealth)
	r.Handle(s.config.MetricsPath, promhttp.Handler())

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleIndex serves a server-rendered snapshot of the root component.
// The snapshot uses a throwaway document; live updates flow over the
// WebSocket endpoint.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	doc := livedom.NewDocument()
	rc := runtime.New(doc, runtime.WithLogger(s.logger))

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("index render panic", "panic", rec)
			http.Error(w, "render failed", http.StatusInternalServerError)
		}
	}()
	rc.Render(vdom.H(s.root, nil), doc.Body())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte("<!DOCTYPE html>\n<html><body>"))
	w.Write([]byte(doc.Body().InnerHTML()))
	w.Write([]byte("</body></html>\n"))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.config.MaxSessions > 0 {
		s.mu.Lock()
		full := len(s.sessions) >= s.config.MaxSessions
		s.mu.Unlock()
		if full {
			http.Error(w, ErrTooManySessions.Error(), http.StatusServiceUnavailable)
			return
		}
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "error", err)
		metrics().wsErrors.WithLabelValues("upgrade").Inc()
		return
	}

	sess := newSession(conn, s.root, s.config, s.logger, s.tracer)
	sess.onClose = s.dropSession

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	metrics().sessionsTotal.Inc()
	metrics().activeSessions.Inc()

	go sess.run()
}

func (s *Server) dropSession(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.ID)
	s.mu.Unlock()
	metrics().activeSessions.Dec()
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ListenAndServe serves until ctx is canceled, then drains sessions and
// shuts the HTTP server down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.config.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	open := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()
	for _, sess := range open {
		sess.Close()
	}

	return s.httpServer.Shutdown(shutdownCtx)
}
