// Package stream broadcasts per-tick analysis snapshots to websocket
// clients, so external dashboards can follow band energies, mood, and
// the active palette without linking against the renderer.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rotisserie/eris"

	"github.com/lumabeat/lumabeat/internal/palette"
	"github.com/lumabeat/lumabeat/internal/particles"
	"github.com/lumabeat/lumabeat/internal/pipeline"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	clientBuffer   = 64
	broadcastEvery = 2 // forward every Nth snapshot to keep traffic sane
)

// wireSnapshot is the JSON shape sent to clients.
type wireSnapshot struct {
	Tick       uint64     `json:"tick"`
	Bands      []float64  `json:"bands"`
	Energy     float64    `json:"energy"`
	Brightness float64    `json:"brightness"`
	Dynamics   float64    `json:"dynamics"`
	Palette    wireColors `json:"palette"`
	PaletteKey string     `json:"paletteName"`
	VisualMode string     `json:"visualMode"`
}

type wireColors struct {
	Background string `json:"background"`
	Base       string `json:"base"`
	Accent     string `json:"accent"`
	Ring       string `json:"ring"`
	Particle   string `json:"particle"`
	Highlight  string `json:"highlight"`
}

func toWire(s pipeline.Snapshot) wireSnapshot {
	return wireSnapshot{
		Tick:       s.Tick,
		Bands:      s.Frame.Bands,
		Energy:     s.Mood.Energy,
		Brightness: s.Mood.Brightness,
		Dynamics:   s.Mood.Dynamics,
		Palette: wireColors{
			Background: s.Palette.Background.Hex(),
			Base:       s.Palette.Base.Hex(),
			Accent:     s.Palette.Accent.Hex(),
			Ring:       s.Palette.Ring.Hex(),
			Particle:   s.Palette.Particle.Hex(),
			Highlight:  s.Palette.Highlight.Hex(),
		},
		PaletteKey: s.PaletteName,
		VisualMode: s.VisualMode,
	}
}

// Server fans snapshots out to connected websocket clients and answers
// small JSON lookups for the available palettes and visual modes.
type Server struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
	last    wireSnapshot
	seen    uint64
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewServer builds a Server ready to be wired to a pipeline via Publish.
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:  logger,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Publish is a pipeline.Observer: it records the snapshot and fans a
// JSON encoding out to every connected client. Slow clients are dropped
// rather than allowed to stall the tick.
func (s *Server) Publish(snap pipeline.Snapshot) {
	s.mu.Lock()
	s.seen++
	wire := toWire(snap)
	s.last = wire
	skip := s.seen%broadcastEvery != 0 || len(s.clients) == 0
	s.mu.Unlock()
	if skip {
		return
	}

	data, err := json.Marshal(wire)
	if err != nil {
		return
	}

	s.mu.Lock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			close(c.send)
			delete(s.clients, c)
		}
	}
	s.mu.Unlock()
}

// Handler returns the HTTP routes: /ws for the snapshot feed, plus
// /api/status, /api/palettes, /api/modes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/palettes", s.handlePalettes)
	mux.HandleFunc("/api/modes", s.handleModes)
	return mux
}

// ListenAndServe serves until the context is cancelled, then shuts the
// listener down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("stream server listening", slog.String("addr", addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return eris.Wrap(err, "stream: shutdown")
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return eris.Wrap(err, "stream: listen")
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(last)
}

func (s *Server) handlePalettes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(palette.Names())
}

func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(particles.Modes())
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	go s.writePump(c)
	go s.readPump(c)
}

// ClientCount reports connected clients, for status logging and tests.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) readPump(c *client) {
	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
