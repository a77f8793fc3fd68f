package led

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coreman2200/ledstrip/strip"
)

// Frame is the JSON message pushed to preview clients. Pixels holds the raw
// R,G,B[,W] bytes (base64 on the wire).
type Frame struct {
	ID       uint64 `json:"frame_id"`
	Count    int    `json:"count"`
	Channels int    `json:"channels"`
	Pixels   []byte `json:"pixels"`
}

// Hello is sent once to every client right after it connects.
type Hello struct {
	Count    int    `json:"count"`
	Channels int    `json:"channels"`
	Model    string `json:"model"`
}

// Preview broadcasts every transmitted frame to websocket clients. It serves
// /ws for frames and /health for a JSON status.
type Preview struct {
	mu       sync.Mutex
	count    int
	model    strip.Model
	frameID  uint64
	start    time.Time
	clients  map[*websocket.Conn]bool
	released bool
	up       websocket.Upgrader
	mux      *http.ServeMux
	log      zerolog.Logger
}

// NewPreview returns a preview engine. Mount it with http.Handle or use it as
// a server's Handler directly.
func NewPreview(count int, m strip.Model, log zerolog.Logger) *Preview {
	p := &Preview{
		count:   count,
		model:   m,
		start:   time.Now(),
		clients: map[*websocket.Conn]bool{},
		up:      websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		mux:     http.NewServeMux(),
		log:     log,
	}
	p.mux.HandleFunc("/ws", p.handleFrames)
	p.mux.HandleFunc("/health", p.handleHealth)
	return p
}

func (p *Preview) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mux.ServeHTTP(w, r)
}

func (p *Preview) handleFrames(w http.ResponseWriter, r *http.Request) {
	conn, err := p.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	p.mu.Lock()
	if p.released {
		p.mu.Unlock()
		conn.Close()
		return
	}
	p.clients[conn] = true
	err = conn.WriteJSON(Hello{Count: p.count, Channels: p.model.Channels(), Model: p.model.String()})
	p.mu.Unlock()
	if err != nil {
		p.drop(conn)
		return
	}
	p.log.Debug().Str("remote", r.RemoteAddr).Msg("preview client connected")

	go func() {
		defer p.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (p *Preview) handleHealth(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	resp := map[string]any{
		"frame_id": p.frameID,
		"uptime_s": time.Since(p.start).Seconds(),
		"count":    p.count,
		"model":    p.model.String(),
		"clients":  len(p.clients),
		"released": p.released,
	}
	p.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (p *Preview) drop(conn *websocket.Conn) {
	p.mu.Lock()
	delete(p.clients, conn)
	p.mu.Unlock()
	conn.Close()
}

// Transmit pushes frame to every connected client. Clients that cannot keep
// up are disconnected; that is not an engine failure.
func (p *Preview) Transmit(frame []byte) error {
	if err := checkFrame(frame, p.count, p.model.Channels()); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return errors.New("preview released")
	}
	p.frameID++
	msg, err := json.Marshal(Frame{ID: p.frameID, Count: p.count, Channels: p.model.Channels(), Pixels: frame})
	if err != nil {
		return err
	}
	for c := range p.clients {
		_ = c.SetWriteDeadline(time.Now().Add(time.Second))
		if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
			p.log.Debug().Err(err).Str("remote", c.RemoteAddr().String()).Msg("dropping preview client")
			delete(p.clients, c)
			c.Close()
		}
	}
	return nil
}

// Release disconnects every client. Later Transmit calls fail.
func (p *Preview) Release() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released = true
	for c := range p.clients {
		_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "strip deleted"))
		c.Close()
		delete(p.clients, c)
	}
	return nil
}

// Clients returns the number of connected clients.
func (p *Preview) Clients() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clients)
}

var _ strip.Engine = (*Preview)(nil)
