package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"dota-review-tracker/internal/constants"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Overlay windows.
const (
	WindowDashboard = "dashboard"
	WindowRecord    = "record"
	WindowReview    = "review"
)

// Message types.
const (
	TypeModeSwitch    = "mode_switch"
	TypeRosterData    = "roster_data"
	TypeMatchID       = "match_id"
	TypeStrategyBoard = "strategy_board"
)

// Overlay modes carried by mode_switch.
const (
	ModeReview = "review"
	ModeHidden = "hidden"
)

// Message is the envelope exchanged between windows. An empty Window
// addresses every window.
type Message struct {
	Type    string          `json:"type"`
	Window  string          `json:"window,omitempty"`
	From    string          `json:"from,omitempty"`
	Payload json.RawMessage `json:"payload"`
	SentAt  time.Time       `json:"sent_at"`
}

type ModeSwitch struct {
	Mode string `json:"mode"`
}

type MatchIDPayload struct {
	MatchID string `json:"match_id"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // overlay windows load from the runtime's own origin
	},
}

type client struct {
	hub    *Hub
	conn   *websocket.Conn
	window string
	send   chan []byte
}

// envelope carries a message to the run loop. sender is nil for messages
// published by the server.
type envelope struct {
	msg    Message
	sender *client
}

type retainKey struct {
	window string
	kind   string
}

// Hub routes messages to connected windows. The last message of each type
// sent to a window is retained and replayed when that window connects.
type Hub struct {
	logger zerolog.Logger

	mu       sync.RWMutex
	clients  map[*client]struct{}
	retained map[retainKey][]byte

	register   chan *client
	unregister chan *client
	publish    chan envelope
	done       chan struct{}
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger:     logger.With().Str("component", "messaging").Logger(),
		clients:    make(map[*client]struct{}),
		retained:   make(map[retainKey][]byte),
		register:   make(chan *client),
		unregister: make(chan *client),
		publish:    make(chan envelope, constants.EventQueueSize),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and deliveries until ctx is done.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return nil

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			for key, data := range h.retained {
				if key.window == c.window {
					h.enqueue(c, data)
				}
			}
			h.mu.Unlock()
			h.logger.Info().Str("window", c.window).Int("clients", h.ClientCount("")).Msg("window connected")

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			h.logger.Info().Str("window", c.window).Msg("window disconnected")

		case e := <-h.publish:
			h.deliver(e.msg, e.sender)
		}
	}
}

// Publish sends payload to window, or to every window when window is empty.
func (h *Hub) Publish(window, kind string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", kind, err)
	}
	msg := Message{
		Type:    kind,
		Window:  window,
		Payload: data,
		SentAt:  time.Now().UTC(),
	}

	select {
	case h.publish <- envelope{msg: msg}:
		return nil
	default:
		h.logger.Warn().Str("type", kind).Str("window", window).Msg("publish queue full, dropping message")
		return fmt.Errorf("publish queue full")
	}
}

func knownWindow(window string) bool {
	switch window {
	case WindowDashboard, WindowRecord, WindowReview:
		return true
	}
	return false
}

// deliver never echoes a message back to the client that sent it.
func (h *Hub) deliver(msg Message, sender *client) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msg.Type).Msg("failed to encode message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	targets := []string{msg.Window}
	if msg.Window == "" {
		targets = []string{WindowDashboard, WindowRecord, WindowReview}
	}
	for _, w := range targets {
		if knownWindow(w) {
			h.retained[retainKey{window: w, kind: msg.Type}] = data
		}
	}

	delivered := 0
	for c := range h.clients {
		if c == sender {
			continue
		}
		if msg.Window != "" && c.window != msg.Window {
			continue
		}
		if h.enqueue(c, data) {
			delivered++
		}
	}

	h.logger.Debug().
		Str("type", msg.Type).
		Str("window", msg.Window).
		Int("delivered", delivered).
		Msg("message published")
}

// enqueue drops a client whose buffer is full. Caller holds h.mu.
func (h *Hub) enqueue(c *client, data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		h.logger.Warn().Str("window", c.window).Msg("window too slow, disconnecting")
		delete(h.clients, c)
		close(c.send)
		return false
	}
}

// ClientCount returns the number of connections for window, or all
// connections when window is empty.
func (h *Hub) ClientCount(window string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if window == "" {
		return len(h.clients)
	}
	n := 0
	for c := range h.clients {
		if c.window == window {
			n++
		}
	}
	return n
}

// ServeHTTP upgrades GET /ws?window=<name>.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	window := r.URL.Query().Get("window")
	if window == "" {
		http.Error(w, "window query parameter is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{
		hub:    h,
		conn:   conn,
		window: window,
		send:   make(chan []byte, constants.WindowQueueSize),
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	case <-r.Context().Done():
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump relays messages a window sends to other windows.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(constants.WSReadLimit)
	c.conn.SetReadDeadline(time.Now().Add(constants.WSPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(constants.WSPongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNoStatusReceived) {
				c.hub.logger.Warn().Err(err).Str("window", c.window).Msg("websocket read failed")
			}
			return
		}
		if msg.Type == "" {
			continue
		}
		msg.From = c.window
		msg.SentAt = time.Now().UTC()

		select {
		case c.hub.publish <- envelope{msg: msg, sender: c}:
		default:
			c.hub.logger.Warn().Str("type", msg.Type).Msg("publish queue full, dropping relayed message")
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(constants.WSPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(constants.WSWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(constants.WSWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
