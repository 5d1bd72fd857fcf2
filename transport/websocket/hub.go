package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tiltmaze/tilt-maze-game/game/engine"
	"github.com/tiltmaze/tilt-maze-game/game/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// Message is an outbound WebSocket message. Event is one of "state",
// "frame", "started", or "error".
type Message struct {
	SessionID string            `json:"session_id"`
	Event     string            `json:"event,omitempty"`
	GameState *engine.GameState `json:"game_state,omitempty"`
	Frame     *engine.Frame     `json:"frame,omitempty"`
	Data      interface{}       `json:"data,omitempty"`
}

// command is an inbound client message: tilt input or a start/retry
// request.
type command struct {
	Type     string  `json:"type"`
	IX       float64 `json:"ix"`
	IY       float64 `json:"iy"`
	Realtime *bool   `json:"realtime,omitempty"`
}

// Client represents a WebSocket client
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// Hub maintains the set of active clients, fans frames out to them, and
// routes their input and start commands into the game service. It
// implements service.FrameBroadcaster.
type Hub struct {
	service service.GameService

	// Registered clients by session ID
	sessions map[string]map[*Client]bool

	// Outbound messages to fan out
	broadcast chan *Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client
}

// NewHub creates a new WebSocket hub
func NewHub(svc service.GameService) *Hub {
	return &Hub{
		service:  svc,
		sessions: make(map[string]map[*Client]bool),
		// Buffered so the game loop never waits on slow consumers
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// ServeWS handles WebSocket requests from clients
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
	}

	client.hub.register <- client

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

// BroadcastFrame fans a live frame out to the session's clients. Called
// from the real-time loop, so it never blocks: if the hub is backed up
// the frame is dropped and the next one supersedes it.
func (h *Hub) BroadcastFrame(sessionID string, frame *engine.Frame) {
	message := &Message{
		SessionID: sessionID,
		Event:     "frame",
		Frame:     frame,
	}

	select {
	case h.broadcast <- message:
	default:
	}
}

// BroadcastState sends a full game state snapshot to all clients in a session
func (h *Hub) BroadcastState(sessionID string, state *engine.GameState) {
	h.broadcast <- &Message{
		SessionID: sessionID,
		Event:     "state",
		GameState: state,
	}
}

// registerClient adds a client to a session and sends it the current state
func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	log.Printf("Client registered for session %s (total clients: %d)",
		client.sessionID, len(h.sessions[client.sessionID]))

	// A client joining mid-run needs the maze before any frames make sense
	state, err := h.service.GetGameState(context.Background(), client.sessionID)
	if err != nil {
		client.sendMessage(&Message{
			SessionID: client.sessionID,
			Event:     "error",
			Data:      err.Error(),
		})
		return
	}
	client.sendMessage(&Message{
		SessionID: client.sessionID,
		Event:     "state",
		GameState: state,
	})
}

// unregisterClient removes a client from a session
func (h *Hub) unregisterClient(client *Client) {
	if clients, ok := h.sessions[client.sessionID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)

			// Clean up empty sessions
			if len(clients) == 0 {
				delete(h.sessions, client.sessionID)
			}

			log.Printf("Client unregistered from session %s (remaining clients: %d)",
				client.sessionID, len(clients))
		}
	}
}

// broadcastMessage sends a message to all clients in a session
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal broadcast message: %v", err)
		return
	}

	if clients, ok := h.sessions[message.SessionID]; ok {
		for client := range clients {
			select {
			case client.send <- data:
			default:
				h.unregisterClient(client)
			}
		}
	}
}

// sendMessage queues a message for a single client, dropping it if the
// client is backed up
func (c *Client) sendMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal client message: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// readPump pumps messages from the WebSocket connection into the service
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var cmd command
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.sendMessage(&Message{
				SessionID: c.sessionID,
				Event:     "error",
				Data:      "malformed command",
			})
			continue
		}

		c.handleCommand(&cmd)
	}
}

// handleCommand routes one inbound command into the game service
func (c *Client) handleCommand(cmd *command) {
	ctx := context.Background()

	switch cmd.Type {
	case "input":
		if err := c.hub.service.SetInput(ctx, c.sessionID, cmd.IX, cmd.IY); err != nil {
			c.sendMessage(&Message{SessionID: c.sessionID, Event: "error", Data: err.Error()})
		}

	case "start":
		realtime := true
		if cmd.Realtime != nil {
			realtime = *cmd.Realtime
		}
		result, err := c.hub.service.StartGame(ctx, c.sessionID, realtime)
		if err != nil {
			c.sendMessage(&Message{SessionID: c.sessionID, Event: "error", Data: err.Error()})
			return
		}
		// Everyone watching the session gets the fresh maze
		c.hub.broadcast <- &Message{
			SessionID: c.sessionID,
			Event:     "started",
			GameState: result.GameState,
		}

	default:
		c.sendMessage(&Message{
			SessionID: c.sessionID,
			Event:     "error",
			Data:      "unknown command type: " + cmd.Type,
		})
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
