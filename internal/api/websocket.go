package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/joker-games/joker-server/internal/game"
	"github.com/joker-games/joker-server/internal/registry"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now, customize this in production
	},
}

// ClientMessage is an inbound WebSocket message.
type ClientMessage struct {
	Type       string `json:"type"`
	RoomID     string `json:"roomId,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
	Amount     int    `json:"amount,omitempty"`
	Phase      string `json:"phase,omitempty"`
}

// ServerMessage is an outbound WebSocket message.
type ServerMessage struct {
	Type    string      `json:"type"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Client represents one connected WebSocket client. The connection id
// doubles as the player id inside rooms.
type Client struct {
	id     string
	roomID string
	conn   *websocket.Conn
	send   chan []byte
	hub    *Hub
}

// Hub maintains the set of active clients and their room subscriptions
// and translates messages into registry calls.
type Hub struct {
	registry *registry.Registry
	log      *zap.Logger

	mu      sync.RWMutex
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool
}

// NewHub creates a hub bound to the room registry.
func NewHub(reg *registry.Registry, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		registry: reg,
		log:      log.Named("hub"),
		clients:  make(map[*Client]bool),
		rooms:    make(map[string]map[*Client]bool),
	}
}

// ServeWS upgrades the request and starts the client's pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, 256),
		hub:  h,
	}

	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	client.sendMessage(ServerMessage{
		Type: "welcome",
		Data: map[string]string{"connectionId": client.id},
	})

	go client.readPump()
	go client.writePump()
}

// handleMessage dispatches one inbound message. Failures go back to the
// sending client only; successful mutations broadcast the new snapshot
// to every client in the room.
func (h *Hub) handleMessage(c *Client, msg ClientMessage) {
	switch msg.Type {
	case "join":
		h.handleJoin(c, msg.RoomID, msg.PlayerName)
	case "bet":
		h.handleAction(c, msg.RoomID, func() (game.Snapshot, error) {
			return h.registry.Bet(msg.RoomID, c.id, msg.Amount)
		})
	case "hit":
		h.handleAction(c, msg.RoomID, func() (game.Snapshot, error) {
			return h.registry.Hit(msg.RoomID, c.id)
		})
	case "stand":
		h.handleAction(c, msg.RoomID, func() (game.Snapshot, error) {
			return h.registry.Stand(msg.RoomID, c.id)
		})
	case "phaseTimeout":
		h.handlePhaseTimeout(c, msg.RoomID, game.Phase(msg.Phase))
	default:
		c.sendError("unknown message type: " + msg.Type)
	}
}

func (h *Hub) handleJoin(c *Client, roomID, playerName string) {
	snap, err := h.registry.Join(roomID, c.id, playerName)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	h.mu.Lock()
	c.roomID = roomID
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][c] = true
	h.mu.Unlock()

	// Idempotent: the first joiner arms the room's phase timer.
	if err := h.registry.StartPhaseTimer(roomID, func(s game.Snapshot) {
		h.BroadcastState(roomID, s)
	}); err != nil {
		h.log.Warn("start phase timer", zap.String("room", roomID), zap.Error(err))
	}

	h.log.Info("player joined",
		zap.String("room", roomID),
		zap.String("player", c.id),
		zap.String("name", playerName))
	h.BroadcastState(roomID, snap)
}

func (h *Hub) handleAction(c *Client, roomID string, action func() (game.Snapshot, error)) {
	if c.roomID != roomID {
		c.sendError("connection does not belong to this room")
		return
	}
	snap, err := action()
	if err != nil {
		c.sendError(err.Error())
		return
	}
	h.BroadcastState(roomID, snap)
}

func (h *Hub) handlePhaseTimeout(c *Client, roomID string, observed game.Phase) {
	if c.roomID != roomID {
		c.sendError("connection does not belong to this room")
		return
	}
	snap, advanced, err := h.registry.PhaseTimeout(roomID, observed)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	if advanced {
		h.BroadcastState(roomID, snap)
	}
}

// BroadcastState sends a stateUpdate to every client joined to a room.
func (h *Hub) BroadcastState(roomID string, snap game.Snapshot) {
	data, err := json.Marshal(ServerMessage{Type: "stateUpdate", Data: snap})
	if err != nil {
		h.log.Error("marshal state update", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[roomID] {
		select {
		case client.send <- data:
		default:
			// Client buffer is full; the write pump will catch up or drop.
		}
	}
}

// unregister tears down a disconnected client and removes its player
// from the room, which destroys the room when it empties.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	if c.roomID != "" && h.rooms[c.roomID] != nil {
		delete(h.rooms[c.roomID], c)
		if len(h.rooms[c.roomID]) == 0 {
			delete(h.rooms, c.roomID)
		}
	}
	h.mu.Unlock()

	if c.roomID != "" {
		h.registry.RemovePlayer(c.roomID, c.id)
		h.log.Info("player left", zap.String("room", c.roomID), zap.String("player", c.id))
	}
}

func (c *Client) sendMessage(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.hub.log.Error("marshal message", zap.Error(err))
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) sendError(message string) {
	c.sendMessage(ServerMessage{Type: "error", Message: message})
}

// readPump pumps messages from the WebSocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(64 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("websocket read", zap.String("connection", c.id), zap.Error(err))
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("malformed message")
			continue
		}
		c.hub.handleMessage(c, msg)
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
