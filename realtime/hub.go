package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event types pushed to tournament rooms.
const (
	EventScheduleGenerated = "SCHEDULE_GENERATED"
	EventMatchUpdated      = "MATCH_UPDATED"
	EventStandingsUpdated  = "STANDINGS_UPDATED"
	EventBracketUpdated    = "BRACKET_UPDATED"
)

type Client struct {
	Hub      *Hub
	Conn     *websocket.Conn
	Send     chan []byte
	Room     string
	IsClosed bool
	Mu       sync.Mutex
}

type WebSocketMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 256
)

// TournamentRoom is the room every viewer of a tournament joins.
func TournamentRoom(tournamentID int) string {
	return fmt.Sprintf("tournament_%d", tournamentID)
}

type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger

	// done is closed once Run has returned; nothing reads the channels after that.
	done     chan struct{}
	stopOnce sync.Once
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
		done:       make(chan struct{}),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, room string) *Client {
	return &Client{Hub: hub, Conn: conn, Send: make(chan []byte, sendBufferSize), Room: room}
}

// Run serves registrations until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			h.stopOnce.Do(func() { close(h.done) })
			return

		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			h.logger.Debug("client registered", "room", client.Room, "clients", len(h.rooms[client.Room]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room][client]; ok {
				client.close()
				delete(h.rooms[client.Room], client)
				if len(h.rooms[client.Room]) == 0 {
					delete(h.rooms, client.Room)
					h.logger.Debug("room closed", "room", client.Room)
				}
			}
			h.mu.Unlock()
		}
	}
}

// RegisterClient hands c to Run. It reports false once the hub has stopped.
func (h *Hub) RegisterClient(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

// UnregisterClient hands c back to Run, or returns at once if the hub has stopped.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, clients := range h.rooms {
		for client := range clients {
			client.close()
		}
		delete(h.rooms, room)
	}
}

// ClientCount returns the number of clients registered in room.
func (h *Hub) ClientCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// BroadcastToRoom отправляет сообщение всем клиентам в указанной комнате.
// Clients with a full send buffer miss the message.
func (h *Hub) BroadcastToRoom(roomID string, message interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomClients, ok := h.rooms[roomID]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal room message", "room", roomID, "error", err)
		return
	}

	for client := range roomClients {
		client.Mu.Lock()
		if client.IsClosed {
			client.Mu.Unlock()
			continue
		}
		select {
		case client.Send <- messageBytes:
		default:
			h.logger.Warn("client send buffer full, message dropped", "room", roomID)
		}
		client.Mu.Unlock()
	}
}

func (c *Client) close() {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	if !c.IsClosed {
		close(c.Send)
		c.IsClosed = true
	}
}

// ReadPump drains the connection. Viewers never send anything meaningful; reads
// only keep the pong deadline moving and detect disconnects.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { return c.Conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("websocket closed unexpectedly", "room", c.Room, "error", err)
			}
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// One frame per message: each frame is a complete JSON document.
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.Hub.logger.Debug("websocket write failed", "room", c.Room, "error", err)
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Hub.logger.Debug("websocket ping failed", "room", c.Room, "error", err)
				return
			}
		}
	}
}
