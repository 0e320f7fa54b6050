package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
	sendBufferSize = 16
)

// Asker runs the question flow for a chat client.
type Asker interface {
	Ask(ctx context.Context, gameID uint, question string) (*AskResult, error)
}

// Hub tracks chat websocket clients per game.
type Hub struct {
	clients  map[*Client]bool
	mutex    sync.Mutex
	detailed bool
}

type Client struct {
	hub    *Hub
	id     string
	socket *websocket.Conn
	send   chan []byte
	gameID uint
	asker  Asker
}

// Message is the envelope for every websocket frame in both directions.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type incomingMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NewHub builds an empty hub. With detailed set, error frames carry the
// underlying cause.
func NewHub(detailed bool) *Hub {
	return &Hub{
		clients:  make(map[*Client]bool),
		detailed: detailed,
	}
}

func (h *Hub) RegisterClient(conn *websocket.Conn, gameID uint, asker Asker) *Client {
	client := &Client{
		hub:    h,
		id:     uuid.NewString(),
		socket: conn,
		send:   make(chan []byte, sendBufferSize),
		gameID: gameID,
		asker:  asker,
	}

	h.mutex.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mutex.Unlock()
	log.Printf("Chat client registered: %s for game %d - Total clients: %d", client.id, gameID, total)

	go client.writePump()
	go client.readPump()

	return client
}

func (h *Hub) UnregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.removeLocked(client)
}

// removeLocked drops client and closes its queue. Caller holds h.mutex.
func (h *Hub) removeLocked(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	log.Printf("Chat client unregistered: %s for game %d - Total clients: %d", client.id, client.gameID, len(h.clients))
}

// BroadcastToGame sends a message to every client watching gameID.
func (h *Hub) BroadcastToGame(gameID uint, messageType string, payload any) {
	data, err := json.Marshal(Message{Type: messageType, Payload: payload})
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for client := range h.clients {
		if client.gameID == gameID {
			h.deliverLocked(client, data)
		}
	}
}

// ConnectedClients reports how many clients watch gameID.
func (h *Hub) ConnectedClients(gameID uint) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	count := 0
	for client := range h.clients {
		if client.gameID == gameID {
			count++
		}
	}
	return count
}

func (h *Hub) deliver(client *Client, data []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.deliverLocked(client, data)
}

// deliverLocked queues data for client, dropping clients that cannot keep
// up. Caller holds h.mutex.
func (h *Hub) deliverLocked(client *Client, data []byte) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	select {
	case client.send <- data:
	default:
		log.Printf("Chat client %s send buffer full, closing connection", client.id)
		h.removeLocked(client)
	}
}

func (c *Client) sendMessage(messageType string, payload any) {
	data, err := json.Marshal(Message{Type: messageType, Payload: payload})
	if err != nil {
		log.Printf("Error marshaling %s message: %v", messageType, err)
		return
	}
	c.hub.deliver(c, data)
}

func (c *Client) readPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		c.socket.Close()
	}()

	c.socket.SetReadLimit(maxMessageSize)
	_ = c.socket.SetReadDeadline(time.Now().Add(pongWait))
	c.socket.SetPongHandler(func(string) error {
		return c.socket.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var msg incomingMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendMessage("error", errorPayload{Error: "invalid_request", Message: "Message must be JSON"})
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.socket.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.socket.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.socket.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg incomingMessage) {
	switch msg.Type {
	case "ping":
		c.sendMessage("pong", nil)

	case "ask":
		var req AskRequest
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &req); err != nil {
				c.sendMessage("error", errorPayload{Error: "invalid_request", Message: "Invalid ask payload"})
				return
			}
		}
		result, err := c.asker.Ask(context.Background(), c.gameID, req.Question)
		if err != nil {
			_, code, message := DescribeError(err, c.hub.detailed)
			c.sendMessage("error", errorPayload{Error: code, Message: message})
			return
		}
		c.sendMessage("answer", result)

	default:
		log.Printf("Unknown message type: %s from client %s in game %d", msg.Type, c.id, c.gameID)
		c.sendMessage("error", errorPayload{Error: "invalid_request", Message: "Unknown message type"})
	}
}
