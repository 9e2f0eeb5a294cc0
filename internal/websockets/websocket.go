package websockets

import (
	"time"

	"mygamelist/internal/events"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	MESSAGE_TYPE_PING = "ping"
	MESSAGE_TYPE_PONG = "pong"
	PING_INTERVAL     = 30 * time.Second
	PONG_TIMEOUT      = 60 * time.Second
	WRITE_TIMEOUT     = 10 * time.Second
	MAX_MESSAGE_SIZE  = 64 * 1024
	SEND_CHANNEL_SIZE = 64
	BROADCAST_BUFFER  = 64
)

// Message is what connected clients receive.
type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Connection is the part of a websocket connection the pumps use.
type Connection interface {
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	ReadJSON(v any) error
	WriteJSON(v any) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Client struct {
	ID         string
	UserID     uuid.UUID
	Connection Connection
	Manager    *Manager
	send       chan Message
	done       chan struct{}
}

type Manager struct {
	hub      *Hub
	log      logger.Logger
	eventBus *events.EventBus
}

func New(eventBus *events.EventBus) (*Manager, error) {
	log := logger.New("websockets")

	manager := &Manager{
		hub:      newHub(),
		log:      log,
		eventBus: eventBus,
	}

	log.Function("New").Info("Starting websocket hub")
	go manager.hub.run(manager)

	if err := manager.subscribeToCatalogEvents(); err != nil {
		return nil, log.Err("failed to subscribe to catalog events", err)
	}

	return manager, nil
}

// HandleWebSocket serves one connection that was authenticated before the
// upgrade. It returns when the client goes away.
func (m *Manager) HandleWebSocket(c Connection, userID uuid.UUID) {
	log := m.log.Function("HandleWebSocket")

	client := &Client{
		ID:         uuid.New().String(),
		UserID:     userID,
		Connection: c,
		Manager:    m,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
		done:       make(chan struct{}),
	}

	m.hub.register <- client
	defer func() {
		log.Debug("Client disconnected", "clientID", client.ID)
		m.hub.unregister <- client
		_ = c.Close()
	}()

	go client.readPump()
	client.writePump()
}

func (m *Manager) BroadcastMessage(message Message) {
	log := m.log.Function("BroadcastMessage")

	select {
	case m.hub.broadcast <- message:
	default:
		log.Warn("Broadcast channel is full, dropping message", "messageID", message.ID)
	}
}

func (m *Manager) ClientCount() int {
	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()
	return len(m.hub.clients)
}

func (m *Manager) subscribeToCatalogEvents() error {
	return m.eventBus.Subscribe(events.CATALOG_CHANNEL, func(event events.Event) error {
		m.BroadcastMessage(Message{
			ID:        event.ID,
			Type:      string(event.Type),
			Data:      event.Data,
			Timestamp: event.Timestamp,
		})
		return nil
	})
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")
	defer close(c.done)

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
		log.Er("failed to set read deadline", err, "clientID", c.ID)
	}
	c.Connection.SetPongHandler(func(string) error {
		return c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	})

	// The feed is one way. Inbound frames only matter as application pings.
	for {
		var message Message
		if err := c.Connection.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				log.Er("Unexpected close error", err, "clientID", c.ID)
			}
			return
		}

		if message.Type == MESSAGE_TYPE_PING {
			c.Manager.sendTo(c, Message{
				ID:        uuid.New().String(),
				Type:      MESSAGE_TYPE_PONG,
				Timestamp: time.Now().UTC(),
			})
		}
	}
}

// sendTo queues a message for one client unless it has already been
// unregistered and its send channel closed.
func (m *Manager) sendTo(client *Client, message Message) bool {
	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	if _, ok := m.hub.clients[client.ID]; !ok {
		return false
	}
	return client.enqueue(message)
}

func (c *Client) enqueue(message Message) bool {
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return

		case message, ok := <-c.send:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline", err, "clientID", c.ID)
			}
			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("WebSocket write error", err, "clientID", c.ID)
				return
			}

		case <-ticker.C:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline for ping", err, "clientID", c.ID)
			}
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
