package websockets

import (
	"sync"
)

type Hub struct {
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
	mutex      sync.RWMutex
}

func newHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, BROADCAST_BUFFER),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]*Client),
	}
}

func (h *Hub) run(m *Manager) {
	for {
		select {
		case client := <-h.register:
			m.registerClient(client)

		case client := <-h.unregister:
			m.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message, m)
		}
	}
}

func (m *Manager) registerClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	m.hub.clients[client.ID] = client

	m.log.Function("registerClient").Info(
		"Client registered",
		"clientID", client.ID,
		"userID", client.UserID,
	)
}

// unregisterClient is safe to call twice for the same client.
func (m *Manager) unregisterClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	if _, ok := m.hub.clients[client.ID]; !ok {
		return
	}

	delete(m.hub.clients, client.ID)
	close(client.send)

	m.log.Function("unregisterClient").Info(
		"Client unregistered",
		"clientID", client.ID,
		"userID", client.UserID,
	)
}

func (h *Hub) broadcastMessage(message Message, m *Manager) {
	log := m.log.Function("broadcastMessage")

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	sentCount := 0
	for clientID, client := range h.clients {
		if client.enqueue(message) {
			sentCount++
			continue
		}
		log.Warn("Client send channel full, dropping message", "clientID", clientID)
	}

	log.Debug(
		"Broadcast complete",
		"messageID", message.ID,
		"sentTo", sentCount,
		"totalClients", len(h.clients),
	)
}
