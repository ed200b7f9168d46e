package connection

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Client represents a connected presentation client
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

// NewClient creates a client with a buffered outbound queue
func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		Conn: conn,
		Send: make(chan []byte, 256),
	}
}

// Manager handles all client connections
type Manager struct {
	clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mutex      sync.RWMutex
}

// NewManager creates a new connection manager
func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Start begins processing connection events until Stop is called
func (m *Manager) Start() {
	for {
		select {
		case client := <-m.Register:
			m.mutex.Lock()
			m.clients[client.ID] = client
			m.mutex.Unlock()
		case client := <-m.Unregister:
			m.mutex.Lock()
			if _, ok := m.clients[client.ID]; ok {
				delete(m.clients, client.ID)
				close(client.Send)
			}
			m.mutex.Unlock()
		case <-m.done:
			m.mutex.Lock()
			for id, client := range m.clients {
				delete(m.clients, id)
				close(client.Send)
			}
			m.mutex.Unlock()
			return
		}
	}
}

// Stop ends the Start loop and closes every client queue
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
}

// Join registers client unless the manager has stopped. When it returns
// false the client was not registered and its queue has been closed.
func (m *Manager) Join(client *Client) bool {
	select {
	case m.Register <- client:
		return true
	case <-m.done:
		close(client.Send)
		return false
	}
}

// Leave unregisters client unless the manager has stopped
func (m *Manager) Leave(client *Client) {
	select {
	case m.Unregister <- client:
	case <-m.done:
	}
}

// SendToClient queues a message for one client
func (m *Manager) SendToClient(clientID string, message []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	client, ok := m.clients[clientID]
	if !ok {
		return false
	}
	return m.enqueue(client, message)
}

// Broadcast queues a message for every connected client
func (m *Manager) Broadcast(message []byte) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	sent := 0
	for _, client := range m.clients {
		if m.enqueue(client, message) {
			sent++
		}
	}
	return sent
}

// Count returns the number of connected clients
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return len(m.clients)
}

// enqueue never blocks; a client whose queue is full misses the message.
func (m *Manager) enqueue(client *Client, message []byte) bool {
	select {
	case client.Send <- message:
		return true
	default:
		log.Printf("Dropping message for slow client %s", client.ID)
		return false
	}
}
