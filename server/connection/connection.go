package connection

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client represents a connected participant
type Client struct {
	ID       string
	Conn     *websocket.Conn
	Send     chan []byte
	PlayerID string   // set once the client identifies itself
	RoomIDs  []string // rooms the client participates in
}

// Manager handles all client connections
type Manager struct {
	clients    map[string]*Client // connection ID -> client
	playerMap  map[string]string  // player ID -> connection ID
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

// NewManager creates a new connection manager
func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		playerMap:  make(map[string]string),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start begins processing connection events
func (m *Manager) Start() {
	for {
		select {
		case client := <-m.Register:
			m.mutex.Lock()
			m.clients[client.ID] = client
			if client.PlayerID != "" {
				m.playerMap[client.PlayerID] = client.ID
			}
			m.mutex.Unlock()
		case client := <-m.Unregister:
			m.mutex.Lock()
			if _, ok := m.clients[client.ID]; ok {
				if client.PlayerID != "" {
					delete(m.playerMap, client.PlayerID)
				}
				delete(m.clients, client.ID)
				close(client.Send)
			}
			m.mutex.Unlock()
		}
	}
}

// BindPlayer associates a player ID with a connection
func (m *Manager) BindPlayer(clientID, playerID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	client, ok := m.clients[clientID]
	if !ok {
		return false
	}
	client.PlayerID = playerID
	m.playerMap[playerID] = clientID
	return true
}

// SendToPlayer queues a message for a specific player. Returns false when
// the player has no live connection or its buffer is full.
func (m *Manager) SendToPlayer(playerID string, message []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	connID, exists := m.playerMap[playerID]
	if !exists {
		return false
	}
	client, ok := m.clients[connID]
	if !ok {
		return false
	}
	select {
	case client.Send <- message:
		return true
	default:
		return false
	}
}

// SendToRoom queues a message for every client in a room. Slow consumers
// whose buffers are full are skipped; they catch up via resync.
func (m *Manager) SendToRoom(roomID string, message []byte) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, client := range m.clients {
		for _, id := range client.RoomIDs {
			if id == roomID {
				select {
				case client.Send <- message:
				default:
				}
				break
			}
		}
	}
}

// SendToClient queues a message for one connection
func (m *Manager) SendToClient(clientID string, message []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	client, ok := m.clients[clientID]
	if !ok {
		return false
	}
	select {
	case client.Send <- message:
		return true
	default:
		return false
	}
}

// AddRoomToClient adds a room ID to a client's rooms
func (m *Manager) AddRoomToClient(clientID string, roomID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	client, ok := m.clients[clientID]
	if !ok {
		return false
	}
	for _, id := range client.RoomIDs {
		if id == roomID {
			return true
		}
	}
	client.RoomIDs = append(client.RoomIDs, roomID)
	return true
}

// RemoveRoomFromClient removes a room ID from a client's rooms
func (m *Manager) RemoveRoomFromClient(clientID string, roomID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	client, ok := m.clients[clientID]
	if !ok {
		return false
	}
	for i, id := range client.RoomIDs {
		if id == roomID {
			client.RoomIDs = append(client.RoomIDs[:i], client.RoomIDs[i+1:]...)
			return true
		}
	}
	return false
}

// IsClientInRoom checks if a client is in a specific room
func (m *Manager) IsClientInRoom(clientID string, roomID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	client, ok := m.clients[clientID]
	if !ok {
		return false
	}
	for _, id := range client.RoomIDs {
		if id == roomID {
			return true
		}
	}
	return false
}
