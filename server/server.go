package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/thullagame/thulla/game"
	"github.com/thullagame/thulla/room"
	"github.com/thullagame/thulla/server/connection"
	serverevents "github.com/thullagame/thulla/server/events"
	"github.com/thullagame/thulla/server/handlers"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, implement proper origin checks
	},
}

// Server represents the WebSocket and HTTP server
type Server struct {
	registry   *room.Registry
	connMgr    *connection.Manager
	cmdRouter  *handlers.CommandRouter
	dispatcher *serverevents.Dispatcher
}

// RoomResponse represents a room in API responses
type RoomResponse struct {
	ID              string      `json:"id"`
	Status          string      `json:"status"`
	PlayerCount     int         `json:"playerCount"`
	Roster          []game.Seat `json:"roster,omitempty"`
	CurrentPlayerID string      `json:"currentPlayerId,omitempty"`
	Seq             uint64      `json:"seq"`
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewServer creates a new Thulla game server around a room registry.
func NewServer(registry *room.Registry) *Server {
	connMgr := connection.NewManager()
	dispatcher := serverevents.NewDispatcher(connMgr)
	cmdRouter := handlers.NewCommandRouter(registry, connMgr)

	return &Server{
		registry:   registry,
		connMgr:    connMgr,
		cmdRouter:  cmdRouter,
		dispatcher: dispatcher,
	}
}

// Start begins the server on the specified port
func (s *Server) Start(port string) error {
	go s.connMgr.Start()

	r := mux.NewRouter()
	r.HandleFunc("/ws", s.handleWebSocket)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/rooms", s.handleListRooms).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/rooms", s.handleCreateRoom).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/rooms/{id}/state", s.handleRoomState).Methods(http.MethodGet, http.MethodOptions)
	api.Use(corsMiddleware)

	log.Printf("Starting server on port %s", port)
	return http.ListenAndServe("0.0.0.0:"+port, r)
}

// handleWebSocket handles incoming WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading to WebSocket: %v", err)
		return
	}

	clientID := uuid.NewString()
	log.Printf("New client connected: %s with ID: %s", r.RemoteAddr, clientID)

	client := &connection.Client{
		ID:   clientID,
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	s.connMgr.Register <- client

	go s.readPump(client)
	go s.writePump(client)
}

// readPump reads messages from the WebSocket connection
func (s *Server) readPump(client *connection.Client) {
	defer func() {
		s.connMgr.Unregister <- client
		client.Conn.Close()
	}()

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Error: %v", err)
			}
			break
		}

		if err := s.cmdRouter.HandleCommand(client, message); err != nil {
			log.Printf("Error handling command: %v", err)
		}
	}
}

// writePump sends queued messages and heartbeats to the WebSocket
// connection. Heartbeats are a liveness signal only and carry no state.
func (s *Server) writePump(client *connection.Client) {
	heartbeat := time.NewTicker(10 * time.Second)
	defer func() {
		heartbeat.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Error writing message: %v", err)
				return
			}

		case <-heartbeat.C:
			if err := client.Conn.WriteMessage(websocket.TextMessage, []byte(`{"name":"HEARTBEAT"}`)); err != nil {
				log.Printf("Error sending heartbeat: %v", err)
				return
			}
		}
	}
}

// Dispatcher returns the event dispatcher, so newly created rooms can be
// wired to broadcast.
func (s *Server) Dispatcher() *serverevents.Dispatcher {
	return s.dispatcher
}

// handleListRooms returns a list of all live rooms
func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms := s.registry.List()
	responses := make([]RoomResponse, 0, len(rooms))
	for _, rm := range rooms {
		snap := rm.Snapshot()
		roster := rm.Roster()
		count := len(snap.Players)
		if count == 0 {
			// Nothing dealt yet; the lobby roster is the headcount.
			count = len(roster)
		}
		responses = append(responses, RoomResponse{
			ID:              rm.ID,
			Status:          string(snap.Status),
			PlayerCount:     count,
			Roster:          roster,
			CurrentPlayerID: snap.CurrentPlayerID,
			Seq:             snap.Seq,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// handleCreateRoom creates a new room
func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	rm := s.registry.Create()
	rm.OnEvent(s.dispatcher.HandleRecord)

	response := RoomResponse{
		ID:     rm.ID,
		Status: string(game.StatusWaiting),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// handleRoomState returns the full authoritative state for resync, redacted
// for the requesting player.
func (s *Server) handleRoomState(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rm, ok := s.registry.Get(id)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	playerID := r.URL.Query().Get("playerId")
	snap := rm.Snapshot().RedactFor(playerID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}
