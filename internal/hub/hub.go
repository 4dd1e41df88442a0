package hub

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Client is one live websocket connection. A user may hold several clients at
// once (multiple tabs/devices).
type Client struct {
	Conn   *websocket.Conn
	UserID uint
}

// Hub is the volatile registry mapping conversation ids to the clients
// currently joined to that room, plus the set of all connected clients for
// global notifications. It holds no durable state and starts empty on every
// process restart.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	rooms   map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		rooms:   make(map[uint]map[*Client]struct{}),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

// Unregister drops the client from the global set and from every room it
// joined. Safe to call for an already removed client.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
	for conversationID, room := range h.rooms {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, conversationID)
		}
	}
}

// Join adds the client to a conversation room. Joining twice is a no-op.
func (h *Hub) Join(client *Client, conversationID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[conversationID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[conversationID] = room
	}
	room[client] = struct{}{}
}

// Leave removes the client from a conversation room. Leaving a room the
// client never joined is a no-op.
func (h *Hub) Leave(client *Client, conversationID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[conversationID]
	if !ok {
		return
	}
	delete(room, client)
	if len(room) == 0 {
		delete(h.rooms, conversationID)
	}
}

// RoomSize reports how many clients are currently joined to a conversation.
func (h *Hub) RoomSize(conversationID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[conversationID])
}

// EmitToRoom writes the payload to every client joined to the conversation,
// skipping connections owned by excludeUserID when it is non-zero.
func (h *Hub) EmitToRoom(conversationID uint, excludeUserID uint, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.rooms[conversationID] {
		if excludeUserID != 0 && client.UserID == excludeUserID {
			continue
		}
		h.write(client, payload)
	}
}

// EmitGlobal writes the payload to every connected client, joined or not.
// Used for the namespaced conversation update events.
func (h *Hub) EmitGlobal(payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		h.write(client, payload)
	}
}

// write must be called with the hub lock held; the lock also serializes
// writes on each connection.
func (h *Hub) write(client *Client, payload any) {
	if err := client.Conn.WriteJSON(payload); err != nil {
		log.Printf("Error writing to client %v: %v", client.UserID, err)
		if err := client.Conn.Close(); err != nil {
			log.Printf("Error closing connection: %v", err)
		}
		delete(h.clients, client)
		for conversationID, room := range h.rooms {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, conversationID)
			}
		}
	}
}
