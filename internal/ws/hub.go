package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Frame is the envelope of every server-to-client message.
type Frame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func UserRoom(userID uuid.UUID) string   { return "user:" + userID.String() }
func MatchRoom(matchID uuid.UUID) string { return "match:" + matchID.String() }

type roomRequest struct {
	client *Client
	room   string
}

type roomMessage struct {
	room    string
	payload []byte
}

type directMessage struct {
	client  *Client
	payload []byte
}

// Hub owns every connection and room membership. All mutations go through
// Run; the mutex only guards the counters read from other goroutines.
type Hub struct {
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	join       chan roomRequest
	leave      chan roomRequest
	broadcast  chan roomMessage
	replies    chan directMessage
	done       chan struct{}

	mutex  sync.RWMutex
	logger *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		join:       make(chan roomRequest, 128),
		leave:      make(chan roomRequest, 128),
		broadcast:  make(chan roomMessage, 1024),
		replies:    make(chan directMessage, 128),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes hub events until ctx is cancelled, then closes every client.
// Senders stop blocking once Run has returned.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for c := range h.clients {
				h.dropLocked(c)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = struct{}{}
			h.joinLocked(client, UserRoom(client.userID))
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Printf("WS connected | user_id=%s total_clients=%d", client.userID, total)

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			known := h.dropLocked(client)
			total := len(h.clients)
			h.mutex.Unlock()
			if known {
				h.logger.Printf("WS disconnected | user_id=%s total_clients=%d", client.userID, total)
			}

		case req := <-h.join:
			h.mutex.Lock()
			if _, ok := h.clients[req.client]; ok {
				h.joinLocked(req.client, req.room)
			}
			h.mutex.Unlock()

		case req := <-h.leave:
			h.mutex.Lock()
			h.leaveLocked(req.client, req.room)
			h.mutex.Unlock()

		case msg := <-h.replies:
			h.mutex.Lock()
			if _, ok := h.clients[msg.client]; ok {
				select {
				case msg.client.send <- msg.payload:
				default:
				}
			}
			h.mutex.Unlock()

		case msg := <-h.broadcast:
			h.mutex.Lock()
			members := h.rooms[msg.room]
			delivered := 0
			for client := range members {
				select {
				case client.send <- msg.payload:
					delivered++
				default:
					// Slow consumer: drop it rather than stall the room.
					h.dropLocked(client)
					h.logger.Printf("WS client dropped | user_id=%s reason=send_buffer_full", client.userID)
				}
			}
			h.mutex.Unlock()
			if delivered > 0 {
				h.logger.Printf("WS broadcast | room=%s clients=%d", msg.room, delivered)
			}
		}
	}
}

func (h *Hub) joinLocked(c *Client, room string) {
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.rooms[room] = struct{}{}
}

func (h *Hub) leaveLocked(c *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(c.rooms, room)
}

// dropLocked removes c from the hub and closes its send channel exactly once.
func (h *Hub) dropLocked(c *Client) bool {
	if _, ok := h.clients[c]; !ok {
		return false
	}
	for room := range c.rooms {
		h.leaveLocked(c, room)
	}
	delete(h.clients, c)
	close(c.send)
	return true
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// direct sends are owned by the hub so they never race with close(send).
func (h *Hub) direct(client *Client, payload []byte) {
	select {
	case h.replies <- directMessage{client: client, payload: payload}:
	default:
	}
}

func (h *Hub) Join(client *Client, room string) {
	if h == nil {
		return
	}
	select {
	case h.join <- roomRequest{client: client, room: room}:
	case <-h.done:
	}
}

func (h *Hub) Leave(client *Client, room string) {
	if h == nil {
		return
	}
	select {
	case h.leave <- roomRequest{client: client, room: room}:
	case <-h.done:
	}
}

// Emit sends one frame to every member of room. It never blocks: when the
// hub is saturated the frame is dropped and logged.
func (h *Hub) Emit(room, event string, payload any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(Frame{Type: event, Data: payload})
	if err != nil {
		h.logger.Printf("WS encode error | room=%s event=%s error=%v", room, event, err)
		return
	}
	select {
	case h.broadcast <- roomMessage{room: room, payload: b}:
	default:
		h.logger.Printf("WS broadcast dropped | room=%s event=%s reason=buffer_full", room, event)
	}
}

func (h *Hub) PublishToUser(userID uuid.UUID, event string, payload any) {
	h.Emit(UserRoom(userID), event, payload)
}

func (h *Hub) PublishToMatch(matchID uuid.UUID, event string, payload any) {
	h.Emit(MatchRoom(matchID), event, payload)
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) RoomSize(room string) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[room])
}
