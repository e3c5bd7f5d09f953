package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

const (
	frameJoinRoom  = "join_room"
	frameLeaveRoom = "leave_room"
	frameJoined    = "joined_room"
	frameLeft      = "left_room"
	frameError     = "error"
)

// RoomAuthorizer decides whether a user may listen to a match room.
type RoomAuthorizer interface {
	CanJoinMatch(ctx context.Context, userID, matchID uuid.UUID) (bool, error)
}

type clientFrame struct {
	Type    string `json:"type"`
	MatchID string `json:"matchId"`
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID uuid.UUID
	authz  RoomAuthorizer

	// rooms is owned by the hub goroutine.
	rooms map[string]struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, authz RoomAuthorizer) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		userID: userID,
		authz:  authz,
		rooms:  make(map[string]struct{}),
	}
}

// ReadPump handles join/leave requests until the connection fails, then
// unregisters the client.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Printf("WS read error | user_id=%s error=%v", c.userID, err)
			}
			return
		}

		var f clientFrame
		if err := json.Unmarshal(raw, &f); err != nil {
			c.reply(frameError, map[string]string{"message": "invalid frame"})
			continue
		}
		c.handle(f)
	}
}

func (c *Client) handle(f clientFrame) {
	switch f.Type {
	case frameJoinRoom, frameLeaveRoom:
	default:
		c.reply(frameError, map[string]string{"message": "unknown frame type"})
		return
	}

	matchID, err := uuid.Parse(f.MatchID)
	if err != nil {
		c.reply(frameError, map[string]string{"message": "invalid matchId"})
		return
	}

	if f.Type == frameLeaveRoom {
		c.hub.Leave(c, MatchRoom(matchID))
		c.reply(frameLeft, map[string]string{"matchId": matchID.String()})
		return
	}

	if c.authz != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		ok, err := c.authz.CanJoinMatch(ctx, c.userID, matchID)
		cancel()
		if err != nil || !ok {
			c.reply(frameError, map[string]string{"message": "not a participant of this match", "matchId": matchID.String()})
			return
		}
	}
	c.hub.Join(c, MatchRoom(matchID))
	c.reply(frameJoined, map[string]string{"matchId": matchID.String()})
}

// reply queues a frame for this client only.
func (c *Client) reply(event string, data any) {
	b, err := json.Marshal(Frame{Type: event, Data: data})
	if err != nil {
		return
	}
	c.hub.direct(c, b)
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
