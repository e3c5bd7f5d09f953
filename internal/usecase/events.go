package usecase

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventNewMessage     = "new_message"
	EventMatchCreated   = "match_created"
	EventSessionUpdated = "session_updated"
)

// EventPublisher pushes real-time events to connected clients. Delivery is
// best effort: a publish never fails the operation that triggered it.
type EventPublisher interface {
	PublishToUser(userID uuid.UUID, event string, payload any)
	PublishToMatch(matchID uuid.UUID, event string, payload any)
}

type noopPublisher struct{}

func (noopPublisher) PublishToUser(uuid.UUID, string, any)  {}
func (noopPublisher) PublishToMatch(uuid.UUID, string, any) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

type MessageEvent struct {
	ID           uuid.UUID  `json:"id"`
	MatchID      uuid.UUID  `json:"matchId"`
	SenderID     uuid.UUID  `json:"senderId"`
	SenderName   string     `json:"senderName"`
	SenderAvatar *string    `json:"senderAvatar"`
	Content      string     `json:"content"`
	SessionID    *uuid.UUID `json:"sessionId"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type MatchCreatedEvent struct {
	MatchID   uuid.UUID `json:"matchId"`
	UserID    uuid.UUID `json:"userId"`
	UserName  string    `json:"userName"`
	MatchedAt time.Time `json:"matchedAt"`
}

type SessionUpdatedEvent struct {
	ID        uuid.UUID  `json:"id"`
	MatchID   uuid.UUID  `json:"matchId"`
	Status    string     `json:"status"`
	DateTime  *time.Time `json:"dateTime"`
	Mode      string     `json:"mode"`
	UpdatedBy uuid.UUID  `json:"updatedBy"`
}
