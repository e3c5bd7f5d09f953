package message

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID           uuid.UUID
	MatchID      uuid.UUID
	SenderID     uuid.UUID
	SenderName   string
	SenderAvatar *string
	Content      string
	SessionID    *uuid.UUID
	CreatedAt    time.Time
}
