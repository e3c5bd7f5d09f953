package match

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusArchived Status = "ARCHIVED"
)

// Summary is the name-only overlap snapshot persisted when a match is
// created. It is never refreshed afterwards.
type Summary struct {
	ICanTeachThem  []string `json:"iCanTeachThem"`
	TheyCanTeachMe []string `json:"theyCanTeachMe"`
}

// Match stores the pair ordered (UserAID is the user who swiped) but
// membership is unordered.
type Match struct {
	ID        uuid.UUID
	UserAID   uuid.UUID
	UserBID   uuid.UUID
	Status    Status
	Summary   Summary
	MatchedAt time.Time
}

func (m Match) HasParticipant(userID uuid.UUID) bool {
	return userID != uuid.Nil && (m.UserAID == userID || m.UserBID == userID)
}

// Other returns the participant that is not userID.
func (m Match) Other(userID uuid.UUID) uuid.UUID {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}

// PairKey is the same for (a, b) and (b, a).
func PairKey(a, b uuid.UUID) string {
	x, y := a.String(), b.String()
	if y < x {
		x, y = y, x
	}
	return x + ":" + y
}
