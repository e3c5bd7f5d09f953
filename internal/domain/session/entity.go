package session

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusProposed  Status = "PROPOSED"
	StatusAccepted  Status = "ACCEPTED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusProposed, StatusAccepted, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

var transitions = map[Status][]Status{
	StatusProposed: {StatusAccepted, StatusCancelled},
	StatusAccepted: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether from -> to follows the session lifecycle.
// Setting the current status again is a no-op and always allowed.
func CanTransition(from, to Status) bool {
	if !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type FocusRole string

const (
	FocusUserATeaches FocusRole = "USER_A_TEACHES"
	FocusUserBTeaches FocusRole = "USER_B_TEACHES"
)

func (r FocusRole) Valid() bool {
	return r == FocusUserATeaches || r == FocusUserBTeaches
}

// Teacher returns which of the two match participants teaches.
func (r FocusRole) Teacher(userAID, userBID uuid.UUID) uuid.UUID {
	switch r {
	case FocusUserATeaches:
		return userAID
	case FocusUserBTeaches:
		return userBID
	default:
		return uuid.Nil
	}
}

type Mode string

const (
	ModeOnline   Mode = "ONLINE"
	ModeInPerson Mode = "IN_PERSON"
)

func (m Mode) Valid() bool {
	return m == ModeOnline || m == ModeInPerson
}

type Session struct {
	ID             uuid.UUID
	MatchID        uuid.UUID
	FocusSkillID   *uuid.UUID
	FocusSkillName string
	FocusRole      FocusRole
	DateTime       *time.Time
	Mode           Mode
	LocationOrLink *string
	Goals          *string
	Status         Status
	CreatedByID    uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
