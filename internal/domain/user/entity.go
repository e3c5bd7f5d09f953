package user

import (
	"encoding/json"
	"time"

	"skillera/internal/domain/skill"

	"github.com/google/uuid"
)

type PreferredMode string

const (
	ModeOnline   PreferredMode = "ONLINE"
	ModeInPerson PreferredMode = "IN_PERSON"
	ModeEither   PreferredMode = "EITHER"
)

func (m PreferredMode) Valid() bool {
	switch m {
	case ModeOnline, ModeInPerson, ModeEither:
		return true
	default:
		return false
	}
}

// AcceptsOnline reports whether the user is open to online sessions.
func (m PreferredMode) AcceptsOnline() bool {
	return m == ModeOnline || m == ModeEither
}

type User struct {
	ID            uuid.UUID
	Email         string
	PasswordHash  string
	Name          string
	Age           *int
	Bio           *string
	AvatarURL     *string
	Location      *string
	TimeZone      *string
	PreferredMode PreferredMode
	Availability  json.RawMessage
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Summary is the public slice of a user embedded in matches, sessions and
// messages.
type Summary struct {
	ID        uuid.UUID
	Name      string
	AvatarURL *string
	Location  *string
	Bio       *string
}

func (u User) Summary() Summary {
	return Summary{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL, Location: u.Location, Bio: u.Bio}
}

type Profile struct {
	User   User
	Skills []skill.UserSkill
}

type Stats struct {
	CompletedSessions  int
	AvgRatingAsTeacher float64
	AvgRatingAsLearner float64
}
