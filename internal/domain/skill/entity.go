package skill

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleTeach Role = "TEACH"
	RoleLearn Role = "LEARN"
)

func (r Role) Valid() bool {
	return r == RoleTeach || r == RoleLearn
}

type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
	LevelExpert       Level = "Expert"
)

func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert:
		return true
	default:
		return false
	}
}

const DefaultCategory = "Other"

// Skill is immutable once any profile references it.
type Skill struct {
	ID        uuid.UUID
	Name      string
	Category  string
	CreatedAt time.Time
}

type UserSkill struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Skill  Skill
	Role   Role
	Level  Level
}
