package usecase

import (
	"context"
	"errors"
	"strings"

	"skillera/internal/domain/skill"
	"skillera/internal/repository"

	"github.com/google/uuid"
)

// SkillEntryInput names a skill by id or, when SkillID is nil, by name.
type SkillEntryInput struct {
	SkillID   uuid.UUID
	SkillName string
	Category  string
	Role      skill.Role
	Level     skill.Level
}

type UserSkillUsecase interface {
	ListUserSkills(ctx context.Context, userID uuid.UUID) ([]skill.UserSkill, error)
	// ReplaceSkills swaps the target's whole profile. Only the owner may do
	// this.
	ReplaceSkills(ctx context.Context, actorID, targetID uuid.UUID, entries []SkillEntryInput) ([]skill.UserSkill, error)
}

type UserSkill struct {
	repo  repository.UserSkillRepository
	cache DeckCache
}

func NewUserSkillUsecase(repo repository.UserSkillRepository, cache DeckCache) *UserSkill {
	return &UserSkill{repo: repo, cache: cache}
}

func (u *UserSkill) ListUserSkills(ctx context.Context, userID uuid.UUID) ([]skill.UserSkill, error) {
	items, err := u.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *UserSkill) ReplaceSkills(ctx context.Context, actorID, targetID uuid.UUID, entries []SkillEntryInput) ([]skill.UserSkill, error) {
	if actorID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if actorID != targetID {
		return nil, ErrForbidden
	}

	items, err := collapseEntries(entries)
	if err != nil {
		return nil, err
	}

	saved, err := u.repo.ReplaceForUser(ctx, targetID, items)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSkillNotFound), isForeignKeyViolation(err):
			return nil, ErrSkillNotFound
		default:
			return nil, ErrInternal
		}
	}

	// Only the owner's decks are dropped; other viewers' decks age out with
	// the TTL.
	invalidateDecks(ctx, u.cache, targetID)
	return saved, nil
}

// collapseEntries validates entries and keeps one per (skill, role). A later
// duplicate replaces the level of the earlier one but not its position.
func collapseEntries(entries []SkillEntryInput) ([]repository.ReplaceItem, error) {
	type key struct {
		id   uuid.UUID
		name string
		role skill.Role
	}

	out := make([]repository.ReplaceItem, 0, len(entries))
	index := make(map[key]int, len(entries))
	for _, e := range entries {
		role := skill.Role(strings.ToUpper(strings.TrimSpace(string(e.Role))))
		if !role.Valid() || !e.Level.Valid() {
			return nil, ErrInvalidInput
		}
		name := strings.TrimSpace(e.SkillName)
		if e.SkillID == uuid.Nil && name == "" {
			return nil, ErrInvalidInput
		}

		k := key{id: e.SkillID, role: role}
		if e.SkillID == uuid.Nil {
			k.name = name
		}
		item := repository.ReplaceItem{
			SkillID:   e.SkillID,
			SkillName: name,
			Category:  strings.TrimSpace(e.Category),
			Role:      role,
			Level:     e.Level,
		}
		if i, ok := index[k]; ok {
			out[i] = item
			continue
		}
		index[k] = len(out)
		out = append(out, item)
	}
	return out, nil
}
