package usecase

import (
	"context"
	"strings"

	"skillera/internal/domain/skill"
	"skillera/internal/repository"
)

type SkillUsecase interface {
	ListSkills(ctx context.Context, category string) ([]skill.Skill, error)
	// AddSkill returns the existing skill when the name is already taken.
	AddSkill(ctx context.Context, name, category string) (skill.Skill, error)
}

type Skill struct {
	repo repository.SkillRepository
}

func NewSkillUsecase(repo repository.SkillRepository) *Skill {
	return &Skill{repo: repo}
}

func (u *Skill) ListSkills(ctx context.Context, category string) ([]skill.Skill, error) {
	items, err := u.repo.GetAllSkills(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Skill) AddSkill(ctx context.Context, name, category string) (skill.Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return skill.Skill{}, ErrInvalidInput
	}

	s, err := u.repo.UpsertSkill(ctx, name, category)
	if err != nil {
		return skill.Skill{}, ErrInternal
	}
	return s, nil
}
