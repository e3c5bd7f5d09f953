package repository

import (
	"context"
	"errors"
	"strings"

	"skillera/internal/database"
	"skillera/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrSkillNotFound = errors.New("skill not found")

type SkillRepository interface {
	GetAllSkills(ctx context.Context, category string) ([]skill.Skill, error)
	FindByID(ctx context.Context, id uuid.UUID) (skill.Skill, error)
	UpsertSkill(ctx context.Context, name, category string) (skill.Skill, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) GetAllSkills(ctx context.Context, category string) ([]skill.Skill, error) {
	category = strings.TrimSpace(category)
	rows, err := r.db.Query(ctx,
		`SELECT id, name, category, created_at
		 FROM skills
		 WHERE ($1::text = '' OR lower(category) = lower($1))
		 ORDER BY name ASC`,
		category,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Skill, 0)
	for rows.Next() {
		var s skill.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) FindByID(ctx context.Context, id uuid.UUID) (skill.Skill, error) {
	var s skill.Skill
	row := r.db.QueryRow(ctx, `SELECT id, name, category, created_at FROM skills WHERE id = $1`, id)
	if err := row.Scan(&s.ID, &s.Name, &s.Category, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return skill.Skill{}, ErrSkillNotFound
		}
		return skill.Skill{}, err
	}
	return s, nil
}

func (r *PostgresSkillRepository) UpsertSkill(ctx context.Context, name, category string) (skill.Skill, error) {
	return upsertSkill(ctx, r.db, name, category)
}

// upsertSkill returns the skill named name, creating it when missing. An
// existing row is returned as stored; category is only used on insert.
func upsertSkill(ctx context.Context, q database.Querier, name, category string) (skill.Skill, error) {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)
	if category == "" {
		category = skill.DefaultCategory
	}

	var s skill.Skill
	row := q.QueryRow(ctx,
		`INSERT INTO skills (id, name, category)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, name, category, created_at`,
		uuid.New(), name, category,
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Category, &s.CreatedAt); err != nil {
		return skill.Skill{}, err
	}
	return s, nil
}
