package repository

import (
	"context"
	"errors"

	"skillera/internal/database"
	"skillera/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReplaceItem names a skill either by id or by name. Items with a name and
// no id are upserted into the registry.
type ReplaceItem struct {
	SkillID   uuid.UUID
	SkillName string
	Category  string
	Role      skill.Role
	Level     skill.Level
}

type UserSkillRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]skill.UserSkill, error)
	FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]skill.UserSkill, error)
	ReplaceForUser(ctx context.Context, userID uuid.UUID, items []ReplaceItem) ([]skill.UserSkill, error)
}

type PostgresUserSkillRepository struct {
	db database.DB
}

func NewPostgresUserSkillRepository(db database.DB) *PostgresUserSkillRepository {
	return &PostgresUserSkillRepository{db: db}
}

const userSkillColumns = `us.id, us.user_id, us.role, us.level, s.id, s.name, s.category, s.created_at`

func scanUserSkill(row database.Row) (skill.UserSkill, error) {
	var us skill.UserSkill
	err := row.Scan(
		&us.ID, &us.UserID, &us.Role, &us.Level,
		&us.Skill.ID, &us.Skill.Name, &us.Skill.Category, &us.Skill.CreatedAt,
	)
	return us, err
}

func (r *PostgresUserSkillRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]skill.UserSkill, error) {
	return findUserSkills(ctx, r.db, userID)
}

func findUserSkills(ctx context.Context, q database.Querier, userID uuid.UUID) ([]skill.UserSkill, error) {
	rows, err := q.Query(ctx,
		`SELECT `+userSkillColumns+`
		 FROM user_skills us
		 JOIN skills s ON s.id = us.skill_id
		 WHERE us.user_id = $1
		 ORDER BY us.created_at ASC, us.id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.UserSkill, 0)
	for rows.Next() {
		us, err := scanUserSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, us)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserSkillRepository) FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]skill.UserSkill, error) {
	out := make(map[uuid.UUID][]skill.UserSkill, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+userSkillColumns+`
		 FROM user_skills us
		 JOIN skills s ON s.id = us.skill_id
		 WHERE us.user_id = ANY($1::uuid[])
		 ORDER BY us.user_id, us.created_at ASC, us.id ASC`,
		uuidStrings(userIDs),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		us, err := scanUserSkill(rows)
		if err != nil {
			return nil, err
		}
		out[us.UserID] = append(out[us.UserID], us)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceForUser swaps the user's whole skill set in one transaction, so a
// concurrent reader sees either the old set or the new one.
func (r *PostgresUserSkillRepository) ReplaceForUser(ctx context.Context, userID uuid.UUID, items []ReplaceItem) ([]skill.UserSkill, error) {
	var out []skill.UserSkill
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		resolved := make([]ReplaceItem, 0, len(items))
		for _, it := range items {
			if it.SkillID == uuid.Nil {
				s, err := upsertSkill(ctx, tx, it.SkillName, it.Category)
				if err != nil {
					return err
				}
				it.SkillID = s.ID
			} else {
				var exists bool
				if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM skills WHERE id = $1)`, it.SkillID).Scan(&exists); err != nil {
					return err
				}
				if !exists {
					return ErrSkillNotFound
				}
			}
			resolved = append(resolved, it)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM user_skills WHERE user_id = $1`, userID); err != nil {
			return err
		}

		for _, it := range resolved {
			_, err := tx.Exec(ctx,
				`INSERT INTO user_skills (id, user_id, skill_id, role, level)
				 VALUES ($1, $2, $3, $4, $5)
				 ON CONFLICT (user_id, skill_id, role) DO UPDATE SET level = EXCLUDED.level`,
				uuid.New(), userID, it.SkillID, string(it.Role), string(it.Level),
			)
			if err != nil {
				return err
			}
		}

		var err error
		out, err = findUserSkills(ctx, tx, userID)
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSkillNotFound
		}
		return nil, err
	}
	return out, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
