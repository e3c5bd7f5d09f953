package repository

import (
	"context"

	"skillera/internal/database"
	"skillera/internal/domain/user"

	"github.com/google/uuid"
)

// DeckCandidate is the part of a user the swipe deck needs.
type DeckCandidate struct {
	Summary       user.Summary
	PreferredMode user.PreferredMode
	TimeZone      *string
}

type UserQueryRepository interface {
	// FindDeckCandidates returns users, other than viewerID and not yet
	// matched with them, holding at least one LEARN skill in teachIDs or
	// TEACH skill in learnIDs. Ordered by signup time.
	FindDeckCandidates(ctx context.Context, viewerID uuid.UUID, teachIDs, learnIDs []uuid.UUID) ([]DeckCandidate, error)
	GetSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]user.Summary, error)
}

type PostgresUserQueryRepository struct {
	db database.DB
}

func NewPostgresUserQueryRepository(db database.DB) *PostgresUserQueryRepository {
	return &PostgresUserQueryRepository{db: db}
}

func (r *PostgresUserQueryRepository) FindDeckCandidates(ctx context.Context, viewerID uuid.UUID, teachIDs, learnIDs []uuid.UUID) ([]DeckCandidate, error) {
	if len(teachIDs) == 0 && len(learnIDs) == 0 {
		return []DeckCandidate{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.name, u.avatar_url, u.location, u.bio, u.preferred_mode, u.time_zone
		 FROM users u
		 WHERE u.id <> $1
		   AND EXISTS (
		     SELECT 1 FROM user_skills us
		     WHERE us.user_id = u.id
		       AND ((us.role = 'LEARN' AND us.skill_id = ANY($2::uuid[]))
		         OR (us.role = 'TEACH' AND us.skill_id = ANY($3::uuid[])))
		   )
		   AND NOT EXISTS (
		     SELECT 1 FROM matches m
		     WHERE (m.user_a_id = $1 AND m.user_b_id = u.id)
		        OR (m.user_b_id = $1 AND m.user_a_id = u.id)
		   )
		 ORDER BY u.created_at ASC, u.id ASC`,
		viewerID, uuidStrings(teachIDs), uuidStrings(learnIDs),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]DeckCandidate, 0)
	for rows.Next() {
		var c DeckCandidate
		if err := rows.Scan(
			&c.Summary.ID, &c.Summary.Name, &c.Summary.AvatarURL, &c.Summary.Location, &c.Summary.Bio,
			&c.PreferredMode, &c.TimeZone,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserQueryRepository) GetSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]user.Summary, error) {
	out := make(map[uuid.UUID]user.Summary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, name, avatar_url, location, bio FROM users WHERE id = ANY($1::uuid[])`,
		uuidStrings(ids),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var s user.Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.AvatarURL, &s.Location, &s.Bio); err != nil {
			return nil, err
		}
		out[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
