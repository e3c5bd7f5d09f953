package repository

import (
	"context"
	"encoding/json"
	"errors"

	"skillera/internal/database"
	"skillera/internal/domain/match"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (match.Match, error)
	// FindByPair looks the pair up in both stored orders.
	FindByPair(ctx context.Context, a, b uuid.UUID) (match.Match, error)
	// CreateIfAbsent inserts m unless a match for the unordered pair already
	// exists, in which case the existing row is returned with created=false.
	CreateIfAbsent(ctx context.Context, m match.Match) (match.Match, bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status match.Status) ([]match.Match, error)
	ListPartnerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type PostgresMatchRepository struct {
	db database.DB
}

func NewPostgresMatchRepository(db database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

const matchColumns = `id, user_a_id, user_b_id, status, overlap_summary, matched_at`

func scanMatch(row database.Row) (match.Match, error) {
	var (
		m   match.Match
		raw []byte
	)
	if err := row.Scan(&m.ID, &m.UserAID, &m.UserBID, &m.Status, &raw, &m.MatchedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return match.Match{}, ErrMatchNotFound
		}
		return match.Match{}, err
	}
	m.Summary = decodeSummary(raw)
	return m, nil
}

func decodeSummary(raw []byte) match.Summary {
	s := match.Summary{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &s)
	}
	if s.ICanTeachThem == nil {
		s.ICanTeachThem = []string{}
	}
	if s.TheyCanTeachMe == nil {
		s.TheyCanTeachMe = []string{}
	}
	return s
}

func (r *PostgresMatchRepository) FindByID(ctx context.Context, id uuid.UUID) (match.Match, error) {
	return scanMatch(r.db.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id))
}

func (r *PostgresMatchRepository) FindByPair(ctx context.Context, a, b uuid.UUID) (match.Match, error) {
	return scanMatch(r.db.QueryRow(ctx,
		`SELECT `+matchColumns+`
		 FROM matches
		 WHERE (user_a_id = $1 AND user_b_id = $2) OR (user_a_id = $2 AND user_b_id = $1)
		 LIMIT 1`,
		a, b,
	))
}

func (r *PostgresMatchRepository) CreateIfAbsent(ctx context.Context, m match.Match) (match.Match, bool, error) {
	summary, err := json.Marshal(m.Summary)
	if err != nil {
		return match.Match{}, false, err
	}
	status := m.Status
	if status == "" {
		status = match.StatusActive
	}

	created, err := scanMatch(r.db.QueryRow(ctx,
		`INSERT INTO matches (id, user_a_id, user_b_id, status, overlap_summary)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT DO NOTHING
		 RETURNING `+matchColumns,
		m.ID, m.UserAID, m.UserBID, string(status), string(summary),
	))
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, ErrMatchNotFound) {
		return match.Match{}, false, err
	}

	// The insert hit matches_pair_uidx: someone else created the pair first.
	existing, err := r.FindByPair(ctx, m.UserAID, m.UserBID)
	if err != nil {
		return match.Match{}, false, err
	}
	return existing, false, nil
}

func (r *PostgresMatchRepository) ListByUser(ctx context.Context, userID uuid.UUID, status match.Status) ([]match.Match, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+matchColumns+`
		 FROM matches
		 WHERE (user_a_id = $1 OR user_b_id = $1)
		   AND ($2::text = '' OR status = $2)
		 ORDER BY matched_at DESC, id ASC`,
		userID, string(status),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]match.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMatchRepository) ListPartnerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT CASE WHEN user_a_id = $1 THEN user_b_id ELSE user_a_id END
		 FROM matches
		 WHERE user_a_id = $1 OR user_b_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
