package repository

import (
	"context"
	"errors"

	"skillera/internal/database"
	"skillera/internal/domain/session"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	Create(ctx context.Context, s session.Session) (session.Session, error)
	FindByID(ctx context.Context, id uuid.UUID) (session.Session, error)
	Update(ctx context.Context, s session.Session) (session.Session, error)
	// ListByUser returns sessions of every match userID belongs to. An empty
	// status means all statuses. COMPLETED lists newest first, everything
	// else soonest first.
	ListByUser(ctx context.Context, userID uuid.UUID, status session.Status) ([]session.Session, error)
	ListByMatch(ctx context.Context, matchID uuid.UUID) ([]session.Session, error)
	LatestByMatchIDs(ctx context.Context, matchIDs []uuid.UUID) (map[uuid.UUID]session.Session, error)
	UpcomingByMatchIDs(ctx context.Context, matchIDs []uuid.UUID) (map[uuid.UUID]session.Session, error)
	CountCompletedByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type PostgresSessionRepository struct {
	db database.DB
}

func NewPostgresSessionRepository(db database.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

const sessionColumns = `se.id, se.match_id, se.focus_skill_id, COALESCE(sk.name, ''), se.focus_role, se.date_time,
	se.mode, se.location_or_link, se.goals, se.status, se.created_by_id, se.created_at, se.updated_at`

const sessionFrom = ` FROM sessions se LEFT JOIN skills sk ON sk.id = se.focus_skill_id `

func scanSession(row database.Row) (session.Session, error) {
	var s session.Session
	err := row.Scan(
		&s.ID, &s.MatchID, &s.FocusSkillID, &s.FocusSkillName, &s.FocusRole, &s.DateTime,
		&s.Mode, &s.LocationOrLink, &s.Goals, &s.Status, &s.CreatedByID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, ErrSessionNotFound
		}
		return session.Session{}, err
	}
	return s, nil
}

func collectSessions(rows database.Rows) ([]session.Session, error) {
	defer rows.Close()

	out := make([]session.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSessionRepository) Create(ctx context.Context, s session.Session) (session.Session, error) {
	status := s.Status
	if status == "" {
		status = session.StatusProposed
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO sessions (id, match_id, focus_skill_id, focus_role, date_time, mode, location_or_link, goals, status, created_by_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.MatchID, s.FocusSkillID, string(s.FocusRole), s.DateTime, string(s.Mode),
		s.LocationOrLink, s.Goals, string(status), s.CreatedByID,
	)
	if err != nil {
		return session.Session{}, err
	}
	return r.FindByID(ctx, s.ID)
}

func (r *PostgresSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (session.Session, error) {
	return scanSession(r.db.QueryRow(ctx, `SELECT `+sessionColumns+sessionFrom+`WHERE se.id = $1`, id))
}

func (r *PostgresSessionRepository) Update(ctx context.Context, s session.Session) (session.Session, error) {
	affected, err := r.db.Exec(ctx,
		`UPDATE sessions
		 SET status = $2, date_time = $3, mode = $4, location_or_link = $5, goals = $6, updated_at = now()
		 WHERE id = $1`,
		s.ID, string(s.Status), s.DateTime, string(s.Mode), s.LocationOrLink, s.Goals,
	)
	if err != nil {
		return session.Session{}, err
	}
	if affected == 0 {
		return session.Session{}, ErrSessionNotFound
	}
	return r.FindByID(ctx, s.ID)
}

func (r *PostgresSessionRepository) ListByUser(ctx context.Context, userID uuid.UUID, status session.Status) ([]session.Session, error) {
	order := `ORDER BY se.date_time ASC NULLS LAST, se.created_at ASC`
	if status == session.StatusCompleted {
		order = `ORDER BY se.date_time DESC NULLS LAST, se.created_at DESC`
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+sessionColumns+sessionFrom+`
		 JOIN matches m ON m.id = se.match_id
		 WHERE (m.user_a_id = $1 OR m.user_b_id = $1)
		   AND ($2::text = '' OR se.status = $2)
		 `+order,
		userID, string(status),
	)
	if err != nil {
		return nil, err
	}
	return collectSessions(rows)
}

func (r *PostgresSessionRepository) ListByMatch(ctx context.Context, matchID uuid.UUID) ([]session.Session, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+sessionColumns+sessionFrom+`
		 WHERE se.match_id = $1
		 ORDER BY se.date_time DESC NULLS LAST, se.created_at DESC`,
		matchID,
	)
	if err != nil {
		return nil, err
	}
	return collectSessions(rows)
}

func (r *PostgresSessionRepository) LatestByMatchIDs(ctx context.Context, matchIDs []uuid.UUID) (map[uuid.UUID]session.Session, error) {
	return r.firstPerMatch(ctx, matchIDs,
		`SELECT DISTINCT ON (se.match_id) `+sessionColumns+sessionFrom+`
		 WHERE se.match_id = ANY($1::uuid[])
		 ORDER BY se.match_id, se.date_time DESC NULLS LAST, se.created_at DESC`)
}

func (r *PostgresSessionRepository) UpcomingByMatchIDs(ctx context.Context, matchIDs []uuid.UUID) (map[uuid.UUID]session.Session, error) {
	return r.firstPerMatch(ctx, matchIDs,
		`SELECT DISTINCT ON (se.match_id) `+sessionColumns+sessionFrom+`
		 WHERE se.match_id = ANY($1::uuid[])
		   AND se.status IN ('PROPOSED', 'ACCEPTED')
		 ORDER BY se.match_id, se.date_time ASC NULLS LAST, se.created_at ASC`)
}

func (r *PostgresSessionRepository) firstPerMatch(ctx context.Context, matchIDs []uuid.UUID, query string) (map[uuid.UUID]session.Session, error) {
	out := make(map[uuid.UUID]session.Session, len(matchIDs))
	if len(matchIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, query, uuidStrings(matchIDs))
	if err != nil {
		return nil, err
	}
	items, err := collectSessions(rows)
	if err != nil {
		return nil, err
	}
	for _, s := range items {
		out[s.MatchID] = s
	}
	return out, nil
}

func (r *PostgresSessionRepository) CountCompletedByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM sessions se
		 JOIN matches m ON m.id = se.match_id
		 WHERE (m.user_a_id = $1 OR m.user_b_id = $1) AND se.status = 'COMPLETED'`,
		userID,
	)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
