package repository

import (
	"context"

	"skillera/internal/database"
	"skillera/internal/domain/message"

	"github.com/google/uuid"
)

type MessageRepository interface {
	Create(ctx context.Context, m message.Message) (message.Message, error)
	// ListByMatch returns the thread oldest first.
	ListByMatch(ctx context.Context, matchID uuid.UUID) ([]message.Message, error)
	LastByMatchIDs(ctx context.Context, matchIDs []uuid.UUID) (map[uuid.UUID]message.Message, error)
}

type PostgresMessageRepository struct {
	db database.DB
}

func NewPostgresMessageRepository(db database.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

const messageColumns = `ms.id, ms.match_id, ms.sender_id, u.name, u.avatar_url, ms.content, ms.session_id, ms.created_at`

func scanMessage(row database.Row) (message.Message, error) {
	var m message.Message
	err := row.Scan(&m.ID, &m.MatchID, &m.SenderID, &m.SenderName, &m.SenderAvatar, &m.Content, &m.SessionID, &m.CreatedAt)
	return m, err
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m message.Message) (message.Message, error) {
	row := r.db.QueryRow(ctx,
		`WITH ins AS (
		   INSERT INTO messages (id, match_id, sender_id, content, session_id)
		   VALUES ($1, $2, $3, $4, $5)
		   RETURNING id, match_id, sender_id, content, session_id, created_at
		 )
		 SELECT `+messageColumns+`
		 FROM ins ms
		 JOIN users u ON u.id = ms.sender_id`,
		m.ID, m.MatchID, m.SenderID, m.Content, m.SessionID,
	)
	return scanMessage(row)
}

func (r *PostgresMessageRepository) ListByMatch(ctx context.Context, matchID uuid.UUID) ([]message.Message, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+messageColumns+`
		 FROM messages ms
		 JOIN users u ON u.id = ms.sender_id
		 WHERE ms.match_id = $1
		 ORDER BY ms.created_at ASC, ms.id ASC`,
		matchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]message.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
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

func (r *PostgresMessageRepository) LastByMatchIDs(ctx context.Context, matchIDs []uuid.UUID) (map[uuid.UUID]message.Message, error) {
	out := make(map[uuid.UUID]message.Message, len(matchIDs))
	if len(matchIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT ON (ms.match_id) `+messageColumns+`
		 FROM messages ms
		 JOIN users u ON u.id = ms.sender_id
		 WHERE ms.match_id = ANY($1::uuid[])
		 ORDER BY ms.match_id, ms.created_at DESC, ms.id DESC`,
		uuidStrings(matchIDs),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out[m.MatchID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
