package repository

import (
	"context"

	"skillera/internal/database"
	"skillera/internal/domain/feedback"

	"github.com/google/uuid"
)

type FeedbackRepository interface {
	// Upsert keeps one row per (session, author, recipient); a second
	// submission overwrites the first.
	Upsert(ctx context.Context, f feedback.Feedback) (feedback.Feedback, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]feedback.Feedback, error)
	ListReceived(ctx context.Context, userID uuid.UUID) ([]feedback.Received, error)
}

type PostgresFeedbackRepository struct {
	db database.DB
}

func NewPostgresFeedbackRepository(db database.DB) *PostgresFeedbackRepository {
	return &PostgresFeedbackRepository{db: db}
}

const feedbackColumns = `id, session_id, from_user_id, to_user_id, rating, comment, confidence_improved, would_recommend, created_at, updated_at`

func scanFeedback(row database.Row) (feedback.Feedback, error) {
	var f feedback.Feedback
	err := row.Scan(
		&f.ID, &f.SessionID, &f.FromUserID, &f.ToUserID, &f.Rating, &f.Comment,
		&f.ConfidenceImproved, &f.WouldRecommend, &f.CreatedAt, &f.UpdatedAt,
	)
	return f, err
}

func (r *PostgresFeedbackRepository) Upsert(ctx context.Context, f feedback.Feedback) (feedback.Feedback, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO feedback (id, session_id, from_user_id, to_user_id, rating, comment, confidence_improved, would_recommend)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (session_id, from_user_id, to_user_id) DO UPDATE
		 SET rating = EXCLUDED.rating,
		     comment = EXCLUDED.comment,
		     confidence_improved = EXCLUDED.confidence_improved,
		     would_recommend = EXCLUDED.would_recommend,
		     updated_at = now()
		 RETURNING `+feedbackColumns,
		f.ID, f.SessionID, f.FromUserID, f.ToUserID, f.Rating, f.Comment, f.ConfidenceImproved, f.WouldRecommend,
	)
	return scanFeedback(row)
}

func (r *PostgresFeedbackRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]feedback.Feedback, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+feedbackColumns+`
		 FROM feedback
		 WHERE session_id = $1
		 ORDER BY created_at ASC, id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]feedback.Feedback, 0)
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresFeedbackRepository) ListReceived(ctx context.Context, userID uuid.UUID) ([]feedback.Received, error) {
	rows, err := r.db.Query(ctx,
		`SELECT f.rating, se.focus_role, m.user_a_id, m.user_b_id
		 FROM feedback f
		 JOIN sessions se ON se.id = f.session_id
		 JOIN matches m ON m.id = se.match_id
		 WHERE f.to_user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]feedback.Received, 0)
	for rows.Next() {
		var rc feedback.Received
		if err := rows.Scan(&rc.Rating, &rc.FocusRole, &rc.UserAID, &rc.UserBID); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
