package usecase

import (
	"context"
	"errors"

	"skillera/internal/domain/feedback"
	"skillera/internal/domain/session"
	"skillera/internal/repository"

	"github.com/google/uuid"
)

type SubmitFeedbackInput struct {
	SessionID          uuid.UUID
	ToUserID           uuid.UUID
	Rating             int
	Comment            *string
	ConfidenceImproved bool
	WouldRecommend     bool
}

type FeedbackUsecase interface {
	// SubmitFeedback creates or overwrites the sender's feedback for the
	// other participant of a completed session.
	SubmitFeedback(ctx context.Context, fromUserID uuid.UUID, in SubmitFeedbackInput) (feedback.Feedback, error)
	ListForSession(ctx context.Context, viewerID, sessionID uuid.UUID) ([]feedback.Feedback, error)
}

type Feedback struct {
	matches  repository.MatchRepository
	sessions repository.SessionRepository
	feedback repository.FeedbackRepository
}

func NewFeedbackUsecase(
	matches repository.MatchRepository,
	sessions repository.SessionRepository,
	feedbacks repository.FeedbackRepository,
) *Feedback {
	return &Feedback{matches: matches, sessions: sessions, feedback: feedbacks}
}

func (u *Feedback) SubmitFeedback(ctx context.Context, fromUserID uuid.UUID, in SubmitFeedbackInput) (feedback.Feedback, error) {
	if fromUserID == uuid.Nil {
		return feedback.Feedback{}, ErrUnauthorized
	}
	if in.SessionID == uuid.Nil || in.ToUserID == uuid.Nil {
		return feedback.Feedback{}, ErrInvalidInput
	}
	if in.Rating < feedback.MinRating || in.Rating > feedback.MaxRating {
		return feedback.Feedback{}, ErrInvalidInput
	}

	s, err := u.sessions.FindByID(ctx, in.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return feedback.Feedback{}, ErrSessionNotFound
		}
		return feedback.Feedback{}, ErrInternal
	}

	m, err := participantMatch(ctx, u.matches, fromUserID, s.MatchID)
	if err != nil {
		return feedback.Feedback{}, err
	}
	if in.ToUserID == fromUserID || !m.HasParticipant(in.ToUserID) {
		return feedback.Feedback{}, ErrInvalidRecipient
	}
	if s.Status != session.StatusCompleted {
		return feedback.Feedback{}, ErrSessionNotCompleted
	}

	saved, err := u.feedback.Upsert(ctx, feedback.Feedback{
		ID:                 uuid.New(),
		SessionID:          s.ID,
		FromUserID:         fromUserID,
		ToUserID:           in.ToUserID,
		Rating:             in.Rating,
		Comment:            trimmedOrNil(in.Comment),
		ConfidenceImproved: in.ConfidenceImproved,
		WouldRecommend:     in.WouldRecommend,
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return feedback.Feedback{}, ErrSessionNotFound
		}
		return feedback.Feedback{}, ErrInternal
	}
	return saved, nil
}

func (u *Feedback) ListForSession(ctx context.Context, viewerID, sessionID uuid.UUID) ([]feedback.Feedback, error) {
	if viewerID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	s, err := u.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, ErrInternal
	}
	if _, err := participantMatch(ctx, u.matches, viewerID, s.MatchID); err != nil {
		return nil, err
	}

	items, err := u.feedback.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}
