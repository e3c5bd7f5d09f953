package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"skillera/internal/domain/match"
	"skillera/internal/domain/session"
	"skillera/internal/domain/user"
	"skillera/internal/repository"

	"github.com/google/uuid"
)

type CreateSessionInput struct {
	MatchID        uuid.UUID
	FocusSkillID   *uuid.UUID
	FocusRole      session.FocusRole
	DateTime       *time.Time
	Mode           session.Mode
	LocationOrLink *string
	Goals          *string
}

// UpdateSessionInput is a partial update; nil fields are left alone.
type UpdateSessionInput struct {
	Status         *session.Status
	DateTime       *time.Time
	Mode           *session.Mode
	LocationOrLink *string
	Goals          *string
}

type SessionView struct {
	Session session.Session
	Buddy   user.Summary
}

type SessionUsecase interface {
	CreateSession(ctx context.Context, actorID uuid.UUID, in CreateSessionInput) (session.Session, error)
	ListSessions(ctx context.Context, actorID uuid.UUID, status session.Status) ([]SessionView, error)
	UpdateSession(ctx context.Context, actorID, sessionID uuid.UUID, in UpdateSessionInput) (session.Session, error)
}

type Session struct {
	matches   repository.MatchRepository
	sessions  repository.SessionRepository
	skills    repository.SkillRepository
	userQuery repository.UserQueryRepository
	events    EventPublisher

	// strict enforces the lifecycle table on status changes. When false any
	// status may overwrite any other.
	strict bool
}

func NewSessionUsecase(
	matches repository.MatchRepository,
	sessions repository.SessionRepository,
	skills repository.SkillRepository,
	userQuery repository.UserQueryRepository,
	events EventPublisher,
	strict bool,
) *Session {
	return &Session{
		matches:   matches,
		sessions:  sessions,
		skills:    skills,
		userQuery: userQuery,
		events:    publisherOrNoop(events),
		strict:    strict,
	}
}

func (u *Session) CreateSession(ctx context.Context, actorID uuid.UUID, in CreateSessionInput) (session.Session, error) {
	if actorID == uuid.Nil {
		return session.Session{}, ErrUnauthorized
	}
	if in.MatchID == uuid.Nil || !in.FocusRole.Valid() {
		return session.Session{}, ErrInvalidInput
	}
	mode := in.Mode
	if mode == "" {
		mode = session.ModeOnline
	}
	if !mode.Valid() {
		return session.Session{}, ErrInvalidInput
	}

	m, err := participantMatch(ctx, u.matches, actorID, in.MatchID)
	if err != nil {
		return session.Session{}, err
	}

	if in.FocusSkillID != nil {
		if _, err := u.skills.FindByID(ctx, *in.FocusSkillID); err != nil {
			if errors.Is(err, repository.ErrSkillNotFound) {
				return session.Session{}, ErrSkillNotFound
			}
			return session.Session{}, ErrInternal
		}
	}

	created, err := u.sessions.Create(ctx, session.Session{
		ID:             uuid.New(),
		MatchID:        m.ID,
		FocusSkillID:   in.FocusSkillID,
		FocusRole:      in.FocusRole,
		DateTime:       in.DateTime,
		Mode:           mode,
		LocationOrLink: trimmedOrNil(in.LocationOrLink),
		Goals:          trimmedOrNil(in.Goals),
		Status:         session.StatusProposed,
		CreatedByID:    actorID,
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return session.Session{}, ErrMatchNotFound
		}
		return session.Session{}, ErrInternal
	}

	u.publish(created, actorID)
	return created, nil
}

func (u *Session) ListSessions(ctx context.Context, actorID uuid.UUID, status session.Status) ([]SessionView, error) {
	if actorID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if status != "" && !status.Valid() {
		return nil, ErrInvalidInput
	}

	items, err := u.sessions.ListByUser(ctx, actorID, status)
	if err != nil {
		return nil, ErrInternal
	}
	if len(items) == 0 {
		return []SessionView{}, nil
	}

	matchByID := make(map[uuid.UUID]match.Match)
	buddyIDs := make([]uuid.UUID, 0, len(items))
	for _, s := range items {
		if _, ok := matchByID[s.MatchID]; ok {
			continue
		}
		m, err := u.matches.FindByID(ctx, s.MatchID)
		if err != nil {
			return nil, ErrInternal
		}
		matchByID[m.ID] = m
		buddyIDs = append(buddyIDs, m.Other(actorID))
	}

	summaries, err := u.userQuery.GetSummaries(ctx, buddyIDs)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]SessionView, 0, len(items))
	for _, s := range items {
		m := matchByID[s.MatchID]
		out = append(out, SessionView{Session: s, Buddy: summaries[m.Other(actorID)]})
	}
	return out, nil
}

func (u *Session) UpdateSession(ctx context.Context, actorID, sessionID uuid.UUID, in UpdateSessionInput) (session.Session, error) {
	if actorID == uuid.Nil {
		return session.Session{}, ErrUnauthorized
	}

	s, err := u.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return session.Session{}, ErrSessionNotFound
		}
		return session.Session{}, ErrInternal
	}
	if _, err := participantMatch(ctx, u.matches, actorID, s.MatchID); err != nil {
		return session.Session{}, err
	}

	if in.Status != nil {
		next := *in.Status
		if !next.Valid() {
			return session.Session{}, ErrInvalidInput
		}
		if u.strict && !session.CanTransition(s.Status, next) {
			return session.Session{}, ErrInvalidTransition
		}
		s.Status = next
	}
	if in.Mode != nil {
		if !in.Mode.Valid() {
			return session.Session{}, ErrInvalidInput
		}
		s.Mode = *in.Mode
	}
	if in.DateTime != nil {
		dt := *in.DateTime
		s.DateTime = &dt
	}
	if in.LocationOrLink != nil {
		s.LocationOrLink = trimmedOrNil(in.LocationOrLink)
	}
	if in.Goals != nil {
		s.Goals = trimmedOrNil(in.Goals)
	}

	updated, err := u.sessions.Update(ctx, s)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return session.Session{}, ErrSessionNotFound
		}
		return session.Session{}, ErrInternal
	}

	u.publish(updated, actorID)
	return updated, nil
}

func (u *Session) publish(s session.Session, actorID uuid.UUID) {
	u.events.PublishToMatch(s.MatchID, EventSessionUpdated, SessionUpdatedEvent{
		ID:        s.ID,
		MatchID:   s.MatchID,
		Status:    string(s.Status),
		DateTime:  s.DateTime,
		Mode:      string(s.Mode),
		UpdatedBy: actorID,
	})
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
