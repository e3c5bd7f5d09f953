package usecase

import (
	"context"
	"errors"
	"slices"
	"strings"
	"unicode/utf8"

	"skillera/internal/domain/match"
	"skillera/internal/domain/message"
	"skillera/internal/domain/session"
	"skillera/internal/domain/user"
	"skillera/internal/repository"

	"github.com/google/uuid"
)

// MaxMessageLength is counted in characters, not bytes.
const MaxMessageLength = 4000

type SendMessageInput struct {
	MatchID   uuid.UUID
	Content   string
	SessionID *uuid.UUID
}

type Conversation struct {
	Match           match.Match
	Buddy           user.Summary
	LastMessage     message.Message
	UpcomingSession *session.Session
}

type MessageUsecase interface {
	SendMessage(ctx context.Context, senderID uuid.UUID, in SendMessageInput) (message.Message, error)
	ListMessages(ctx context.Context, viewerID, matchID uuid.UUID) ([]message.Message, error)
	ListConversations(ctx context.Context, viewerID uuid.UUID) ([]Conversation, error)
}

type Message struct {
	matches   repository.MatchRepository
	messages  repository.MessageRepository
	sessions  repository.SessionRepository
	userQuery repository.UserQueryRepository
	events    EventPublisher
}

func NewMessageUsecase(
	matches repository.MatchRepository,
	messages repository.MessageRepository,
	sessions repository.SessionRepository,
	userQuery repository.UserQueryRepository,
	events EventPublisher,
) *Message {
	return &Message{
		matches:   matches,
		messages:  messages,
		sessions:  sessions,
		userQuery: userQuery,
		events:    publisherOrNoop(events),
	}
}

// SendMessage persists the message before broadcasting it to the match room.
func (u *Message) SendMessage(ctx context.Context, senderID uuid.UUID, in SendMessageInput) (message.Message, error) {
	if senderID == uuid.Nil {
		return message.Message{}, ErrUnauthorized
	}
	content := strings.TrimSpace(in.Content)
	if in.MatchID == uuid.Nil || content == "" || !utf8.ValidString(content) || utf8.RuneCountInString(content) > MaxMessageLength {
		return message.Message{}, ErrInvalidInput
	}

	m, err := participantMatch(ctx, u.matches, senderID, in.MatchID)
	if err != nil {
		return message.Message{}, err
	}

	if in.SessionID != nil {
		s, err := u.sessions.FindByID(ctx, *in.SessionID)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				return message.Message{}, ErrSessionNotFound
			}
			return message.Message{}, ErrInternal
		}
		if s.MatchID != m.ID {
			return message.Message{}, ErrSessionNotInMatch
		}
	}

	saved, err := u.messages.Create(ctx, message.Message{
		ID:        uuid.New(),
		MatchID:   m.ID,
		SenderID:  senderID,
		Content:   content,
		SessionID: in.SessionID,
	})
	if err != nil {
		return message.Message{}, ErrInternal
	}

	u.events.PublishToMatch(saved.MatchID, EventNewMessage, MessageEvent{
		ID:           saved.ID,
		MatchID:      saved.MatchID,
		SenderID:     saved.SenderID,
		SenderName:   saved.SenderName,
		SenderAvatar: saved.SenderAvatar,
		Content:      saved.Content,
		SessionID:    saved.SessionID,
		CreatedAt:    saved.CreatedAt,
	})
	return saved, nil
}

func (u *Message) ListMessages(ctx context.Context, viewerID, matchID uuid.UUID) ([]message.Message, error) {
	if viewerID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if _, err := participantMatch(ctx, u.matches, viewerID, matchID); err != nil {
		return nil, err
	}
	items, err := u.messages.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

// ListConversations returns the viewer's matches that have at least one
// message, most recent activity first.
func (u *Message) ListConversations(ctx context.Context, viewerID uuid.UUID) ([]Conversation, error) {
	if viewerID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	items, err := u.matches.ListByUser(ctx, viewerID, "")
	if err != nil {
		return nil, ErrInternal
	}
	if len(items) == 0 {
		return []Conversation{}, nil
	}

	matchIDs := make([]uuid.UUID, 0, len(items))
	for _, m := range items {
		matchIDs = append(matchIDs, m.ID)
	}
	last, err := u.messages.LastByMatchIDs(ctx, matchIDs)
	if err != nil {
		return nil, ErrInternal
	}

	active := make([]match.Match, 0, len(last))
	buddyIDs := make([]uuid.UUID, 0, len(last))
	activeIDs := make([]uuid.UUID, 0, len(last))
	for _, m := range items {
		if _, ok := last[m.ID]; !ok {
			continue
		}
		active = append(active, m)
		buddyIDs = append(buddyIDs, m.Other(viewerID))
		activeIDs = append(activeIDs, m.ID)
	}
	if len(active) == 0 {
		return []Conversation{}, nil
	}

	summaries, err := u.userQuery.GetSummaries(ctx, buddyIDs)
	if err != nil {
		return nil, ErrInternal
	}
	upcoming, err := u.sessions.UpcomingByMatchIDs(ctx, activeIDs)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]Conversation, 0, len(active))
	for _, m := range active {
		c := Conversation{
			Match:       m,
			Buddy:       summaries[m.Other(viewerID)],
			LastMessage: last[m.ID],
		}
		if s, ok := upcoming[m.ID]; ok {
			c.UpcomingSession = &s
		}
		out = append(out, c)
	}
	sortConversations(out)
	return out, nil
}

func sortConversations(items []Conversation) {
	slices.SortStableFunc(items, func(a, b Conversation) int {
		return b.LastMessage.CreatedAt.Compare(a.LastMessage.CreatedAt)
	})
}
