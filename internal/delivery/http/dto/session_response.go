package dto

import (
	"time"

	"skillera/internal/domain/feedback"
	"skillera/internal/domain/message"
	"skillera/internal/domain/session"
	"skillera/internal/usecase"

	"github.com/google/uuid"
)

type SessionResponse struct {
	ID             uuid.UUID      `json:"id"`
	MatchID        uuid.UUID      `json:"matchId"`
	FocusSkillID   *uuid.UUID     `json:"focusSkillId"`
	FocusSkill     *SkillResponse `json:"focusSkill,omitempty"`
	FocusRole      string         `json:"focusRole"`
	DateTime       *time.Time     `json:"dateTime"`
	Mode           string         `json:"mode"`
	LocationOrLink *string        `json:"locationOrLink"`
	Goals          *string        `json:"goals"`
	Status         string         `json:"status"`
	CreatedByID    uuid.UUID      `json:"createdById"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

type SessionWithBuddyResponse struct {
	SessionResponse
	Buddy UserSummaryResponse `json:"buddy"`
}

type MessageResponse struct {
	ID        uuid.UUID           `json:"id"`
	MatchID   uuid.UUID           `json:"matchId"`
	SessionID *uuid.UUID          `json:"sessionId"`
	Content   string              `json:"content"`
	Sender    UserSummaryResponse `json:"sender"`
	CreatedAt time.Time           `json:"createdAt"`
}

type ConversationResponse struct {
	MatchID         uuid.UUID           `json:"matchId"`
	Buddy           UserSummaryResponse `json:"buddy"`
	LastMessage     MessageResponse     `json:"lastMessage"`
	UpcomingSession *SessionResponse    `json:"upcomingSession"`
}

type FeedbackResponse struct {
	ID                 uuid.UUID `json:"id"`
	SessionID          uuid.UUID `json:"sessionId"`
	FromUserID         uuid.UUID `json:"fromUserId"`
	ToUserID           uuid.UUID `json:"toUserId"`
	Rating             int       `json:"rating"`
	Comment            *string   `json:"comment"`
	ConfidenceImproved bool      `json:"confidenceImproved"`
	WouldRecommend     bool      `json:"wouldRecommend"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func NewSessionResponse(s session.Session) SessionResponse {
	res := SessionResponse{
		ID:             s.ID,
		MatchID:        s.MatchID,
		FocusSkillID:   s.FocusSkillID,
		FocusRole:      string(s.FocusRole),
		DateTime:       s.DateTime,
		Mode:           string(s.Mode),
		LocationOrLink: s.LocationOrLink,
		Goals:          s.Goals,
		Status:         string(s.Status),
		CreatedByID:    s.CreatedByID,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	if s.FocusSkillID != nil && s.FocusSkillName != "" {
		res.FocusSkill = &SkillResponse{ID: *s.FocusSkillID, Name: s.FocusSkillName}
	}
	return res
}

func NewSessionResponses(items []session.Session) []SessionResponse {
	out := make([]SessionResponse, 0, len(items))
	for _, s := range items {
		out = append(out, NewSessionResponse(s))
	}
	return out
}

func NewSessionViewResponses(items []usecase.SessionView) []SessionWithBuddyResponse {
	out := make([]SessionWithBuddyResponse, 0, len(items))
	for _, v := range items {
		out = append(out, SessionWithBuddyResponse{
			SessionResponse: NewSessionResponse(v.Session),
			Buddy:           NewUserSummaryResponse(v.Buddy),
		})
	}
	return out
}

func NewMessageResponse(m message.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		MatchID:   m.MatchID,
		SessionID: m.SessionID,
		Content:   m.Content,
		Sender:    UserSummaryResponse{ID: m.SenderID, Name: m.SenderName, AvatarURL: m.SenderAvatar},
		CreatedAt: m.CreatedAt,
	}
}

func NewMessageResponses(items []message.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(items))
	for _, m := range items {
		out = append(out, NewMessageResponse(m))
	}
	return out
}

func NewConversationResponses(items []usecase.Conversation) []ConversationResponse {
	out := make([]ConversationResponse, 0, len(items))
	for _, c := range items {
		res := ConversationResponse{
			MatchID:     c.Match.ID,
			Buddy:       NewUserSummaryResponse(c.Buddy),
			LastMessage: NewMessageResponse(c.LastMessage),
		}
		if c.UpcomingSession != nil {
			s := NewSessionResponse(*c.UpcomingSession)
			res.UpcomingSession = &s
		}
		out = append(out, res)
	}
	return out
}

func NewFeedbackResponse(f feedback.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:                 f.ID,
		SessionID:          f.SessionID,
		FromUserID:         f.FromUserID,
		ToUserID:           f.ToUserID,
		Rating:             f.Rating,
		Comment:            f.Comment,
		ConfidenceImproved: f.ConfidenceImproved,
		WouldRecommend:     f.WouldRecommend,
		CreatedAt:          f.CreatedAt,
		UpdatedAt:          f.UpdatedAt,
	}
}

func NewFeedbackResponses(items []feedback.Feedback) []FeedbackResponse {
	out := make([]FeedbackResponse, 0, len(items))
	for _, f := range items {
		out = append(out, NewFeedbackResponse(f))
	}
	return out
}
