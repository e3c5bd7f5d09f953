package dto

import (
	"time"

	"skillera/internal/domain/match"
	"skillera/internal/domain/matching"
	"skillera/internal/usecase"

	"github.com/google/uuid"
)

type SkillLevelResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Level    string    `json:"level"`
}

type CompatibilityResponse struct {
	ICanTeachThem  []SkillLevelResponse `json:"iCanTeachThem"`
	TheyCanTeachMe []SkillLevelResponse `json:"theyCanTeachMe"`
	MatchCount     int                  `json:"matchCount"`
	Score          int                  `json:"score"`
}

type DeckItemResponse struct {
	UserSummaryResponse
	PreferredMode string                `json:"preferredMode"`
	TimeZone      *string               `json:"timeZone"`
	Skills        []UserSkillResponse   `json:"skills"`
	Compatibility CompatibilityResponse `json:"compatibility"`
}

type MatchResponse struct {
	ID            uuid.UUID              `json:"id"`
	UserAID       uuid.UUID              `json:"userAId"`
	UserBID       uuid.UUID              `json:"userBId"`
	Status        string                 `json:"status"`
	Summary       match.Summary          `json:"summary"`
	MatchedAt     time.Time              `json:"matchedAt"`
	Buddy         *UserSummaryResponse   `json:"buddy,omitempty"`
	Compatibility *CompatibilityResponse `json:"compatibility,omitempty"`
	LatestSession *SessionResponse       `json:"latestSession,omitempty"`
}

type MatchDetailResponse struct {
	MatchResponse
	BuddySkills []UserSkillResponse `json:"buddySkills"`
	Sessions    []SessionResponse   `json:"sessions"`
}

type CreateMatchResponse struct {
	Match   MatchResponse `json:"match"`
	Created bool          `json:"created"`
}

func skillLevels(items []matching.SkillLevel) []SkillLevelResponse {
	out := make([]SkillLevelResponse, 0, len(items))
	for _, it := range items {
		out = append(out, SkillLevelResponse{
			ID:       it.Skill.ID,
			Name:     it.Skill.Name,
			Category: it.Skill.Category,
			Level:    string(it.Level),
		})
	}
	return out
}

func NewCompatibilityResponse(o matching.Overlap) CompatibilityResponse {
	return CompatibilityResponse{
		ICanTeachThem:  skillLevels(o.ICanTeachThem),
		TheyCanTeachMe: skillLevels(o.TheyCanTeachMe),
		MatchCount:     o.MatchCount,
		Score:          o.Score(),
	}
}

func NewDeckResponse(items []usecase.DeckItem) []DeckItemResponse {
	out := make([]DeckItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, DeckItemResponse{
			UserSummaryResponse: NewUserSummaryResponse(it.User),
			PreferredMode:       string(it.PreferredMode),
			TimeZone:            it.TimeZone,
			Skills:              NewUserSkillResponses(it.Skills),
			Compatibility:       NewCompatibilityResponse(it.Overlap),
		})
	}
	return out
}

func NewMatchResponse(m match.Match) MatchResponse {
	summary := m.Summary
	if summary.ICanTeachThem == nil {
		summary.ICanTeachThem = []string{}
	}
	if summary.TheyCanTeachMe == nil {
		summary.TheyCanTeachMe = []string{}
	}
	return MatchResponse{
		ID:        m.ID,
		UserAID:   m.UserAID,
		UserBID:   m.UserBID,
		Status:    string(m.Status),
		Summary:   summary,
		MatchedAt: m.MatchedAt,
	}
}

func NewMatchViewResponse(v usecase.MatchView) MatchResponse {
	res := NewMatchResponse(v.Match)
	buddy := NewUserSummaryResponse(v.Buddy)
	compat := NewCompatibilityResponse(v.Compatibility)
	res.Buddy = &buddy
	res.Compatibility = &compat
	if v.LatestSession != nil {
		s := NewSessionResponse(*v.LatestSession)
		res.LatestSession = &s
	}
	return res
}

func NewMatchDetailResponse(d usecase.MatchDetail) MatchDetailResponse {
	return MatchDetailResponse{
		MatchResponse: NewMatchViewResponse(d.MatchView),
		BuddySkills:   NewUserSkillResponses(d.BuddySkills),
		Sessions:      NewSessionResponses(d.Sessions),
	}
}
