package dto

import (
	"encoding/json"
	"time"

	"skillera/internal/domain/skill"
	"skillera/internal/domain/user"
	"skillera/internal/pkg/jwt"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID            uuid.UUID       `json:"id"`
	Email         string          `json:"email"`
	Name          string          `json:"name"`
	Age           *int            `json:"age"`
	Bio           *string         `json:"bio"`
	AvatarURL     *string         `json:"avatarUrl"`
	Location      *string         `json:"location"`
	TimeZone      *string         `json:"timeZone"`
	PreferredMode string          `json:"preferredMode"`
	Availability  json.RawMessage `json:"availability"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type UserSummaryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatarUrl"`
	Location  *string   `json:"location"`
	Bio       *string   `json:"bio"`
}

type SkillResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
}

type UserSkillResponse struct {
	ID    uuid.UUID     `json:"id"`
	Skill SkillResponse `json:"skill"`
	Type  string        `json:"type"`
	Level string        `json:"level"`
}

type StatsResponse struct {
	CompletedSessions  int     `json:"completedSessions"`
	AvgRatingAsTeacher float64 `json:"avgRatingAsTeacher"`
	AvgRatingAsLearner float64 `json:"avgRatingAsLearner"`
}

type ProfileResponse struct {
	UserResponse
	Skills []UserSkillResponse `json:"skills"`
	Stats  *StatsResponse      `json:"stats,omitempty"`
}

type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type AuthResponse struct {
	User   ProfileResponse `json:"user"`
	Tokens TokenResponse   `json:"tokens"`
}

func NewUserResponse(u user.User) UserResponse {
	avail := u.Availability
	if len(avail) == 0 {
		avail = json.RawMessage("null")
	}
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Age:           u.Age,
		Bio:           u.Bio,
		AvatarURL:     u.AvatarURL,
		Location:      u.Location,
		TimeZone:      u.TimeZone,
		PreferredMode: string(u.PreferredMode),
		Availability:  avail,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func NewUserSummaryResponse(s user.Summary) UserSummaryResponse {
	return UserSummaryResponse{ID: s.ID, Name: s.Name, AvatarURL: s.AvatarURL, Location: s.Location, Bio: s.Bio}
}

func NewSkillResponse(s skill.Skill) SkillResponse {
	return SkillResponse{ID: s.ID, Name: s.Name, Category: s.Category}
}

func NewSkillResponses(items []skill.Skill) []SkillResponse {
	out := make([]SkillResponse, 0, len(items))
	for _, s := range items {
		out = append(out, NewSkillResponse(s))
	}
	return out
}

func NewUserSkillResponses(items []skill.UserSkill) []UserSkillResponse {
	out := make([]UserSkillResponse, 0, len(items))
	for _, it := range items {
		out = append(out, UserSkillResponse{
			ID:    it.ID,
			Skill: NewSkillResponse(it.Skill),
			Type:  string(it.Role),
			Level: string(it.Level),
		})
	}
	return out
}

func NewProfileResponse(p user.Profile) ProfileResponse {
	return ProfileResponse{UserResponse: NewUserResponse(p.User), Skills: NewUserSkillResponses(p.Skills)}
}

func NewStatsResponse(s user.Stats) *StatsResponse {
	return &StatsResponse{
		CompletedSessions:  s.CompletedSessions,
		AvgRatingAsTeacher: s.AvgRatingAsTeacher,
		AvgRatingAsLearner: s.AvgRatingAsLearner,
	}
}

func NewTokenResponse(p jwt.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresIn:    int64(p.ExpiresIn.Seconds()),
	}
}
