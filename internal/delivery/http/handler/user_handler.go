package handler

import (
	"encoding/json"
	"errors"

	"skillera/internal/delivery/http/dto"
	"skillera/internal/delivery/http/middleware"
	"skillera/internal/domain/skill"
	"skillera/internal/pkg/response"
	"skillera/internal/usecase"
	ucuser "skillera/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type UserHandler struct {
	users  usecase.UserUsecase
	skills usecase.UserSkillUsecase
}

type updateProfileRequest struct {
	Name          *string         `json:"name" validate:"omitempty,max=120"`
	Age           *int            `json:"age" validate:"omitempty,min=0,max=150"`
	Bio           *string         `json:"bio" validate:"omitempty,max=2000"`
	AvatarURL     *string         `json:"avatarUrl" validate:"omitempty,max=2048"`
	Location      *string         `json:"location" validate:"omitempty,max=200"`
	TimeZone      *string         `json:"timeZone" validate:"omitempty,max=64"`
	PreferredMode *string         `json:"preferredMode"`
	Availability  json.RawMessage `json:"availability"`
}

type skillEntryRequest struct {
	SkillID   *uuid.UUID `json:"skillId"`
	SkillName string     `json:"skillName" validate:"required_without=SkillID,max=100"`
	Category  string     `json:"category" validate:"max=100"`
	Type      string     `json:"type" validate:"required"`
	Level     string     `json:"level" validate:"required"`
}

type replaceSkillsRequest struct {
	Skills []skillEntryRequest `json:"skills" validate:"dive"`
}

func NewUserHandler(users usecase.UserUsecase, skills usecase.UserSkillUsecase) *UserHandler {
	return &UserHandler{users: users, skills: skills}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Get("/:id", h.GetProfile)
	r.Put("/:id", h.UpdateProfile)
	r.Get("/:id/skills", h.ListSkills)
	r.Post("/:id/skills", h.ReplaceSkills)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	return h.profile(c, userID)
}

func (h *UserHandler) GetProfile(c fiber.Ctx) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	return h.profile(c, id)
}

func (h *UserHandler) profile(c fiber.Ctx, userID uuid.UUID) error {
	view, err := h.users.GetProfile(c.Context(), userID)
	if err != nil {
		return mapUserUsecaseError(err)
	}

	res := dto.NewProfileResponse(view.Profile)
	res.Stats = dto.NewStatsResponse(view.Stats)
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *UserHandler) UpdateProfile(c fiber.Ctx) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	targetID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	updated, err := h.users.UpdateProfile(c.Context(), actorID, targetID, ucuser.UpdateProfileInput{
		Name:          req.Name,
		Age:           req.Age,
		Bio:           req.Bio,
		AvatarURL:     req.AvatarURL,
		Location:      req.Location,
		TimeZone:      req.TimeZone,
		PreferredMode: req.PreferredMode,
		Availability:  req.Availability,
	})
	if err != nil {
		return mapUserUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, "Profile updated", dto.NewUserResponse(updated))
}

func (h *UserHandler) ListSkills(c fiber.Ctx) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	items, err := h.skills.ListUserSkills(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserSkillResponses(items))
}

// ReplaceSkills swaps the whole teach/learn profile in one transaction.
func (h *UserHandler) ReplaceSkills(c fiber.Ctx) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	targetID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req replaceSkillsRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	entries := make([]usecase.SkillEntryInput, 0, len(req.Skills))
	for _, it := range req.Skills {
		e := usecase.SkillEntryInput{
			SkillName: it.SkillName,
			Category:  it.Category,
			Role:      skill.Role(it.Type),
			Level:     skill.Level(it.Level),
		}
		if it.SkillID != nil {
			e.SkillID = *it.SkillID
		}
		entries = append(entries, e)
	}

	saved, err := h.skills.ReplaceSkills(c.Context(), actorID, targetID, entries)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Skills updated", dto.NewUserSkillResponses(saved))
}

func mapUserUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ucuser.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, ucuser.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "You can only edit your own profile", nil, err)
	case errors.Is(err, ucuser.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	case errors.Is(err, ucuser.ErrInternal):
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	default:
		return mapUsecaseError(err)
	}
}
