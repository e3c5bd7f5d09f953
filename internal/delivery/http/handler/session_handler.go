package handler

import (
	"strings"
	"time"

	"skillera/internal/delivery/http/dto"
	"skillera/internal/domain/session"
	"skillera/internal/pkg/response"
	"skillera/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type SessionHandler struct {
	uc usecase.SessionUsecase
}

type createSessionRequest struct {
	MatchID        uuid.UUID  `json:"matchId" validate:"required"`
	FocusSkillID   *uuid.UUID `json:"focusSkillId"`
	FocusRole      string     `json:"focusRole" validate:"required"`
	DateTime       *time.Time `json:"dateTime"`
	Mode           string     `json:"mode"`
	LocationOrLink *string    `json:"locationOrLink" validate:"omitempty,max=500"`
	Goals          *string    `json:"goals" validate:"omitempty,max=2000"`
}

type updateSessionRequest struct {
	Status         *string    `json:"status"`
	DateTime       *time.Time `json:"dateTime"`
	Mode           *string    `json:"mode"`
	LocationOrLink *string    `json:"locationOrLink" validate:"omitempty,max=500"`
	Goals          *string    `json:"goals" validate:"omitempty,max=2000"`
}

func NewSessionHandler(uc usecase.SessionUsecase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

func (h *SessionHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Patch("/:id", h.Update)
}

func (h *SessionHandler) Create(c fiber.Ctx) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req createSessionRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	created, err := h.uc.CreateSession(c.Context(), actorID, usecase.CreateSessionInput{
		MatchID:        req.MatchID,
		FocusSkillID:   req.FocusSkillID,
		FocusRole:      session.FocusRole(upper(req.FocusRole)),
		DateTime:       req.DateTime,
		Mode:           session.Mode(upper(req.Mode)),
		LocationOrLink: req.LocationOrLink,
		Goals:          req.Goals,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Session proposed", dto.NewSessionResponse(created))
}

func (h *SessionHandler) List(c fiber.Ctx) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListSessions(c.Context(), actorID, session.Status(upper(c.Query("status"))))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSessionViewResponses(items))
}

func (h *SessionHandler) Update(c fiber.Ctx) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	sessionID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req updateSessionRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	in := usecase.UpdateSessionInput{
		DateTime:       req.DateTime,
		LocationOrLink: req.LocationOrLink,
		Goals:          req.Goals,
	}
	if req.Status != nil {
		st := session.Status(upper(*req.Status))
		in.Status = &st
	}
	if req.Mode != nil {
		m := session.Mode(upper(*req.Mode))
		in.Mode = &m
	}

	updated, err := h.uc.UpdateSession(c.Context(), actorID, sessionID, in)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Session updated", dto.NewSessionResponse(updated))
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
