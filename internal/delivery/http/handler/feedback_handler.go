package handler

import (
	"skillera/internal/delivery/http/dto"
	"skillera/internal/pkg/response"
	"skillera/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type FeedbackHandler struct {
	uc usecase.FeedbackUsecase
}

type submitFeedbackRequest struct {
	SessionID          uuid.UUID `json:"sessionId" validate:"required"`
	ToUserID           uuid.UUID `json:"toUserId" validate:"required"`
	Rating             int       `json:"rating" validate:"required,min=1,max=5"`
	Comment            *string   `json:"comment" validate:"omitempty,max=2000"`
	ConfidenceImproved bool      `json:"confidenceImproved"`
	WouldRecommend     bool      `json:"wouldRecommend"`
}

func NewFeedbackHandler(uc usecase.FeedbackUsecase) *FeedbackHandler {
	return &FeedbackHandler{uc: uc}
}

func (h *FeedbackHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Submit)
	r.Get("/session/:sessionId", h.ListForSession)
}

// Submit creates the feedback or overwrites the sender's previous one for
// the same session and recipient.
func (h *FeedbackHandler) Submit(c fiber.Ctx) error {
	fromID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req submitFeedbackRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	saved, err := h.uc.SubmitFeedback(c.Context(), fromID, usecase.SubmitFeedbackInput{
		SessionID:          req.SessionID,
		ToUserID:           req.ToUserID,
		Rating:             req.Rating,
		Comment:            req.Comment,
		ConfidenceImproved: req.ConfidenceImproved,
		WouldRecommend:     req.WouldRecommend,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Feedback saved", dto.NewFeedbackResponse(saved))
}

func (h *FeedbackHandler) ListForSession(c fiber.Ctx) error {
	viewerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	sessionID, err := uuidParam(c, "sessionId")
	if err != nil {
		return err
	}

	items, err := h.uc.ListForSession(c.Context(), viewerID, sessionID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewFeedbackResponses(items))
}
