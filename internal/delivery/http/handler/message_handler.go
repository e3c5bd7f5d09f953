package handler

import (
	"skillera/internal/delivery/http/dto"
	"skillera/internal/pkg/response"
	"skillera/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MessageHandler struct {
	uc usecase.MessageUsecase
}

type sendMessageRequest struct {
	MatchID   uuid.UUID  `json:"matchId" validate:"required"`
	Content   string     `json:"content" validate:"required,max=4000"`
	SessionID *uuid.UUID `json:"sessionId"`
}

func NewMessageHandler(uc usecase.MessageUsecase) *MessageHandler {
	return &MessageHandler{uc: uc}
}

func (h *MessageHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Send)
	r.Get("/conversations", h.Conversations)
	r.Get("/:matchId", h.List)
}

func (h *MessageHandler) Send(c fiber.Ctx) error {
	senderID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	msg, err := h.uc.SendMessage(c.Context(), senderID, usecase.SendMessageInput{
		MatchID:   req.MatchID,
		Content:   req.Content,
		SessionID: req.SessionID,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Message sent", dto.NewMessageResponse(msg))
}

func (h *MessageHandler) List(c fiber.Ctx) error {
	viewerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	matchID, err := uuidParam(c, "matchId")
	if err != nil {
		return err
	}

	items, err := h.uc.ListMessages(c.Context(), viewerID, matchID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMessageResponses(items))
}

func (h *MessageHandler) Conversations(c fiber.Ctx) error {
	viewerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListConversations(c.Context(), viewerID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewConversationResponses(items))
}
