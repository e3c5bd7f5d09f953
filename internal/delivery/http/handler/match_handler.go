package handler

import (
	"strconv"

	"skillera/internal/delivery/http/dto"
	"skillera/internal/delivery/http/middleware"
	"skillera/internal/domain/matching"
	"skillera/internal/pkg/response"
	"skillera/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

type createMatchRequest struct {
	OtherUserID uuid.UUID `json:"otherUserId" validate:"required"`
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/deck", h.Deck)
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/:id", h.Get)
}

func (h *MatchHandler) Deck(c fiber.Ctx) error {
	viewerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	f := matching.DeckFilter{Category: c.Query("category")}
	if raw := c.Query("onlineOnly"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid onlineOnly", nil, err)
		}
		f.OnlineOnly = v
	}

	items, err := h.uc.Deck(c.Context(), viewerID, f)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewDeckResponse(items))
}

// Create is idempotent: an existing match for the pair is returned with 200,
// a new one with 201.
func (h *MatchHandler) Create(c fiber.Ctx) error {
	viewerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req createMatchRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.uc.CreateMatch(c.Context(), viewerID, req.OtherUserID)
	if err != nil {
		return mapUsecaseError(err)
	}

	status, msg := fiber.StatusOK, "Match already exists"
	if res.Created {
		status, msg = fiber.StatusCreated, "Match created"
	}
	return response.Success(c, status, msg, dto.CreateMatchResponse{
		Match:   dto.NewMatchResponse(res.Match),
		Created: res.Created,
	})
}

func (h *MatchHandler) List(c fiber.Ctx) error {
	viewerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListMatches(c.Context(), viewerID)
	if err != nil {
		return mapUsecaseError(err)
	}

	res := make([]dto.MatchResponse, 0, len(items))
	for _, v := range items {
		res = append(res, dto.NewMatchViewResponse(v))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *MatchHandler) Get(c fiber.Ctx) error {
	viewerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	matchID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.uc.GetMatch(c.Context(), viewerID, matchID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchDetailResponse(detail))
}
