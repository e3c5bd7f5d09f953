package ws

import (
	"log"
	"net/http"
	"strings"

	"skillera/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Handler struct {
	hub    *Hub
	jwtSvc jwt.Service
	authz  RoomAuthorizer
	logger *log.Logger
}

func NewHandler(hub *Hub, jwtSvc jwt.Service, authz RoomAuthorizer, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{hub: hub, jwtSvc: jwtSvc, authz: authz, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handle upgrades GET /ws. Browsers cannot set headers on a WebSocket
// handshake, so the access token is also accepted as ?token=.
func (h *Handler) Handle(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}
	return adaptor.HTTPHandler(h)(c)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("WS upgrade error | user_id=%s error=%v", userID, err)
		return
	}

	client := NewClient(h.hub, conn, userID, h.authz)
	h.hub.Register(client)
	go client.WritePump()
	go client.ReadPump()
}

func (h *Handler) authenticate(r *http.Request) (uuid.UUID, bool) {
	if h.jwtSvc == nil {
		return uuid.Nil, false
	}

	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		raw := strings.TrimSpace(r.Header.Get("Authorization"))
		parts := strings.SplitN(raw, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = strings.TrimSpace(parts[1])
		}
	}
	if token == "" {
		return uuid.Nil, false
	}

	claims, err := h.jwtSvc.ValidateAccessToken(token)
	if err != nil || claims.UserID == uuid.Nil {
		return uuid.Nil, false
	}
	return claims.UserID, true
}
