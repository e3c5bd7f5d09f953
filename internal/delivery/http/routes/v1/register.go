package v1

import (
	"skillera/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Skills   *handler.SkillHandler
	Matches  *handler.MatchHandler
	Sessions *handler.SessionHandler
	Messages *handler.MessageHandler
	Feedback *handler.FeedbackHandler
}

// Register mounts every /api/v1 route. auth is attached per group so that
// the public auth endpoints and the skill catalogue stay reachable without
// a token.
func Register(r fiber.Router, auth fiber.Handler, h Handlers) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"), auth)
	}
	if h.Skills != nil {
		h.Skills.RegisterRoutes(r.Group("/skills"), auth)
	}
	if h.Users != nil {
		h.Users.RegisterRoutes(r.Group("/users", auth))
	}
	if h.Matches != nil {
		h.Matches.RegisterRoutes(r.Group("/matches", auth))
	}
	if h.Sessions != nil {
		h.Sessions.RegisterRoutes(r.Group("/sessions", auth))
	}
	if h.Messages != nil {
		h.Messages.RegisterRoutes(r.Group("/messages", auth))
	}
	if h.Feedback != nil {
		h.Feedback.RegisterRoutes(r.Group("/feedback", auth))
	}
}
