package routes

import (
	"skillera/internal/delivery/http/handler"
	v1 "skillera/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	auth   fiber.Handler
	v1     v1.Handlers
	ws     fiber.Handler
}

func NewRegistry(health *handler.HealthHandler, auth fiber.Handler, handlers v1.Handlers, ws fiber.Handler) *Registry {
	return &Registry{health: health, auth: auth, v1: handlers, ws: ws}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
	if r.ws != nil {
		app.Get("/ws", r.ws)
	}
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health == nil {
		return
	}
	r.health.RegisterRoutes(app)
	r.health.RegisterRoutes(app.Group("/api"))
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.auth, r.v1)
}
