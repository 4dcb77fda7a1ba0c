package routes

import (
	"job-matcher/internal/delivery/http/handler"
	"job-matcher/internal/delivery/http/middleware"
	"job-matcher/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Health  *handler.HealthHandler
	Jobs    *handler.JobsHandler
	Resumes *handler.ResumeHandler
	Matches *handler.MatchHandler
	WS      *ws.Handler
	Metrics fiber.Handler
}

type Registry struct {
	h    Handlers
	auth *middleware.AuthMiddleware
}

// NewRegistry wires handlers to paths. A nil auth leaves every route public.
func NewRegistry(h Handlers, auth *middleware.AuthMiddleware) *Registry {
	return &Registry{h: h, auth: auth}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerOps(app)
	r.registerAPI(app)
}

func (r *Registry) registerOps(app *fiber.App) {
	if r.h.Health != nil {
		r.h.Health.RegisterRoutes(app)
	}
	if r.h.Metrics != nil {
		app.Get("/metrics", r.h.Metrics)
	}
	if r.h.WS != nil {
		app.Get("/ws/matches", r.h.WS.HandleMatchesWS)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	v1 := app.Group("/api/v1")

	if r.h.Jobs != nil {
		r.h.Jobs.RegisterRoutes(v1)
	}

	// Public routes are registered above so they match before the auth group.
	protected := v1
	if r.auth != nil {
		protected = v1.Group("", r.auth.Middleware())
	}
	if r.h.Resumes != nil {
		r.h.Resumes.RegisterRoutes(protected)
	}
	if r.h.Matches != nil {
		r.h.Matches.RegisterRoutes(protected)
	}
}
