package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/peereval/peereval-api/internal/config"
	"github.com/peereval/peereval-api/internal/handler"
	"github.com/peereval/peereval-api/internal/middleware"
	"github.com/peereval/peereval-api/internal/models"
	"github.com/peereval/peereval-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	UserHandler       *handler.UserHandler
	ProjectHandler    *handler.ProjectHandler
	TeamHandler       *handler.TeamHandler
	FormHandler       *handler.FormHandler
	EvaluationHandler *handler.EvaluationHandler
	ReportHandler     *handler.ReportHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	instructorOnly := middleware.RequireRole(models.RoleInstructor)

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", 20, time.Minute))
		deps.AuthHandler.Register(auth, jwtMiddleware)
	}

	if deps.UserHandler != nil {
		users := api.Group("/users", jwtMiddleware)
		deps.UserHandler.Register(users, instructorOnly)
	}

	if deps.ProjectHandler != nil {
		projects := api.Group("/projects", jwtMiddleware)
		deps.ProjectHandler.Register(projects, instructorOnly)
	}

	if deps.TeamHandler != nil {
		teams := api.Group("/teams", jwtMiddleware)
		deps.TeamHandler.Register(teams, instructorOnly)
	}

	if deps.FormHandler != nil {
		forms := api.Group("/forms", jwtMiddleware)
		deps.FormHandler.Register(forms, instructorOnly)
	}

	if deps.EvaluationHandler != nil {
		evaluations := api.Group("/evaluations", jwtMiddleware, middleware.RateLimit("evaluations", 60, time.Minute))
		deps.EvaluationHandler.Register(evaluations)
	}

	if deps.ReportHandler != nil {
		reports := api.Group("/reports", jwtMiddleware)
		deps.ReportHandler.Register(reports)
	}
}
