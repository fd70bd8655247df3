package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/karierni-denik/denik-api/internal/config"
	"github.com/karierni-denik/denik-api/internal/handler"
	"github.com/karierni-denik/denik-api/internal/middleware"
	"github.com/karierni-denik/denik-api/internal/models"
	"github.com/karierni-denik/denik-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler          *handler.AuthHandler
	ClassHandler         *handler.ClassHandler
	AssignmentHandler    *handler.AssignmentHandler
	SubmissionHandler    *handler.SubmissionHandler
	TemplateHandler      *handler.TemplateHandler
	NoticeHandler        *handler.NoticeHandler
	ContactHandler       *handler.ContactHandler
	PortfolioHandler     *handler.PortfolioHandler
	AdminAccountHandler  *handler.AdminAccountHandler
	AdminActivityHandler *handler.AdminActivityHandler
	JWTMiddleware        fiber.Handler
	JoinRateLimiter      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"))
	}

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.ClassHandler != nil {
		classes := api.Group("/classes", jwtMiddleware)
		deps.ClassHandler.Register(classes, deps.JoinRateLimiter)

		if deps.AssignmentHandler != nil {
			deps.AssignmentHandler.RegisterClassScoped(classes)
		}
	}

	if deps.AssignmentHandler != nil {
		assignments := api.Group("/assignments", jwtMiddleware)
		deps.AssignmentHandler.Register(assignments)

		if deps.SubmissionHandler != nil {
			deps.SubmissionHandler.RegisterAssignmentScoped(assignments)
			deps.SubmissionHandler.Register(api.Group("/submissions", jwtMiddleware))
		}
	}

	if deps.TemplateHandler != nil {
		deps.TemplateHandler.Register(api.Group("/templates", jwtMiddleware))
	}

	if deps.NoticeHandler != nil {
		deps.NoticeHandler.Register(api.Group("/notices", jwtMiddleware))
	}

	if deps.ContactHandler != nil {
		deps.ContactHandler.Register(api.Group("/contacts", jwtMiddleware))
	}

	if deps.PortfolioHandler != nil {
		deps.PortfolioHandler.Register(api.Group("/portfolio", jwtMiddleware))
	}

	admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(models.RoleAdmin))
	if deps.AdminAccountHandler != nil {
		deps.AdminAccountHandler.Register(admin.Group("/accounts"))
	}
	if deps.AdminActivityHandler != nil {
		deps.AdminActivityHandler.Register(admin.Group("/activity"))
	}
}
