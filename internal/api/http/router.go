package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board/internal/api/http/handlers"
	"github.com/spec-kit/job-board/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Jobs          *handlers.JobsHandler
	Applications  *handlers.ApplicationsHandler
	Profiles      *handlers.ProfilesHandler
	Admin         *handlers.AdminHandler
	Authenticator *auth.Authenticator
	Policy        *auth.Policy
}

// RegisterRoutes wires HTTP routes. The authenticator runs on every
// request and never rejects; the policy gate decides 401/403 before any
// handler executes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Authenticator.Handle)
	app.Use(cfg.Policy.Enforce)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/api/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.Auth.Me)

	jobs := app.Group("/api/jobs")
	jobs.Get("/my-listings", cfg.Jobs.MyListings)
	jobs.Get("/", cfg.Jobs.List)
	jobs.Get("/:id", cfg.Jobs.Get)
	jobs.Post("/", cfg.Jobs.Create)
	jobs.Put("/:id", cfg.Jobs.Update)
	jobs.Delete("/:id", cfg.Jobs.Delete)

	apps := app.Group("/api/applications")
	apps.Post("/apply", cfg.Applications.Apply)
	apps.Get("/me", cfg.Applications.Mine)
	apps.Get("/download/:id", cfg.Applications.Download)
	apps.Get("/job/:jobId", cfg.Applications.ForJob)
	apps.Put("/:id/status", cfg.Applications.UpdateStatus)
	apps.Delete("/:id", cfg.Applications.Withdraw)

	profiles := app.Group("/api/profiles")
	profiles.Get("/me", cfg.Profiles.Me)
	profiles.Put("/update", cfg.Profiles.Update)
	profiles.Post("/upload-resume", cfg.Profiles.UploadResume)

	admin := app.Group("/api/admin")
	admin.Get("/stats", cfg.Admin.Stats)
	admin.Post("/import", cfg.Admin.Import)
}
