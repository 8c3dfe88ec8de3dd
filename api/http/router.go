package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/openboard/backend/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App,
	auth *handlers.AuthHandler,
	health *handlers.HealthHandler,
	jobs *handlers.JobHandler,
	admin *handlers.AdminHandler,
	applications *handlers.ApplicationHandler,
	authMW fiber.Handler,
	optionalAuthMW fiber.Handler,
) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", health.Health)
	v1.Get("/ready", health.Ready)

	a := v1.Group("/auth")
	a.Post("/register", auth.Register)
	a.Post("/login", auth.Login)
	a.Post("/refresh", auth.Refresh)
	a.Post("/logout", auth.Logout)
	a.Get("/me", authMW, auth.Me)
	a.Post("/onboarding", authMW, auth.CompleteOnboarding)

	// Public board; a token, when present, lets owners and admins see
	// their unpublished postings.
	v1.Get("/jobs", jobs.List)
	v1.Get("/jobs/:id", optionalAuthMW, jobs.Get)

	// Employer mutations
	v1.Post("/jobs", authMW, jobs.Create)
	v1.Put("/jobs/:id", authMW, jobs.Update)
	v1.Post("/jobs/:id/close", authMW, jobs.Close)
	v1.Get("/employer/jobs", authMW, jobs.ListMine)

	// Applications
	v1.Post("/jobs/:id/applications", authMW, applications.Submit)
	v1.Get("/employer/jobs/:id/applications", authMW, applications.ListForJob)
	v1.Get("/applications/:id/resume", authMW, applications.Resume)
	v1.Patch("/applications/:id/status", authMW, applications.SetStatus)
	v1.Get("/seeker/applications", authMW, applications.ListMine)

	// Moderation
	adm := v1.Group("/admin", authMW)
	adm.Get("/jobs/pending", admin.ListPending)
	adm.Post("/jobs/:id/approve", admin.Approve)
	adm.Post("/jobs/:id/reject", admin.Reject)
	adm.Put("/users/:id/role", admin.OverrideRole)
}
