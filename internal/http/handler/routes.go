package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"loanapi/internal/service"
)

// Welcome handles POST /api/.
func Welcome() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return writeSuccessMessage(c, msgWelcome)
	}
}

// LivenessProbe handles GET /health-check: process-up only, no dependencies.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return writeSuccessMessage(c, msgRunning)
	}
}

// HealthCheck handles GET /health: checks DB connectivity only.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeErrorMessage(c, fiber.StatusServiceUnavailable, msgUnavailable)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers free of business logic; they validate, delegate and shape
// the response envelope.
func RegisterRoutes(app *fiber.App, db *sql.DB, loanSvc service.LoanService) {
	app.Get("/health-check", LivenessProbe())
	app.Get("/health", HealthCheck(db))

	api := app.Group("/api")
	api.Post("/", Welcome())

	// summary must be registered before :id so "summary" is not read as an id
	api.Get("/loans/summary", LoanSummary(loanSvc))
	api.Post("/loans", CreateLoan(loanSvc))
	api.Get("/loans", ListLoans(loanSvc))
	api.Get("/loans/:id", GetLoan(loanSvc))
	api.Put("/loans/:id", UpdateLoan(loanSvc))
	api.Delete("/loans/:id", DeleteLoan(loanSvc))
}
