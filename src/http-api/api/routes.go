package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

func RegisterRoutes(app *fiber.App, s *APIServer) {
	app.Get("/health", s.GetHealth)
	app.Get("/metrics", adaptor.HTTPHandler(s.Metrics.Handler()))

	app.Post("/format", s.PostFormat)

	ref := app.Group("/reference")
	ref.Get("/operators/:code", s.GetOperator)
	ref.Get("/stations/:code", s.GetStation)
}
