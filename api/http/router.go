package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smartadvisor/backend/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, query *handlers.QueryHandler, contextH *handlers.ContextHandler, presets *handlers.PresetHandler, conversations *handlers.ConversationHandler, health *handlers.HealthHandler) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", health.Health)
	v1.Get("/ready", health.Ready)

	v1.Post("/query", query.Process)

	v1.Get("/context", contextH.Get)
	v1.Post("/context", contextH.Update)
	v1.Delete("/context", contextH.Clear)

	p := v1.Group("/presets")
	p.Get("/", presets.List)
	p.Post("/", presets.Create)
	p.Post("/:name/apply", presets.Apply)
	p.Delete("/:name", presets.Delete)

	cv := v1.Group("/conversations")
	cv.Get("/:session_id", conversations.Get)
	cv.Delete("/:session_id", conversations.Delete)
}
