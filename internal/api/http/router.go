package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Pipeline *handlers.PipelineHandler
}

// RegisterRoutes wires the ops HTTP routes. The service has no business
// request surface; ticket CRUD lives in a separate collaborator.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/ops/queue", cfg.Pipeline.Queue)
}
