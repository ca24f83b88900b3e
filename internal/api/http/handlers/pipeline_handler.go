package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
)

// PipelineHandler exposes pipeline introspection for operators.
type PipelineHandler struct {
	bus     *events.Bus
	metrics *observability.Metrics
}

// NewPipelineHandler returns a new handler instance.
func NewPipelineHandler(bus *events.Bus, metrics *observability.Metrics) *PipelineHandler {
	return &PipelineHandler{bus: bus, metrics: metrics}
}

// Queue reports the event queue depth and pipeline counters. The bus is
// unbounded, so depth is the number to watch when the dispatcher lags.
func (h *PipelineHandler) Queue(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"queue_depth": h.bus.Depth(),
		"counters":    h.metrics.Snapshot(),
	})
}
