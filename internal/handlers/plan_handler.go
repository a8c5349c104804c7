package handlers

import (
	"context"
	"errors"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/Sirvey/shapemate-onboarding/internal/models"
	"github.com/Sirvey/shapemate-onboarding/internal/services"
)

type planRunner interface {
	GeneratePlan(ctx context.Context, sessionID string) (*models.NutritionPlan, error)
}

type planStreamer interface {
	Handle(conn *websocket.Conn)
}

type PlanHandler struct {
	service  planRunner
	streamer planStreamer
}

func NewPlanHandler(service planRunner, streamer planStreamer) *PlanHandler {
	return &PlanHandler{service: service, streamer: streamer}
}

// GeneratePlan runs one synchronous generation attempt for the results
// step. Failures are reported inline; the client may re-invoke the action.
func (h *PlanHandler) GeneratePlan(c *fiber.Ctx) error {
	plan, err := h.service.GeneratePlan(c.Context(), sessionID(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Onboarding session not found"})
		case errors.Is(err, services.ErrPlanUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Plan generation is not configured"})
		default:
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "We could not generate your personalized plan. Please try again."})
		}
	}
	return c.JSON(fiber.Map{"plan": plan})
}

// StreamUpgrade gates the websocket route.
func (h *PlanHandler) StreamUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}
	return c.Next()
}

func (h *PlanHandler) HandleStream(conn *websocket.Conn) {
	h.streamer.Handle(conn)
}
