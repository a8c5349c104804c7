package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Sirvey/shapemate-onboarding/internal/models"
	"github.com/Sirvey/shapemate-onboarding/internal/services"
)

type sessionManager interface {
	Create(ctx context.Context, token string) (*services.SessionState, error)
	State(sessionID string) (*services.SessionState, error)
	Patch(sessionID string, patch models.ProfilePatch) (*services.SessionState, error)
	Advance(ctx context.Context, sessionID string) (*services.SessionState, error)
	Retreat(sessionID string) (*services.SessionState, error)
	TriggerPromo(sessionID string) (*services.SessionState, error)
}

type SessionHandler struct {
	service sessionManager
}

func NewSessionHandler(service sessionManager) *SessionHandler {
	return &SessionHandler{service: service}
}

// tokenParamNames are checked in order; the first non-empty match wins.
var tokenParamNames = []string{"token", "t", "auth"}

func linkToken(c *fiber.Ctx) string {
	for _, name := range tokenParamNames {
		if value := strings.TrimSpace(c.Query(name)); value != "" {
			return value
		}
	}
	return ""
}

func sessionID(c *fiber.Ctx) string {
	id, _ := c.Locals("session_id").(string)
	return id
}

func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	token := linkToken(c)
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing token in onboarding link."})
	}

	state, err := h.service.Create(c.Context(), token)
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(state)
}

func (h *SessionHandler) GetStep(c *fiber.Ctx) error {
	state, err := h.service.State(sessionID(c))
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.JSON(state)
}

func (h *SessionHandler) PatchProfile(c *fiber.Ctx) error {
	var patch models.ProfilePatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateProfilePatch(patch); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	state, err := h.service.Patch(sessionID(c), patch)
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.JSON(state)
}

func (h *SessionHandler) Advance(c *fiber.Ctx) error {
	state, err := h.service.Advance(c.Context(), sessionID(c))
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.JSON(state)
}

func (h *SessionHandler) Retreat(c *fiber.Ctx) error {
	state, err := h.service.Retreat(sessionID(c))
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.JSON(state)
}

func (h *SessionHandler) TriggerPromo(c *fiber.Ctx) error {
	state, err := h.service.TriggerPromo(sessionID(c))
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.JSON(state)
}

func mapSessionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidToken):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Could not find a registration for this link."})
	case errors.Is(err, services.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Onboarding session not found"})
	case errors.Is(err, services.ErrSubscriberNotFound):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "No subscriber record exists for this registration"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unexpected error while saving onboarding data"})
	}
}
