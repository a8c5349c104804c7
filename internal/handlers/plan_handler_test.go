package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/Sirvey/shapemate-onboarding/internal/models"
	"github.com/Sirvey/shapemate-onboarding/internal/services"
)

type stubPlanRunner struct {
	plan   *models.NutritionPlan
	err    error
	lastID string
}

func (s *stubPlanRunner) GeneratePlan(_ context.Context, sessionID string) (*models.NutritionPlan, error) {
	s.lastID = sessionID
	return s.plan, s.err
}

func newPlanApp(service *stubPlanRunner) *fiber.App {
	handler := NewPlanHandler(service, nil)
	app := fiber.New()
	app.Post("/plan", func(c *fiber.Ctx) error {
		c.Locals("session_id", "sess-1")
		return handler.GeneratePlan(c)
	})
	return app
}

func TestGeneratePlanReturnsPlan(t *testing.T) {
	service := &stubPlanRunner{plan: &models.NutritionPlan{TargetCalories: 1800}}
	app := newPlanApp(service)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/plan", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
	if service.lastID != "sess-1" {
		t.Errorf("Expected session ID sess-1, got %q", service.lastID)
	}
}

func TestGeneratePlanMapsErrors(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.ErrSessionNotFound, http.StatusNotFound},
		{services.ErrPlanUnavailable, http.StatusServiceUnavailable},
		{errors.New("model blew up"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		app := newPlanApp(&stubPlanRunner{err: tc.err})
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/plan", nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != tc.want {
			t.Errorf("Expected %d for %v, got %d", tc.want, tc.err, resp.StatusCode)
		}
	}
}
