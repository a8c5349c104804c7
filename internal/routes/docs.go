package routes

import (
	"github.com/gofiber/fiber/v2"
)

type docEndpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

var docEndpoints = []docEndpoint{
	{"POST", "/api/v1/sessions", "Open an onboarding session from a one-time link token (?token=, ?t= or ?auth=)"},
	{"GET", "/api/v1/sessions/current/step", "Current step, progress and profile snapshot"},
	{"PATCH", "/api/v1/sessions/current/profile", "Merge form answers into the profile"},
	{"POST", "/api/v1/sessions/current/advance", "Advance one step; persists the profile at the email-signup checkpoint"},
	{"POST", "/api/v1/sessions/current/retreat", "Go back one step"},
	{"POST", "/api/v1/sessions/current/promo", "Set the exit-intent promo override"},
	{"POST", "/api/v1/sessions/current/plan", "Generate the nutrition plan (results step)"},
	{"GET", "/api/v1/sessions/current/plan/stream", "Websocket: status messages while the plan generates"},
	{"GET", "/api/v1/referral/:code", "Validate a referral code"},
	{"GET", "/api/v1/checkout/:tier", "Redirect to the payment link for a plan tier"},
}

// registerDocsRoutes serves a machine-readable endpoint listing. Only wired
// up in development with ENABLE_API_DOCS set.
func registerDocsRoutes(app fiber.Router) {
	app.Get("/docs", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":   "shapemate-onboarding",
			"endpoints": docEndpoints,
		})
	})
}
