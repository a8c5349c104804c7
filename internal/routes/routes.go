package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sirvey/shapemate-onboarding/internal/config"
	"github.com/Sirvey/shapemate-onboarding/internal/handlers"
	"github.com/Sirvey/shapemate-onboarding/internal/middleware"
	"github.com/Sirvey/shapemate-onboarding/internal/repository"
	"github.com/Sirvey/shapemate-onboarding/internal/services"
	planws "github.com/Sirvey/shapemate-onboarding/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) error {
	tokenRepo := repository.NewRegistrationTokenRepository(db)
	subscriberRepo := repository.NewSubscriberRepository(db)
	weightRepo := repository.NewWeightLogRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	referralRepo := repository.NewReferralCodeRepository(db)

	onboardingService := services.NewOnboardingService(subscriberRepo, weightRepo, reminderRepo)
	var planGenerator services.PlanGenerator
	if cfg.GeminiAPIKey != "" {
		planGenerator = services.NewGeminiPlanGenerator(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey)
	}
	sessionService := services.NewSessionService(tokenRepo, onboardingService, planGenerator)
	streamer := planws.NewStreamer(sessionService)

	sessionHandler := handlers.NewSessionHandler(sessionService)
	planHandler := handlers.NewPlanHandler(sessionService, streamer)
	referralHandler := handlers.NewReferralHandler(referralRepo)
	checkoutHandler := handlers.NewCheckoutHandler()

	api := app.Group("/api/v1")

	api.Post("/sessions", sessionHandler.CreateSession)

	current := api.Group("/sessions/current", middleware.SessionRequired())
	current.Get("/step", sessionHandler.GetStep)
	current.Patch("/profile", sessionHandler.PatchProfile)
	current.Post("/advance", sessionHandler.Advance)
	current.Post("/retreat", sessionHandler.Retreat)
	current.Post("/promo", sessionHandler.TriggerPromo)
	current.Post("/plan", planHandler.GeneratePlan)
	current.Get("/plan/stream", planHandler.StreamUpgrade, websocket.New(planHandler.HandleStream))

	api.Get("/referral/:code", referralHandler.Validate)
	api.Get("/checkout/:tier", checkoutHandler.Redirect)

	if cfg.DocsEnabled() {
		registerDocsRoutes(app)
	}
	return nil
}
