package planws

import (
	"context"
	"log"
	"time"

	websocket "github.com/gofiber/contrib/websocket"

	"github.com/Sirvey/shapemate-onboarding/internal/models"
)

type planRunner interface {
	GeneratePlan(ctx context.Context, sessionID string) (*models.NutritionPlan, error)
}

// statusMessages rotate on the generating screen while the model call runs.
var statusMessages = []string{
	"Analyzing your goals...",
	"Calculating your maintenance calories...",
	"Balancing your macros...",
	"Finalizing your plan...",
}

type Message struct {
	Type    string                `json:"type"`
	Message string                `json:"message,omitempty"`
	Plan    *models.NutritionPlan `json:"plan,omitempty"`
}

// Streamer drives one plan generation per socket: status messages tick out
// while the call is in flight, the result (or an error) closes the stream.
// A client that disconnects mid-flight cancels the generation, and the late
// result is dropped.
type Streamer struct {
	service  planRunner
	interval time.Duration
}

func NewStreamer(service planRunner) *Streamer {
	return &Streamer{
		service:  service,
		interval: 1500 * time.Millisecond,
	}
}

func (s *Streamer) Handle(conn *websocket.Conn) {
	sessionID, _ := conn.Locals("session_id").(string)
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type outcome struct {
		plan *models.NutritionPlan
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		plan, err := s.service.GeneratePlan(ctx, sessionID)
		done <- outcome{plan: plan, err: err}
	}()

	// The read pump exists only to notice the peer going away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	next := 0
	for {
		select {
		case <-ticker.C:
			msg := Message{Type: "status", Message: statusMessages[next%len(statusMessages)]}
			next++
			if err := conn.WriteJSON(msg); err != nil {
				cancel()
				return
			}
		case result := <-done:
			if result.err != nil {
				log.Printf("plan stream for session %s failed: %v", sessionID, result.err)
				_ = conn.WriteJSON(Message{
					Type:    "error",
					Message: "We could not generate your personalized plan. Please try again.",
				})
				return
			}
			_ = conn.WriteJSON(Message{Type: "plan", Plan: result.plan})
			return
		case <-ctx.Done():
			return
		}
	}
}
