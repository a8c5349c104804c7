package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Sirvey/shapemate-onboarding/internal/flow"
	"github.com/Sirvey/shapemate-onboarding/internal/models"
)

var (
	ErrInvalidToken       = errors.New("invalid registration token")
	ErrSessionNotFound    = errors.New("onboarding session not found")
	ErrSubscriberNotFound = errors.New("subscriber record not found")
	ErrPlanUnavailable    = errors.New("plan generation is not configured")
)

type senderResolver interface {
	ResolveSender(ctx context.Context, token string) (string, error)
}

type profileSubmitter interface {
	Submit(ctx context.Context, sender string, profile *models.Profile) error
}

// OnboardingSession owns one visitor's profile and navigator. Each session
// has its own lock; all mutation goes through SessionService methods.
type OnboardingSession struct {
	id     string
	sender string

	mu      sync.Mutex
	profile *models.Profile
	nav     *flow.Navigator
}

// SessionState is the snapshot handed to clients after every operation.
// Plan is zero-valued until generation succeeds so the dashboard can render
// placeholders without nil checks.
type SessionState struct {
	SessionID string               `json:"session_id"`
	Step      flow.Step            `json:"step"`
	Progress  int                  `json:"progress"`
	Completed bool                 `json:"completed"`
	Profile   models.Profile       `json:"profile"`
	Plan      models.NutritionPlan `json:"plan"`
}

// SessionService is the in-memory registry of live onboarding sessions.
type SessionService struct {
	tokens     senderResolver
	onboarding profileSubmitter
	plans      PlanGenerator

	mu       sync.RWMutex
	sessions map[string]*OnboardingSession
}

func NewSessionService(tokens senderResolver, onboarding profileSubmitter, plans PlanGenerator) *SessionService {
	return &SessionService{
		tokens:     tokens,
		onboarding: onboarding,
		plans:      plans,
		sessions:   make(map[string]*OnboardingSession),
	}
}

// Create resolves the one-time link token to a sender key and opens a
// session for it. Without a resolvable token there is no session at all.
func (s *SessionService) Create(ctx context.Context, token string) (*SessionState, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidToken
	}

	sender, err := s.tokens.ResolveSender(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("resolve sender: %w", err)
	}

	session := &OnboardingSession{
		id:      uuid.NewString(),
		sender:  sender,
		profile: models.NewProfile(),
		nav:     flow.NewNavigator(),
	}

	s.mu.Lock()
	s.sessions[session.id] = session
	s.mu.Unlock()

	session.mu.Lock()
	defer session.mu.Unlock()
	return session.snapshot(false), nil
}

// State returns the current step, progress and profile snapshot.
func (s *SessionService) State(sessionID string) (*SessionState, error) {
	session, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.snapshot(false), nil
}

// Patch is the single authorized mutation entry point for profile fields.
func (s *SessionService) Patch(sessionID string, patch models.ProfilePatch) (*SessionState, error) {
	session, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.profile.Apply(patch)
	return session.snapshot(false), nil
}

// Advance moves the wizard forward. At the checkpoint step the persistence
// sequence runs first; if it fails the step does not change and the caller
// may retry the same action.
func (s *SessionService) Advance(ctx context.Context, sessionID string) (*SessionState, error) {
	session, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.nav.AtCheckpoint() {
		if err := s.onboarding.Submit(ctx, session.sender, session.profile); err != nil {
			return nil, err
		}
	}

	completed := session.nav.Advance()
	return session.snapshot(completed), nil
}

// Retreat steps back one screen; a no-op at the first step.
func (s *SessionService) Retreat(sessionID string) (*SessionState, error) {
	session, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.nav.Retreat()
	return session.snapshot(false), nil
}

// TriggerPromo sets the exit-intent override latch.
func (s *SessionService) TriggerPromo(sessionID string) (*SessionState, error) {
	session, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.nav.TriggerPromo()
	return session.snapshot(false), nil
}

// GeneratePlan runs one generation attempt against a profile snapshot and
// stores the result. A context cancelled before the result lands means the
// results screen was torn down; the late response must not mutate session
// state.
func (s *SessionService) GeneratePlan(ctx context.Context, sessionID string) (*models.NutritionPlan, error) {
	if s.plans == nil {
		return nil, ErrPlanUnavailable
	}
	session, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	snapshot := *session.profile
	session.mu.Unlock()

	plan, err := s.plans.Generate(ctx, &snapshot)
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	session.mu.Lock()
	session.profile.Plan = plan
	session.mu.Unlock()
	return plan, nil
}

func (s *SessionService) get(sessionID string) (*OnboardingSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// snapshot requires the session lock to be held.
func (session *OnboardingSession) snapshot(completed bool) *SessionState {
	return &SessionState{
		SessionID: session.id,
		Step:      session.nav.Current(),
		Progress:  session.nav.ProgressPercent(),
		Completed: completed,
		Profile:   *session.profile,
		Plan:      session.profile.PlanOrZero(),
	}
}
