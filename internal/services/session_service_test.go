package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/Sirvey/shapemate-onboarding/internal/flow"
	"github.com/Sirvey/shapemate-onboarding/internal/models"
)

type stubResolver struct {
	sender    string
	err       error
	lastToken string
}

func (r *stubResolver) ResolveSender(_ context.Context, token string) (string, error) {
	r.lastToken = token
	if r.err != nil {
		return "", r.err
	}
	return r.sender, nil
}

type stubSubmitter struct {
	err        error
	calls      int
	lastSender string
	lastDiet   string
}

func (s *stubSubmitter) Submit(_ context.Context, sender string, profile *models.Profile) error {
	s.calls++
	s.lastSender = sender
	s.lastDiet = profile.Diet
	return s.err
}

type stubGenerator struct {
	plan   *models.NutritionPlan
	err    error
	cancel context.CancelFunc
}

func (g *stubGenerator) Generate(_ context.Context, _ *models.Profile) (*models.NutritionPlan, error) {
	if g.cancel != nil {
		g.cancel()
	}
	return g.plan, g.err
}

func newTestService(resolver *stubResolver, submitter *stubSubmitter, generator PlanGenerator) *SessionService {
	return NewSessionService(resolver, submitter, generator)
}

func mustCreate(t *testing.T, service *SessionService) *SessionState {
	t.Helper()
	state, err := service.Create(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return state
}

func advanceTo(t *testing.T, service *SessionService, sessionID string, step flow.Step) *SessionState {
	t.Helper()
	state, err := service.State(sessionID)
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	for state.Step != step {
		state, err = service.Advance(context.Background(), sessionID)
		if err != nil {
			t.Fatalf("Advance failed at %s: %v", state.Step, err)
		}
		if state.Completed {
			t.Fatalf("Hit terminal state before reaching %s", step)
		}
	}
	return state
}

func TestCreateRequiresResolvableToken(t *testing.T) {
	service := newTestService(&stubResolver{err: pgx.ErrNoRows}, &stubSubmitter{}, nil)

	if _, err := service.Create(context.Background(), ""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for empty token, got %v", err)
	}
	if _, err := service.Create(context.Background(), "bogus"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for unknown token, got %v", err)
	}
}

func TestCreateOpensSessionAtFirstStep(t *testing.T) {
	resolver := &stubResolver{sender: "abc123"}
	service := newTestService(resolver, &stubSubmitter{}, nil)

	state := mustCreate(t, service)
	if state.SessionID == "" {
		t.Error("Expected a session ID")
	}
	if state.Step != flow.StepWelcome || state.Progress != 0 {
		t.Errorf("Expected WELCOME at 0%%, got %s at %d%%", state.Step, state.Progress)
	}
	if resolver.lastToken != "tok-1" {
		t.Errorf("Expected token to reach the resolver, got %q", resolver.lastToken)
	}
}

func TestOperationsOnUnknownSession(t *testing.T) {
	service := newTestService(&stubResolver{sender: "abc123"}, &stubSubmitter{}, nil)

	if _, err := service.State("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound from State, got %v", err)
	}
	if _, err := service.Patch("nope", models.ProfilePatch{}); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound from Patch, got %v", err)
	}
	if _, err := service.Advance(context.Background(), "nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound from Advance, got %v", err)
	}
}

func TestPatchMutatesProfile(t *testing.T) {
	service := newTestService(&stubResolver{sender: "abc123"}, &stubSubmitter{}, nil)
	state := mustCreate(t, service)

	diet := "Vegan"
	patched, err := service.Patch(state.SessionID, models.ProfilePatch{Diet: &diet})
	if err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	if patched.Profile.Diet != "Vegan" {
		t.Errorf("Expected patched diet, got %q", patched.Profile.Diet)
	}
}

func TestAdvanceRunsPersistenceAtCheckpoint(t *testing.T) {
	submitter := &stubSubmitter{}
	service := newTestService(&stubResolver{sender: "abc123"}, submitter, nil)
	state := mustCreate(t, service)

	diet := "Vegan"
	if _, err := service.Patch(state.SessionID, models.ProfilePatch{Diet: &diet}); err != nil {
		t.Fatalf("Patch failed: %v", err)
	}

	advanceTo(t, service, state.SessionID, flow.StepEmailSignup)
	if submitter.calls != 0 {
		t.Fatalf("Expected no submit before the checkpoint advance, got %d", submitter.calls)
	}

	next, err := service.Advance(context.Background(), state.SessionID)
	if err != nil {
		t.Fatalf("Advance at checkpoint failed: %v", err)
	}
	if submitter.calls != 1 || submitter.lastSender != "abc123" || submitter.lastDiet != "Vegan" {
		t.Errorf("Expected one submit for abc123 with the patched profile, got %+v", submitter)
	}
	if next.Step != flow.StepPaywallHook {
		t.Errorf("Expected PAYWALL_HOOK after the checkpoint, got %s", next.Step)
	}
}

func TestAdvanceBlocksWhenPersistenceFails(t *testing.T) {
	submitter := &stubSubmitter{err: errors.New("backend down")}
	service := newTestService(&stubResolver{sender: "abc123"}, submitter, nil)
	state := mustCreate(t, service)

	advanceTo(t, service, state.SessionID, flow.StepEmailSignup)

	if _, err := service.Advance(context.Background(), state.SessionID); err == nil {
		t.Fatal("Expected the checkpoint advance to fail")
	}
	current, err := service.State(state.SessionID)
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if current.Step != flow.StepEmailSignup {
		t.Errorf("Expected to stay at the checkpoint, got %s", current.Step)
	}

	// Retrying the same action re-runs the whole sequence.
	submitter.err = nil
	next, err := service.Advance(context.Background(), state.SessionID)
	if err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if submitter.calls != 2 || next.Step != flow.StepPaywallHook {
		t.Errorf("Expected retry to submit again and advance, calls=%d step=%s", submitter.calls, next.Step)
	}
}

func TestAdvanceReportsCompletionAtLastStep(t *testing.T) {
	service := newTestService(&stubResolver{sender: "abc123"}, &stubSubmitter{}, nil)
	state := mustCreate(t, service)

	advanceTo(t, service, state.SessionID, flow.StepPaywallHook)

	final, err := service.Advance(context.Background(), state.SessionID)
	if err != nil {
		t.Fatalf("Terminal advance failed: %v", err)
	}
	if !final.Completed {
		t.Error("Expected completion at the last index")
	}
	if final.Step != flow.StepPaywallHook {
		t.Errorf("Expected the index to stay at the last step, got %s", final.Step)
	}
}

func TestRetreatAndPromoLatch(t *testing.T) {
	service := newTestService(&stubResolver{sender: "abc123"}, &stubSubmitter{}, nil)
	state := mustCreate(t, service)

	if _, err := service.Advance(context.Background(), state.SessionID); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	back, err := service.Retreat(state.SessionID)
	if err != nil {
		t.Fatalf("Retreat failed: %v", err)
	}
	if back.Step != flow.StepWelcome {
		t.Errorf("Expected WELCOME after retreat, got %s", back.Step)
	}

	promo, err := service.TriggerPromo(state.SessionID)
	if err != nil {
		t.Fatalf("TriggerPromo failed: %v", err)
	}
	if promo.Step != flow.StepPaywallPromo {
		t.Errorf("Expected promo override, got %s", promo.Step)
	}
	after, err := service.Retreat(state.SessionID)
	if err != nil {
		t.Fatalf("Retreat failed: %v", err)
	}
	if after.Step != flow.StepPaywallPromo {
		t.Error("Expected the promo latch to survive navigation")
	}
}

func TestGeneratePlanStoresResult(t *testing.T) {
	plan := &models.NutritionPlan{MaintenanceCalories: 2200, TargetCalories: 1800}
	service := newTestService(&stubResolver{sender: "abc123"}, &stubSubmitter{}, &stubGenerator{plan: plan})
	state := mustCreate(t, service)

	got, err := service.GeneratePlan(context.Background(), state.SessionID)
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}
	if got.TargetCalories != 1800 {
		t.Errorf("Expected target 1800, got %v", got.TargetCalories)
	}

	current, err := service.State(state.SessionID)
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if current.Profile.Plan == nil || current.Plan.TargetCalories != 1800 {
		t.Error("Expected the plan to be stored in the profile")
	}
}

func TestGeneratePlanKeepsProfileOnFailure(t *testing.T) {
	service := newTestService(&stubResolver{sender: "abc123"}, &stubSubmitter{}, &stubGenerator{err: errors.New("model error")})
	state := mustCreate(t, service)

	if _, err := service.GeneratePlan(context.Background(), state.SessionID); err == nil {
		t.Fatal("Expected GeneratePlan to fail")
	}
	current, _ := service.State(state.SessionID)
	if current.Profile.Plan != nil {
		t.Error("Expected no plan after a failed generation")
	}
	if current.Plan != (models.NutritionPlan{}) {
		t.Error("Expected a zero plan snapshot after a failed generation")
	}
}

func TestGeneratePlanDropsLateResultAfterCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	generator := &stubGenerator{
		plan:   &models.NutritionPlan{TargetCalories: 1800},
		cancel: cancel,
	}
	service := newTestService(&stubResolver{sender: "abc123"}, &stubSubmitter{}, generator)
	state := mustCreate(t, service)

	if _, err := service.GeneratePlan(ctx, state.SessionID); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	current, _ := service.State(state.SessionID)
	if current.Profile.Plan != nil {
		t.Error("Expected a late result to never mutate session state")
	}
}

func TestGeneratePlanWithoutGenerator(t *testing.T) {
	service := newTestService(&stubResolver{sender: "abc123"}, &stubSubmitter{}, nil)
	state := mustCreate(t, service)

	if _, err := service.GeneratePlan(context.Background(), state.SessionID); !errors.Is(err, ErrPlanUnavailable) {
		t.Errorf("Expected ErrPlanUnavailable, got %v", err)
	}
}
