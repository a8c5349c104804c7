package flow

import "testing"

func TestFlowHasNoDuplicateSteps(t *testing.T) {
	seen := map[Step]int{}
	for i, step := range Flow {
		if prev, ok := seen[step]; ok {
			t.Errorf("Step %s appears at both index %d and %d", step, prev, i)
		}
		seen[step] = i
	}
}

func TestAdvanceWalksToTerminalState(t *testing.T) {
	nav := NewNavigator()
	if nav.Current() != StepWelcome {
		t.Fatalf("Expected initial step WELCOME, got %s", nav.Current())
	}

	for i := 0; i < len(Flow)-1; i++ {
		if completed := nav.Advance(); completed {
			t.Fatalf("Unexpected completion at index %d", i)
		}
	}
	if nav.Current() != StepPaywallHook {
		t.Fatalf("Expected last step PAYWALL_HOOK, got %s", nav.Current())
	}

	// Advancing at the last index reports completion and stays put.
	if completed := nav.Advance(); !completed {
		t.Error("Expected completion at the last index")
	}
	if nav.Index() != len(Flow)-1 {
		t.Errorf("Expected index to stay at %d, got %d", len(Flow)-1, nav.Index())
	}
	if completed := nav.Advance(); !completed {
		t.Error("Expected repeated advance at the last index to keep reporting completion")
	}
}

func TestRetreatStopsAtFirstStep(t *testing.T) {
	nav := NewNavigator()
	nav.Retreat()
	if nav.Index() != 0 {
		t.Errorf("Expected retreat at index 0 to be a no-op, got index %d", nav.Index())
	}

	nav.Advance()
	nav.Advance()
	nav.Retreat()
	if nav.Current() != StepName {
		t.Errorf("Expected NAME after advance twice and retreat once, got %s", nav.Current())
	}
}

func TestPromoLatchIsOneWay(t *testing.T) {
	nav := NewNavigator()
	nav.Advance()
	nav.TriggerPromo()

	if nav.Current() != StepPaywallPromo {
		t.Fatalf("Expected promo override, got %s", nav.Current())
	}

	nav.Advance()
	nav.Retreat()
	if nav.Current() != StepPaywallPromo {
		t.Error("Expected the promo latch to survive navigation")
	}
}

func TestAtCheckpoint(t *testing.T) {
	nav := NewNavigator()
	for nav.Current() != Checkpoint {
		if completed := nav.Advance(); completed {
			t.Fatal("Reached terminal state before the checkpoint step")
		}
	}
	if !nav.AtCheckpoint() {
		t.Error("Expected AtCheckpoint at EMAIL_SIGNUP")
	}
	nav.Advance()
	if nav.AtCheckpoint() {
		t.Error("Expected AtCheckpoint to clear after advancing")
	}
}

func TestProgressPercent(t *testing.T) {
	cases := []struct {
		index int
		want  int
	}{
		{0, 0},
		{1, 6},
		{9, 50},
		{14, 78},
		{17, 94},
	}
	for _, tc := range cases {
		nav := NewNavigator()
		for i := 0; i < tc.index; i++ {
			nav.Advance()
		}
		if got := nav.ProgressPercent(); got != tc.want {
			t.Errorf("ProgressPercent at index %d = %d, want %d", tc.index, got, tc.want)
		}
	}
}
