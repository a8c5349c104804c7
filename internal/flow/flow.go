package flow

import "math"

// Step identifies one wizard screen.
type Step string

const (
	StepWelcome       Step = "WELCOME"
	StepName          Step = "NAME"
	StepGender        Step = "GENDER"
	StepWorkouts      Step = "WORKOUTS"
	StepSource        Step = "SOURCE"
	StepMeasurements  Step = "MEASUREMENTS"
	StepBirthday      Step = "BIRTHDAY"
	StepGoal          Step = "GOAL"
	StepDiet          Step = "DIET"
	StepTrust         Step = "TRUST"
	StepConnectApps   Step = "CONNECT_APPS"
	StepRating        Step = "RATING"
	StepNotifications Step = "NOTIFICATIONS"
	StepReferral      Step = "REFERRAL"
	StepResults       Step = "RESULTS"
	StepDashboard     Step = "DASHBOARD"
	StepEmailSignup   Step = "EMAIL_SIGNUP"
	StepPaywallHook   Step = "PAYWALL_HOOK"

	// StepPaywallPromo is reachable only through the exit-intent latch,
	// never through the flow table.
	StepPaywallPromo Step = "PAYWALL_PROMO"
)

// Flow is the fixed ordered wizard sequence. The plan is generated at
// RESULTS; EMAIL_SIGNUP is the persistence checkpoint.
var Flow = []Step{
	StepWelcome,
	StepName,
	StepGender,
	StepWorkouts,
	StepSource,
	StepMeasurements,
	StepBirthday,
	StepGoal,
	StepDiet,
	StepTrust,
	StepConnectApps,
	StepRating,
	StepNotifications,
	StepReferral,
	StepResults,
	StepDashboard,
	StepEmailSignup,
	StepPaywallHook,
}

// Checkpoint is the step whose advance triggers the remote writes.
const Checkpoint = StepEmailSignup

// progressSteps is the fixed denominator of the visible progress bar.
const progressSteps = 18

// Navigator walks the flow table. It is not safe for concurrent use; the
// owning session serializes access.
type Navigator struct {
	index int
	promo bool
}

func NewNavigator() *Navigator {
	return &Navigator{}
}

// Current returns the step at the index, unless the promo latch is set.
func (n *Navigator) Current() Step {
	if n.promo {
		return StepPaywallPromo
	}
	return Flow[n.index]
}

// AtCheckpoint reports whether advancing now requires persistence first.
func (n *Navigator) AtCheckpoint() bool {
	return n.Current() == Checkpoint
}

// Advance moves one step forward and reports whether the flow has already
// reached its terminal state. At the last index the flow is complete and the
// index stays put.
func (n *Navigator) Advance() bool {
	if n.index < len(Flow)-1 {
		n.index++
		return false
	}
	return true
}

// Retreat moves one step back; a no-op at the first step.
func (n *Navigator) Retreat() {
	if n.index > 0 {
		n.index--
	}
}

// TriggerPromo sets the exit-intent override. The latch is one-way:
// navigation never clears it.
func (n *Navigator) TriggerPromo() {
	n.promo = true
}

// Index returns the zero-based position in the flow table.
func (n *Navigator) Index() int {
	return n.index
}

// ProgressPercent maps the index onto the visible progress bar.
func (n *Navigator) ProgressPercent() int {
	percent := int(math.Round(float64(n.index) / progressSteps * 100))
	if percent > 100 {
		percent = 100
	}
	return percent
}
