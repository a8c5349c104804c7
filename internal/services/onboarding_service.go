package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Sirvey/shapemate-onboarding/internal/models"
	"github.com/Sirvey/shapemate-onboarding/internal/repository"
	"github.com/Sirvey/shapemate-onboarding/pkg/units"
)

// pendingSubscriptionTier marks a subscriber who finished onboarding but has
// not gone through checkout yet.
const pendingSubscriptionTier = "premium_pending"

type subscriberWriter interface {
	UpdateOnboarding(ctx context.Context, sender string, input repository.SubscriberOnboardingInput) error
	UpdateOnboardingWithPlan(ctx context.Context, sender string, input repository.SubscriberOnboardingInput, plan repository.SubscriberPlanInput) error
}

type weightLogWriter interface {
	Insert(ctx context.Context, sender string, weightKg float64) error
}

type reminderWriter interface {
	SetActive(ctx context.Context, sender, reminderType string, active bool) error
}

// OnboardingService writes the collected profile to the backend at the
// checkpoint step.
type OnboardingService struct {
	subscribers subscriberWriter
	weights     weightLogWriter
	reminders   reminderWriter
}

func NewOnboardingService(
	subscribers subscriberWriter,
	weights weightLogWriter,
	reminders reminderWriter,
) *OnboardingService {
	return &OnboardingService{
		subscribers: subscribers,
		weights:     weights,
		reminders:   reminders,
	}
}

// Submit runs the checkpoint write sequence: base-record update, weight-log
// insert when a weight was captured, then the three reminder updates. The
// sequence is not transactional: the first failure aborts the rest, writes
// already applied stay, and a retry re-runs everything. Only the weight
// insert is non-idempotent; a retry after partial success may duplicate it.
func (s *OnboardingService) Submit(ctx context.Context, sender string, profile *models.Profile) error {
	if strings.TrimSpace(sender) == "" {
		return ErrInvalidToken
	}

	input := buildSubscriberInput(profile)

	var err error
	if profile.Plan != nil {
		err = s.subscribers.UpdateOnboardingWithPlan(ctx, sender, input, repository.SubscriberPlanInput{
			TargetCalories:   int(math.Round(profile.Plan.TargetCalories)),
			CarbsGrams:       int(math.Round(profile.Plan.CarbsGrams)),
			ProteinGrams:     int(math.Round(profile.Plan.ProteinGrams)),
			FatsGrams:        int(math.Round(profile.Plan.FatsGrams)),
			SubscriptionTier: pendingSubscriptionTier,
		})
	} else {
		err = s.subscribers.UpdateOnboarding(ctx, sender, input)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSubscriberNotFound
		}
		return fmt.Errorf("update subscriber record: %w", err)
	}

	if weightKg, ok := units.WeightToKilograms(profile.Weight.Value, profile.Weight.Unit); ok {
		if err := s.weights.Insert(ctx, sender, weightKg); err != nil {
			return fmt.Errorf("insert weight entry: %w", err)
		}
	}

	reminderUpdates := []struct {
		kind   string
		active bool
	}{
		{"weighing", profile.Notifications.Weighing},
		{"meal", profile.Notifications.Meal},
		{"workout", profile.Notifications.Workout},
	}
	for _, reminder := range reminderUpdates {
		if err := s.reminders.SetActive(ctx, sender, reminder.kind, reminder.active); err != nil {
			return fmt.Errorf("update %s reminder: %w", reminder.kind, err)
		}
	}

	return nil
}

func buildSubscriberInput(profile *models.Profile) repository.SubscriberOnboardingInput {
	input := repository.SubscriberOnboardingInput{
		Name:           strings.TrimSpace(profile.FirstName + " " + profile.LastName),
		ReferralSource: profile.Source,
		Diet:           profile.Diet,
		ReferralCode:   profile.ReferralCode,
		Email:          profile.Email,
	}
	if code, ok := units.GenderCode(profile.Gender); ok {
		input.GenderCode = &code
	}
	if cm, ok := units.HeightToCentimeters(profile.Height.Value, profile.Height.Unit); ok {
		input.HeightCm = &cm
	}
	if birthDate := strings.TrimSpace(profile.BirthDate); birthDate != "" {
		input.BirthDate = &birthDate
	}
	if code, ok := units.GoalCode(profile.Goal); ok {
		input.GoalCode = &code
	}
	return input
}
