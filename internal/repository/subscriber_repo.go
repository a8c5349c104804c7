package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type SubscriberRepository struct {
	db DBTX
}

func NewSubscriberRepository(db DBTX) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// SubscriberOnboardingInput carries the base-record fields written at the
// checkpoint. Nullable columns use pointers; nil writes NULL.
type SubscriberOnboardingInput struct {
	Name           string
	GenderCode     *string
	ReferralSource string
	HeightCm       *float64
	BirthDate      *string
	GoalCode       *string
	Diet           string
	ReferralCode   string
	Email          string
}

// SubscriberPlanInput is the extra column set written when a nutrition plan
// was generated before the checkpoint.
type SubscriberPlanInput struct {
	TargetCalories   int
	CarbsGrams       int
	ProteinGrams     int
	FatsGrams        int
	SubscriptionTier string
}

// UpdateOnboarding patches the subscriber's pre-existing base record. The
// row is created by the external registration process, never here; a miss
// surfaces as pgx.ErrNoRows.
func (r *SubscriberRepository) UpdateOnboarding(ctx context.Context, sender string, input SubscriberOnboardingInput) error {
	query := `
		UPDATE stammdaten
		SET name = $1,
			gender = $2,
			referral_source = $3,
			groesse = $4,
			geburtsdatum = $5,
			goal = $6,
			diet = $7,
			referral_code = $8,
			mail = $9,
			updated_at = NOW()
		WHERE sender = $10
	`
	tag, err := r.db.Exec(ctx, query,
		input.Name,
		input.GenderCode,
		input.ReferralSource,
		input.HeightCm,
		input.BirthDate,
		input.GoalCode,
		input.Diet,
		input.ReferralCode,
		input.Email,
		sender,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateOnboardingWithPlan is UpdateOnboarding plus the rounded macro
// targets and the subscription-tier marker.
func (r *SubscriberRepository) UpdateOnboardingWithPlan(ctx context.Context, sender string, input SubscriberOnboardingInput, plan SubscriberPlanInput) error {
	query := `
		UPDATE stammdaten
		SET name = $1,
			gender = $2,
			referral_source = $3,
			groesse = $4,
			geburtsdatum = $5,
			goal = $6,
			diet = $7,
			referral_code = $8,
			mail = $9,
			kalorienziel = $10,
			carbs = $11,
			protein = $12,
			fett = $13,
			abo_typ = $14,
			updated_at = NOW()
		WHERE sender = $15
	`
	tag, err := r.db.Exec(ctx, query,
		input.Name,
		input.GenderCode,
		input.ReferralSource,
		input.HeightCm,
		input.BirthDate,
		input.GoalCode,
		input.Diet,
		input.ReferralCode,
		input.Email,
		plan.TargetCalories,
		plan.CarbsGrams,
		plan.ProteinGrams,
		plan.FatsGrams,
		plan.SubscriptionTier,
		sender,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
