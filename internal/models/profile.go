package models

// HeightInput is the raw measurements-form entry: the value is kept as
// typed, the unit tag says how to read it.
type HeightInput struct {
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// WeightInput mirrors HeightInput for the weight field.
type WeightInput struct {
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// NotificationPreferences holds the three independent reminder toggles.
type NotificationPreferences struct {
	Weighing bool `json:"weighing"`
	Meal     bool `json:"meal"`
	Workout  bool `json:"workout"`
}

// NutritionPlan is the generated daily calorie/macro target. All values are
// used by clients as-is; rounding for display is the client's concern.
type NutritionPlan struct {
	MaintenanceCalories float64 `json:"maintenance_calories"`
	TargetCalories      float64 `json:"target_calories"`
	ProteinGrams        float64 `json:"protein_grams"`
	CarbsGrams          float64 `json:"carbs_grams"`
	FatsGrams           float64 `json:"fats_grams"`
}

// Profile accumulates every answer collected across the wizard. One profile
// exists per onboarding session and lives for the session's lifetime.
type Profile struct {
	FirstName        string                  `json:"first_name"`
	LastName         string                  `json:"last_name"`
	Gender           string                  `json:"gender"`
	WorkoutFrequency string                  `json:"workout_frequency"`
	Source           string                  `json:"source"`
	TriedOthers      bool                    `json:"tried_others"`
	Height           HeightInput             `json:"height"`
	Weight           WeightInput             `json:"weight"`
	BirthDate        string                  `json:"birth_date"`
	Goal             string                  `json:"goal"`
	Obstacles        []string                `json:"obstacles"`
	Diet             string                  `json:"diet"`
	Accomplishment   string                  `json:"accomplishment"`
	CaloriesBack     bool                    `json:"calories_back"`
	Rollover         bool                    `json:"rollover"`
	Rating           int                     `json:"rating"`
	ReferralCode     string                  `json:"referral_code"`
	Notifications    NotificationPreferences `json:"notifications"`
	Email            string                  `json:"email"`
	Plan             *NutritionPlan          `json:"plan,omitempty"`
}

// NewProfile returns the empty profile a session starts with.
func NewProfile() *Profile {
	return &Profile{
		Height:       HeightInput{Unit: "cm"},
		Weight:       WeightInput{Unit: "kg"},
		Obstacles:    []string{},
		CaloriesBack: true,
		Notifications: NotificationPreferences{
			Weighing: true,
			Meal:     true,
			Workout:  true,
		},
	}
}

// ProfilePatch is the only way profile fields change after creation. Nil
// fields are left untouched by Apply.
type ProfilePatch struct {
	FirstName        *string                  `json:"first_name"`
	LastName         *string                  `json:"last_name"`
	Gender           *string                  `json:"gender"`
	WorkoutFrequency *string                  `json:"workout_frequency"`
	Source           *string                  `json:"source"`
	TriedOthers      *bool                    `json:"tried_others"`
	Height           *HeightInput             `json:"height"`
	Weight           *WeightInput             `json:"weight"`
	BirthDate        *string                  `json:"birth_date"`
	Goal             *string                  `json:"goal"`
	Obstacles        *[]string                `json:"obstacles"`
	Diet             *string                  `json:"diet"`
	Accomplishment   *string                  `json:"accomplishment"`
	CaloriesBack     *bool                    `json:"calories_back"`
	Rollover         *bool                    `json:"rollover"`
	Rating           *int                     `json:"rating"`
	ReferralCode     *string                  `json:"referral_code"`
	Notifications    *NotificationPreferences `json:"notifications"`
	Email            *string                  `json:"email"`
}

// Apply merges the patch into the profile. The generated plan is never
// patched from outside; it is set only after a successful generation call.
func (p *Profile) Apply(patch ProfilePatch) {
	if patch.FirstName != nil {
		p.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		p.LastName = *patch.LastName
	}
	if patch.Gender != nil {
		p.Gender = *patch.Gender
	}
	if patch.WorkoutFrequency != nil {
		p.WorkoutFrequency = *patch.WorkoutFrequency
	}
	if patch.Source != nil {
		p.Source = *patch.Source
	}
	if patch.TriedOthers != nil {
		p.TriedOthers = *patch.TriedOthers
	}
	if patch.Height != nil {
		p.Height = *patch.Height
	}
	if patch.Weight != nil {
		p.Weight = *patch.Weight
	}
	if patch.BirthDate != nil {
		p.BirthDate = *patch.BirthDate
	}
	if patch.Goal != nil {
		p.Goal = *patch.Goal
	}
	if patch.Obstacles != nil {
		p.Obstacles = *patch.Obstacles
	}
	if patch.Diet != nil {
		p.Diet = *patch.Diet
	}
	if patch.Accomplishment != nil {
		p.Accomplishment = *patch.Accomplishment
	}
	if patch.CaloriesBack != nil {
		p.CaloriesBack = *patch.CaloriesBack
	}
	if patch.Rollover != nil {
		p.Rollover = *patch.Rollover
	}
	if patch.Rating != nil {
		p.Rating = *patch.Rating
	}
	if patch.ReferralCode != nil {
		p.ReferralCode = *patch.ReferralCode
	}
	if patch.Notifications != nil {
		p.Notifications = *patch.Notifications
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
}

// PlanOrZero lets the dashboard render before a plan exists: a missing plan
// comes back as all zeros instead of nil.
func (p *Profile) PlanOrZero() NutritionPlan {
	if p.Plan == nil {
		return NutritionPlan{}
	}
	return *p.Plan
}
