package handlers

import (
	"regexp"
	"strings"

	"github.com/Sirvey/shapemate-onboarding/internal/models"
	"github.com/Sirvey/shapemate-onboarding/pkg/units"
)

var allowedGenders = map[string]struct{}{
	"Male":   {},
	"Female": {},
}

var allowedGoals = map[string]struct{}{
	"Lose weight": {},
	"Maintain":    {},
	"Gain weight": {},
}

var allowedDiets = map[string]struct{}{
	"Classic":     {},
	"Pescatarian": {},
	"Vegetarian":  {},
	"Vegan":       {},
}

var allowedWorkoutFrequencies = map[string]struct{}{
	"0-2": {},
	"3-5": {},
	"6+":  {},
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validateProfilePatch rejects bad form input before it reaches the session
// state. Unset (nil) fields are fine; an empty string clears a free-text
// field but enumerated fields must carry a known label once set.
func validateProfilePatch(patch models.ProfilePatch) string {
	if patch.Gender != nil && *patch.Gender != "" {
		if _, ok := allowedGenders[*patch.Gender]; !ok {
			return "gender must be Male or Female"
		}
	}
	if patch.Goal != nil && *patch.Goal != "" {
		if _, ok := allowedGoals[*patch.Goal]; !ok {
			return "goal must be one of: Lose weight, Maintain, Gain weight"
		}
	}
	if patch.Diet != nil && *patch.Diet != "" {
		if _, ok := allowedDiets[*patch.Diet]; !ok {
			return "diet must be one of: Classic, Pescatarian, Vegetarian, Vegan"
		}
	}
	if patch.WorkoutFrequency != nil && *patch.WorkoutFrequency != "" {
		if _, ok := allowedWorkoutFrequencies[*patch.WorkoutFrequency]; !ok {
			return "workout_frequency must be one of: 0-2, 3-5, 6+"
		}
	}
	if patch.Height != nil {
		if unit := patch.Height.Unit; unit != units.HeightUnitCm && unit != units.HeightUnitFt {
			return "height unit must be cm or ft"
		}
	}
	if patch.Weight != nil {
		if unit := patch.Weight.Unit; unit != units.WeightUnitKg && unit != units.WeightUnitLb {
			return "weight unit must be kg or lbs"
		}
	}
	if patch.Rating != nil && (*patch.Rating < 0 || *patch.Rating > 5) {
		return "rating must be between 0 and 5"
	}
	if patch.Email != nil && *patch.Email != "" {
		if !emailPattern.MatchString(strings.TrimSpace(*patch.Email)) {
			return "email address is not valid"
		}
	}
	return ""
}
