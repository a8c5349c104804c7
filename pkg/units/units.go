package units

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Unit tags as they arrive from the measurements form.
const (
	HeightUnitCm = "cm"
	HeightUnitFt = "ft"
	WeightUnitKg = "kg"
	WeightUnitLb = "lbs"
)

const poundsToKg = 0.45359237

var imperialHeightPattern = regexp.MustCompile(`(\d+)\s*'\s*(\d+)\s*"?`)

// ParseImperialHeight converts a feet'inches" string (e.g. 5'11") to whole
// centimeters. Returns false for anything that does not match the pattern.
func ParseImperialHeight(value string) (int, bool) {
	match := imperialHeightPattern.FindStringSubmatch(value)
	if match == nil {
		return 0, false
	}
	feet, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	inches, err := strconv.Atoi(match[2])
	if err != nil {
		return 0, false
	}
	return int(math.Round(float64(feet*12+inches) * 2.54)), true
}

// HeightToCentimeters dispatches on the height unit tag. Metric values pass
// through as entered, imperial strings go through ParseImperialHeight.
func HeightToCentimeters(value, unit string) (float64, bool) {
	switch unit {
	case HeightUnitCm:
		cm, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || math.IsNaN(cm) || math.IsInf(cm, 0) {
			return 0, false
		}
		return cm, true
	case HeightUnitFt:
		cm, ok := ParseImperialHeight(value)
		return float64(cm), ok
	default:
		return 0, false
	}
}

// WeightToKilograms converts a weight entry to kilograms. Kilogram values
// pass through unrounded; pound values are converted and rounded to one
// decimal place.
func WeightToKilograms(value, unit string) (float64, bool) {
	weight, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return 0, false
	}
	switch unit {
	case WeightUnitKg:
		return weight, true
	case WeightUnitLb:
		return math.Round(weight*poundsToKg*10) / 10, true
	default:
		return 0, false
	}
}

// GoalCode maps a goal label from the goal screen to its storage code.
func GoalCode(goal string) (string, bool) {
	switch goal {
	case "Lose weight":
		return "ziel_fettabbau", true
	case "Maintain":
		return "ziel_allgemeinfitness", true
	case "Gain weight":
		return "ziel_muskelaufbau", true
	default:
		return "", false
	}
}

// GenderCode maps a gender label to its storage code.
func GenderCode(gender string) (string, bool) {
	switch gender {
	case "Male":
		return "gender_m", true
	case "Female":
		return "gender_w", true
	default:
		return "", false
	}
}
