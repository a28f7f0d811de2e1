package metrics

import (
	"strings"

	"github.com/claude/vitalfuse/internal/models"
)

// BMR computes basal metabolic rate (kcal/day) with the Mifflin-St Jeor
// equation.
func BMR(weightKg, heightCm float64, age int, sex string) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if strings.EqualFold(sex, "male") {
		return base + 5
	}
	return base - 161
}

// TDEE scales BMR by an activity factor derived from steps (preferred) or
// weekly exercise minutes.
func TDEE(bmr float64, profile *models.UserProfile) float64 {
	factor := 1.2 // sedentary default
	switch {
	case profile == nil:
	case profile.AvgStepsPerDay != nil:
		switch steps := *profile.AvgStepsPerDay; {
		case steps < 3000:
			factor = 1.2
		case steps < 5000:
			factor = 1.375
		case steps < 7500:
			factor = 1.55
		case steps < 10000:
			factor = 1.725
		default:
			factor = 1.9
		}
	case profile.ActivityMinPerWeek != nil:
		switch minutes := *profile.ActivityMinPerWeek; {
		case minutes < 30:
			factor = 1.2
		case minutes < 150:
			factor = 1.375
		case minutes < 300:
			factor = 1.55
		case minutes < 420:
			factor = 1.725
		default:
			factor = 1.9
		}
	}
	return bmr * factor
}

// CalorieBreakdown splits the day's burn into base and activity parts.
type CalorieBreakdown struct {
	Total      int `json:"total"`
	BaseBMR    int `json:"base_bmr"`
	Activity   int `json:"activity"`
	FromSteps  int `json:"from_steps"`
	FromStrain int `json:"from_strain"`
}

// CalorieBurn estimates total daily calories. Step and strain estimates
// double-count the same movement, so activity takes the larger of the two.
func CalorieBurn(bmr, strain float64, steps int) CalorieBreakdown {
	stepCal := float64(steps) * 0.04
	strainCal := strain / 14 * 500
	activity := stepCal
	if strainCal > activity {
		activity = strainCal
	}
	return CalorieBreakdown{
		Total:      int(bmr + activity),
		BaseBMR:    int(bmr),
		Activity:   int(activity),
		FromSteps:  int(stepCal),
		FromStrain: int(strainCal),
	}
}
