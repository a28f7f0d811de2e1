package advisor

import (
	"fmt"

	"github.com/claude/vitalfuse/internal/models"
)

// Risk levels, ordered from worst to best.
const (
	RiskHigh     = "high"
	RiskModerate = "moderate"
	RiskLow      = "low"
	RiskMinimal  = "minimal"
)

// OvertrainingPolicy scores accumulated training stress from history.
type OvertrainingPolicy interface {
	// Name reports the policy identifier used in config and responses.
	Name() string
	// Assess scores the history. History is ordered by date ascending.
	Assess(history []models.DailySnapshot) *OvertrainingRisk
}

// OvertrainingRisk is the result of a policy assessment.
type OvertrainingRisk struct {
	Level           string   `json:"level"`
	Score           int      `json:"score"`
	Factors         []string `json:"factors"`
	Recommendations []string `json:"recommendations"`
	DaysNeeded      int      `json:"days_needed,omitempty"`
}

// PolicyByName resolves a config string to a policy. Unknown names fall
// back to the simple policy.
func PolicyByName(name string) OvertrainingPolicy {
	if name == "extended" {
		return ExtendedPolicy{}
	}
	return SimplePolicy{}
}

// SimplePolicy scores the trailing seven days on four factors: high-strain
// day count, average recovery, HRV slope, and RHR slope.
type SimplePolicy struct{}

func (SimplePolicy) Name() string { return "simple" }

func (SimplePolicy) Assess(history []models.DailySnapshot) *OvertrainingRisk {
	week := tail(history, 7)
	if len(week) < 7 {
		return &OvertrainingRisk{
			Level:      RiskMinimal,
			DaysNeeded: 7 - len(week),
			Recommendations: []string{
				fmt.Sprintf("Track %d more days for an overtraining assessment", 7-len(week)),
			},
		}
	}

	score := 0
	var factors []string

	highStrain := 0
	for _, d := range week {
		if d.Strain > 14 {
			highStrain++
		}
	}
	switch {
	case highStrain >= 4:
		score += 3
		factors = append(factors, fmt.Sprintf("%d high-strain days this week", highStrain))
	case highStrain >= 2:
		score++
		factors = append(factors, fmt.Sprintf("%d high-strain days this week", highStrain))
	}

	avgRecovery := avg(week, recoveryOf)
	switch {
	case avgRecovery < 50:
		score += 3
		factors = append(factors, fmt.Sprintf("average recovery %.0f%%", avgRecovery))
	case avgRecovery < 60:
		score++
		factors = append(factors, fmt.Sprintf("average recovery %.0f%%", avgRecovery))
	}

	if hrvSlope := trend(week, hrvOf); hrvSlope < -2 {
		score += 2
		factors = append(factors, fmt.Sprintf("HRV falling %.1f ms/day", -hrvSlope))
	}
	if rhrSlope := trend(week, rhrOf); rhrSlope > 2 {
		score += 2
		factors = append(factors, fmt.Sprintf("resting HR rising %.1f BPM/day", rhrSlope))
	}

	return &OvertrainingRisk{
		Level:           levelFor(score, 6, 4, 2),
		Score:           score,
		Factors:         factors,
		Recommendations: recommendationsFor(levelFor(score, 6, 4, 2)),
	}
}

// ExtendedPolicy scores the trailing fourteen days on five factors,
// comparing the recent week to the one before it.
type ExtendedPolicy struct{}

func (ExtendedPolicy) Name() string { return "extended" }

func (ExtendedPolicy) Assess(history []models.DailySnapshot) *OvertrainingRisk {
	recent := tail(history, 14)
	if len(recent) < 14 {
		return &OvertrainingRisk{
			Level:      RiskMinimal,
			DaysNeeded: 14 - len(recent),
			Recommendations: []string{
				fmt.Sprintf("Track %d more days for an extended assessment", 14-len(recent)),
			},
		}
	}

	first, last := recent[:7], recent[7:]
	score := 0
	var factors []string

	avgStrain := avg(last, strainOf)
	switch {
	case avgStrain > 16:
		score += 3
		factors = append(factors, fmt.Sprintf("average strain %.1f this week", avgStrain))
	case avgStrain > 13:
		score++
		factors = append(factors, fmt.Sprintf("average strain %.1f this week", avgStrain))
	}

	hrvShift := avg(last, hrvOf) - avg(first, hrvOf)
	switch {
	case hrvShift < -10:
		score += 3
		factors = append(factors, fmt.Sprintf("HRV down %.0f ms week over week", -hrvShift))
	case hrvShift < -5:
		score++
		factors = append(factors, fmt.Sprintf("HRV down %.0f ms week over week", -hrvShift))
	}

	rhrShift := avg(last, rhrOf) - avg(first, rhrOf)
	switch {
	case rhrShift > 5:
		score += 3
		factors = append(factors, fmt.Sprintf("resting HR up %.0f BPM week over week", rhrShift))
	case rhrShift > 2:
		score++
		factors = append(factors, fmt.Sprintf("resting HR up %.0f BPM week over week", rhrShift))
	}

	if avgRecovery := avg(last, recoveryOf); avgRecovery < 50 {
		score += 2
		factors = append(factors, fmt.Sprintf("average recovery %.0f%%", avgRecovery))
	}
	if avgStress := avg(last, stressOf); avgStress > 7 {
		score += 2
		factors = append(factors, fmt.Sprintf("average stress %.1f/10", avgStress))
	}

	return &OvertrainingRisk{
		Level:           levelFor(score, 8, 5, 3),
		Score:           score,
		Factors:         factors,
		Recommendations: recommendationsFor(levelFor(score, 8, 5, 3)),
	}
}

func levelFor(score, high, moderate, low int) string {
	switch {
	case score >= high:
		return RiskHigh
	case score >= moderate:
		return RiskModerate
	case score >= low:
		return RiskLow
	default:
		return RiskMinimal
	}
}

func recommendationsFor(level string) []string {
	switch level {
	case RiskHigh:
		return []string{
			"Take 2-3 full rest days",
			"Prioritize sleep: aim for 9+ hours",
			"Keep activity to light walking or stretching",
		}
	case RiskModerate:
		return []string{
			"Schedule a rest day in the next 48 hours",
			"Swap intense sessions for low-intensity work",
		}
	case RiskLow:
		return []string{
			"Watch recovery closely before the next hard session",
		}
	default:
		return []string{
			"Training load is sustainable",
		}
	}
}
