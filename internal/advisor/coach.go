package advisor

import (
	"fmt"
	"sort"

	"github.com/claude/vitalfuse/internal/models"
)

// StrainGoalBand maps a recovery level to a target strain range.
type StrainGoalBand struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Label string  `json:"label"`
}

// StrainGoal returns today's target strain band given recovery.
func StrainGoal(recovery float64) StrainGoalBand {
	switch {
	case recovery >= 80:
		return StrainGoalBand{Min: 14, Max: 18, Label: "primed for a hard session"}
	case recovery >= 60:
		return StrainGoalBand{Min: 10, Max: 14, Label: "moderate training day"}
	case recovery >= 40:
		return StrainGoalBand{Min: 6, Max: 10, Label: "keep it light"}
	default:
		return StrainGoalBand{Min: 0, Max: 6, Label: "recovery day"}
	}
}

// ActivitySuggestion pairs an activity with the minutes needed to land in
// today's strain band.
type ActivitySuggestion struct {
	Activity   string  `json:"activity"`
	Minutes    int     `json:"minutes"`
	StrainRate float64 `json:"strain_per_minute"`
}

// strainRates is approximate strain accumulated per minute of activity.
var strainRates = map[string]float64{
	"walking":           0.05,
	"cycling (easy)":    0.08,
	"yoga":              0.06,
	"swimming":          0.12,
	"cycling (hard)":    0.14,
	"running":           0.15,
	"HIIT":              0.20,
	"strength training": 0.10,
}

// SuggestActivities ranks activities by how closely a reasonable session
// length lands in the remaining strain budget for the day. Returns at most
// five suggestions, none when the budget is already spent.
func SuggestActivities(recovery, strainSoFar float64) []ActivitySuggestion {
	goal := StrainGoal(recovery)
	remaining := goal.Max - strainSoFar
	if remaining <= 0 {
		return nil
	}

	var out []ActivitySuggestion
	for activity, rate := range strainRates {
		minutes := int(remaining / rate)
		if minutes < 10 {
			continue
		}
		if minutes > 120 {
			minutes = 120
		}
		out = append(out, ActivitySuggestion{Activity: activity, Minutes: minutes, StrainRate: rate})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Minutes != out[j].Minutes {
			return out[i].Minutes < out[j].Minutes
		}
		return out[i].Activity < out[j].Activity
	})
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

// CoachAdvice composes a short time-of-day-aware message from today's
// snapshot and the strain goal.
func CoachAdvice(today models.DailySnapshot, hour int) string {
	goal := StrainGoal(today.Recovery)

	switch {
	case hour < 10:
		return fmt.Sprintf("Recovery is %.0f%% - %s. Aim for strain %.0f-%.0f today.",
			today.Recovery, goal.Label, goal.Min, goal.Max)
	case hour < 17:
		remaining := goal.Max - today.Strain
		if remaining <= 0 {
			return fmt.Sprintf("Strain is %.1f, past today's target of %.0f. Wind down.",
				today.Strain, goal.Max)
		}
		return fmt.Sprintf("Strain is %.1f of a %.0f-%.0f target. Room for %.1f more.",
			today.Strain, goal.Min, goal.Max, remaining)
	default:
		if today.Strain < goal.Min {
			return fmt.Sprintf("Light day: strain %.1f against a %.0f-%.0f target. An evening walk would close the gap.",
				today.Strain, goal.Min, goal.Max)
		}
		return fmt.Sprintf("Strain %.1f hit the target. Prioritize sleep tonight.", today.Strain)
	}
}
