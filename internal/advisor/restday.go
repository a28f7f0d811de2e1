package advisor

import (
	"fmt"

	"github.com/claude/vitalfuse/internal/models"
)

// RestDayAdvice says whether today should be a rest day and why.
type RestDayAdvice struct {
	RestRecommended bool     `json:"rest_recommended"`
	Urgency         string   `json:"urgency,omitempty"`
	Reasons         []string `json:"reasons,omitempty"`
}

// RestDay recommends rest when recovery or readiness has cratered, or when
// strain has run hot for three days. Urgency is high only when low recovery
// coincides with a hard prior day and a declining three-day recovery run.
func RestDay(history []models.DailySnapshot) *RestDayAdvice {
	if len(history) == 0 {
		return &RestDayAdvice{}
	}
	today := history[len(history)-1]

	var reasons []string
	if today.Recovery < 40 {
		reasons = append(reasons, fmt.Sprintf("recovery at %.0f%%", today.Recovery))
	}
	if today.Readiness < 40 {
		reasons = append(reasons, fmt.Sprintf("readiness at %.0f", today.Readiness))
	}
	recent := tail(history, 3)
	if avgStrain := avg(recent, strainOf); len(recent) == 3 && avgStrain > 16 {
		reasons = append(reasons, fmt.Sprintf("3-day average strain %.1f", avgStrain))
	}

	if len(reasons) == 0 {
		return &RestDayAdvice{}
	}

	urgency := "moderate"
	if today.Recovery < 40 && hardYesterday(history) && recoveryDeclining(history) {
		urgency = "high"
	}
	return &RestDayAdvice{RestRecommended: true, Urgency: urgency, Reasons: reasons}
}

func hardYesterday(history []models.DailySnapshot) bool {
	if len(history) < 2 {
		return false
	}
	return history[len(history)-2].Strain > 16
}

func recoveryDeclining(history []models.DailySnapshot) bool {
	recent := tail(history, 3)
	if len(recent) < 3 {
		return false
	}
	return recent[2].Recovery < recent[1].Recovery && recent[1].Recovery < recent[0].Recovery
}
