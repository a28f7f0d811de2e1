package advisor

import (
	"fmt"
	"time"

	"github.com/claude/vitalfuse/internal/models"
)

// Record is a single personal best with the date it was set.
type Record struct {
	Value float64 `json:"value"`
	Date  string  `json:"date"`
}

// PersonalRecords holds all-time bests across the full history.
type PersonalRecords struct {
	HighestHRV     *Record  `json:"highest_hrv,omitempty"`
	LowestRHR      *Record  `json:"lowest_rhr,omitempty"`
	HighestStrain  *Record  `json:"highest_strain,omitempty"`
	BestRecovery   *Record  `json:"best_recovery,omitempty"`
	MostSteps      *Record  `json:"most_steps,omitempty"`
	BestSleepScore *Record  `json:"best_sleep_score,omitempty"`
	LongestSleepH  *Record  `json:"longest_sleep_h,omitempty"`
	DaysTracked    int      `json:"days_tracked"`
	Achievements   []string `json:"achievements"`
}

// Records scans the full history for personal bests and earned badges.
func Records(history []models.DailySnapshot) *PersonalRecords {
	pr := &PersonalRecords{DaysTracked: len(history), Achievements: []string{}}
	if len(history) == 0 {
		return pr
	}

	pr.HighestHRV = best(history, hrvOf, false)
	pr.LowestRHR = best(history, rhrOf, true)
	pr.HighestStrain = best(history, strainOf, false)
	pr.BestRecovery = best(history, recoveryOf, false)
	pr.MostSteps = best(history, stepsOf, false)
	pr.BestSleepScore = best(history, func(d models.DailySnapshot) float64 { return d.SleepScore }, false)
	pr.LongestSleepH = best(history, func(d models.DailySnapshot) float64 { return d.SleepDurationH }, false)

	for _, milestone := range []int{7, 30, 100} {
		if len(history) >= milestone {
			pr.Achievements = append(pr.Achievements, fmt.Sprintf("%d days tracked", milestone))
		}
	}
	if pr.BestRecovery.Value >= 90 {
		pr.Achievements = append(pr.Achievements, "Recovery 90%+")
	}
	if pr.HighestHRV.Value >= 100 {
		pr.Achievements = append(pr.Achievements, "HRV 100ms+")
	}
	if pr.MostSteps.Value >= 15000 {
		pr.Achievements = append(pr.Achievements, "15k steps in a day")
	}
	return pr
}

func best(history []models.DailySnapshot, f func(models.DailySnapshot) float64, lowest bool) *Record {
	bestDay := history[0]
	for _, d := range history {
		v := f(d)
		if lowest && v < f(bestDay) || !lowest && v > f(bestDay) {
			bestDay = d
		}
	}
	return &Record{Value: f(bestDay), Date: bestDay.Date.Format(time.DateOnly)}
}
