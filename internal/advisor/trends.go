// Package advisor turns a rolling history of daily snapshots into rollups,
// risk assessments, and recommendations. Every function takes the history
// ordered by date ascending and returns an explicit insufficient-data
// result instead of an error when the window is too short.
package advisor

import (
	"math"
	"time"

	"github.com/claude/vitalfuse/internal/fusion"
	"github.com/claude/vitalfuse/internal/models"
)

// DayRef points at a single day with its recovery, for best/worst callouts.
type DayRef struct {
	Date     string  `json:"date"`
	Recovery float64 `json:"recovery"`
}

// WeeklySummary aggregates the trailing seven days and compares them to
// the seven before.
type WeeklySummary struct {
	TotalStrain       float64 `json:"total_strain"`
	AvgRecovery       float64 `json:"avg_recovery"`
	AvgHRV            float64 `json:"avg_hrv"`
	AvgRHR            float64 `json:"avg_rhr"`
	TotalSteps        int     `json:"total_steps"`
	AvgSteps          int     `json:"avg_steps"`
	BestDay           *DayRef `json:"best_day,omitempty"`
	WorstDay          *DayRef `json:"worst_day,omitempty"`
	WoWRecoveryChange float64 `json:"wow_recovery_change"`
	WoWStrainChange   float64 `json:"wow_strain_change"`
	WoWStepsChange    int     `json:"wow_steps_change"`
}

// Weekly computes the trailing 7-day summary. Returns nil with no data in
// the window.
func Weekly(history []models.DailySnapshot, now time.Time) *WeeklySummary {
	end := dayAfter(now)
	week := window(history, end.AddDate(0, 0, -7), end)
	if len(week) == 0 {
		return nil
	}
	prev := window(history, end.AddDate(0, 0, -14), end.AddDate(0, 0, -7))

	s := &WeeklySummary{
		TotalStrain: round1(sum(week, strainOf)),
		AvgRecovery: round1(avg(week, recoveryOf)),
		AvgHRV:      round1(avg(week, hrvOf)),
		AvgRHR:      round1(avg(week, rhrOf)),
		TotalSteps:  int(sum(week, stepsOf)),
		AvgSteps:    int(avg(week, stepsOf)),
	}

	best, worst := week[0], week[0]
	for _, d := range week {
		if d.Recovery > best.Recovery {
			best = d
		}
		if d.Recovery < worst.Recovery {
			worst = d
		}
	}
	s.BestDay = &DayRef{Date: best.Date.Format("2006-01-02"), Recovery: best.Recovery}
	s.WorstDay = &DayRef{Date: worst.Date.Format("2006-01-02"), Recovery: worst.Recovery}

	if len(prev) > 0 {
		s.WoWRecoveryChange = round1(s.AvgRecovery - avg(prev, recoveryOf))
		s.WoWStrainChange = round1(s.TotalStrain - sum(prev, strainOf))
		s.WoWStepsChange = s.TotalSteps - int(sum(prev, stepsOf))
	}
	return s
}

// MonthlyInsights aggregates the trailing 30 days against the 30 before.
type MonthlyInsights struct {
	AvgRecovery       float64 `json:"avg_recovery"`
	AvgStrain         float64 `json:"avg_strain"`
	AvgHRV            float64 `json:"avg_hrv"`
	AvgRHR            float64 `json:"avg_rhr"`
	TotalSteps        int     `json:"total_steps"`
	DaysTracked       int     `json:"days_tracked"`
	MoMRecoveryChange float64 `json:"mom_recovery_change"`
	MoMRecoveryPct    float64 `json:"mom_recovery_pct"`
	MoMHRVChange      float64 `json:"mom_hrv_change"`
	Message           string  `json:"message"`
	DaysNeeded        int     `json:"days_needed,omitempty"`
}

// minMonthlyDays is the minimum tracked days for monthly insights.
const minMonthlyDays = 7

// Monthly computes 30-day insights. With fewer than seven tracked days the
// result only carries DaysNeeded, so the caller can render "need N more
// days" rather than a zero score.
func Monthly(history []models.DailySnapshot, now time.Time) *MonthlyInsights {
	end := dayAfter(now)
	month := window(history, end.AddDate(0, 0, -30), end)
	if len(month) < minMonthlyDays {
		return &MonthlyInsights{DaysTracked: len(month), DaysNeeded: minMonthlyDays - len(month)}
	}
	prev := window(history, end.AddDate(0, 0, -60), end.AddDate(0, 0, -30))

	in := &MonthlyInsights{
		AvgRecovery: round1(avg(month, recoveryOf)),
		AvgStrain:   round1(avg(month, strainOf)),
		AvgHRV:      round1(avg(month, hrvOf)),
		AvgRHR:      round1(avg(month, rhrOf)),
		TotalSteps:  int(sum(month, stepsOf)),
		DaysTracked: len(month),
	}

	if len(prev) == 0 {
		in.Message = "First month of tracking - keep going!"
		return in
	}

	prevRecovery := avg(prev, recoveryOf)
	in.MoMRecoveryChange = round1(in.AvgRecovery - prevRecovery)
	if prevRecovery != 0 {
		in.MoMRecoveryPct = round1(in.MoMRecoveryChange / prevRecovery * 100)
	}
	in.MoMHRVChange = round1(in.AvgHRV - avg(prev, hrvOf))

	switch {
	case in.MoMRecoveryChange > 5:
		in.Message = "Recovery improved this month"
	case in.MoMRecoveryChange < -5:
		in.Message = "Recovery declined this month"
	default:
		in.Message = "Consistent performance this month"
	}
	return in
}

// TrainingLoad is the cumulative strain over the trailing seven entries.
func TrainingLoad(history []models.DailySnapshot) float64 {
	return round1(sum(tail(history, 7), strainOf))
}

// SleepDebt is the cumulative deficit against a target over the trailing
// seven entries. Returns 0 with no history.
func SleepDebt(history []models.DailySnapshot, targetHours float64) float64 {
	recent := tail(history, 7)
	if len(recent) == 0 {
		return 0
	}
	total := 0.0
	for _, d := range recent {
		total += d.SleepDurationH
	}
	return round1(targetHours*float64(len(recent)) - total)
}

// --- small helpers shared across the package ---

// dayAfter is the midnight following t, the exclusive end of t's day.
func dayAfter(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}

// window selects snapshots with from <= Date < to.
func window(history []models.DailySnapshot, from, to time.Time) []models.DailySnapshot {
	var out []models.DailySnapshot
	for _, d := range history {
		if !d.Date.Before(from) && d.Date.Before(to) {
			out = append(out, d)
		}
	}
	return out
}

func tail(history []models.DailySnapshot, n int) []models.DailySnapshot {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

func strainOf(d models.DailySnapshot) float64   { return d.Strain }
func recoveryOf(d models.DailySnapshot) float64 { return d.Recovery }
func hrvOf(d models.DailySnapshot) float64      { return d.HRV }
func rhrOf(d models.DailySnapshot) float64      { return d.RHR }
func stressOf(d models.DailySnapshot) float64   { return d.Stress }
func stepsOf(d models.DailySnapshot) float64    { return float64(d.Steps) }

func sum(days []models.DailySnapshot, f func(models.DailySnapshot) float64) float64 {
	var total float64
	for _, d := range days {
		total += f(d)
	}
	return total
}

func avg(days []models.DailySnapshot, f func(models.DailySnapshot) float64) float64 {
	if len(days) == 0 {
		return 0
	}
	return sum(days, f) / float64(len(days))
}

// trend is the mean of successive differences, the discrete slope.
func trend(days []models.DailySnapshot, f func(models.DailySnapshot) float64) float64 {
	if len(days) < 2 {
		return 0
	}
	values := make([]float64, len(days))
	for i, d := range days {
		values[i] = f(d)
	}
	return fusion.Mean(fusion.Diff(values))
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
