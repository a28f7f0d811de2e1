// Package metrics derives the per-day physiological indices from a
// canonical minute-granularity sample series. All functions are pure; the
// engine decides what to persist.
package metrics

import (
	"math"
	"time"

	"github.com/claude/vitalfuse/internal/fusion"
	"github.com/claude/vitalfuse/internal/models"
)

// Defaults used when the series carries too little signal.
const (
	DefaultHRV    = 50.0
	DefaultRHR    = 60.0
	DefaultStress = 5.0
)

// Clean drops malformed rows before any statistic is computed. A row is
// dropped when BPM is non-finite or outside (0, 250], or RR is negative,
// non-finite, or above 3000 ms. Out-of-range SpO2 clears the field rather
// than dropping the row. Durations downstream count valid rows only.
func Clean(series []models.Sample) []models.Sample {
	out := make([]models.Sample, 0, len(series))
	for _, s := range series {
		if math.IsNaN(s.BPM) || math.IsInf(s.BPM, 0) || s.BPM <= 0 || s.BPM > 250 {
			continue
		}
		if math.IsNaN(s.RRMs) || math.IsInf(s.RRMs, 0) || s.RRMs < 0 || s.RRMs > 3000 {
			continue
		}
		if s.SpO2 != nil && (*s.SpO2 < 50 || *s.SpO2 > 100) {
			s.SpO2 = nil
		}
		out = append(out, s)
	}
	return out
}

// HRV computes RMSSD over the non-zero RR intervals, in milliseconds.
// Returns DefaultHRV when fewer than two valid RR samples exist.
func HRV(series []models.Sample) float64 {
	rr := validRR(series)
	if len(rr) < 2 {
		return DefaultHRV
	}
	diffs := fusion.Diff(rr)
	var sum float64
	for _, d := range diffs {
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(diffs)))
}

// RHR estimates resting heart rate as the 5th percentile of heart rate
// between 00:00 and 06:59. Returns DefaultRHR with no night samples.
func RHR(series []models.Sample) float64 {
	var night []float64
	for _, s := range series {
		if h := s.Timestamp.Hour(); h >= 0 && h <= 6 {
			night = append(night, s.BPM)
		}
	}
	if len(night) == 0 {
		return DefaultRHR
	}
	return fusion.Percentile(night, 0.05)
}

// TotalSteps returns the day's step count from the cumulative counter.
func TotalSteps(series []models.Sample) int {
	var maxSteps float64
	for _, s := range series {
		if s.Steps > maxSteps {
			maxSteps = s.Steps
		}
	}
	return int(maxSteps)
}

// Strain computes the 0-21 cardiovascular load index: an integral of heart
// rate above resting plus a step-count component.
func Strain(series []models.Sample, rhr float64, steps int) float64 {
	var excess float64
	for _, s := range series {
		if s.BPM > rhr {
			excess += s.BPM - rhr
		}
	}
	hrComponent := fusion.Clamp(excess*0.0001, 0, 21)
	stepComponent := float64(steps) / 10000 * 3
	return fusion.Clamp(hrComponent+stepComponent, 0, 21)
}

// Recovery computes the 33-100 overnight readiness index from HRV and RHR.
func Recovery(hrv, rhr float64) float64 {
	if rhr <= 0 {
		rhr = DefaultRHR
	}
	return fusion.Clamp((hrv/80)*100*(60/rhr), 33, 100)
}

// SleepTotals holds per-stage minute counts converted to hours.
type SleepTotals struct {
	DurationH     float64
	DeepH         float64
	RemH          float64
	LightH        float64
	EfficiencyPct float64
}

// Sleep counts minutes spent in each sleep stage. Efficiency is duration
// relative to an eight-hour reference.
func Sleep(series []models.Sample) SleepTotals {
	var asleep, deep, rem, light int
	for _, s := range series {
		switch s.SleepStage {
		case models.StageLight:
			light++
		case models.StageDeep:
			deep++
		case models.StageREM:
			rem++
		default:
			continue
		}
		asleep++
	}
	totals := SleepTotals{
		DurationH: float64(asleep) / 60,
		DeepH:     float64(deep) / 60,
		RemH:      float64(rem) / 60,
		LightH:    float64(light) / 60,
	}
	if totals.DurationH > 0 {
		totals.EfficiencyPct = totals.DurationH / 8 * 100
	}
	return totals
}

// Compute derives the full daily snapshot for the given calendar date.
// History and profile are optional; missing inputs fall back to the
// documented defaults so a first run never fails.
func Compute(series []models.Sample, history []models.DailySnapshot, profile *models.UserProfile, date time.Time) models.DailySnapshot {
	series = Clean(series)

	hrv := HRV(series)
	rhr := RHR(series)
	steps := TotalSteps(series)
	strain := Strain(series, rhr, steps)
	recovery := Recovery(hrv, rhr)
	sleep := Sleep(series)

	sleepScore := SleepScore(SleepScoreInput{
		DurationH:       sleep.DurationH,
		EfficiencyPct:   sleep.EfficiencyPct,
		PriorDayStrain:  priorDayStrain(history, date),
		RecentDurations: recentSleepDurations(history, sleep.DurationH),
		SleepHR:         sleepHeartRate(series),
		HRV:             hrv,
	}).Total

	snapshot := models.DailySnapshot{
		Date:               DayOf(date),
		HRV:                hrv,
		RHR:                rhr,
		Strain:             strain,
		Recovery:           recovery,
		SleepDurationH:     sleep.DurationH,
		DeepH:              sleep.DeepH,
		RemH:               sleep.RemH,
		LightH:             sleep.LightH,
		SleepEfficiencyPct: sleep.EfficiencyPct,
		SleepScore:         sleepScore,
		Stress:             StressScore(series),
		Steps:              steps,
	}
	snapshot.Readiness = Readiness(hrv, rhr, recovery, sleepScore)

	if profile != nil && profile.WeightKg > 0 {
		w := profile.WeightKg
		snapshot.WeightKg = &w
	}
	return snapshot
}

// priorDayStrain finds the strain recorded for the day before date, or 0.
func priorDayStrain(history []models.DailySnapshot, date time.Time) float64 {
	prior := date.AddDate(0, 0, -1)
	for i := len(history) - 1; i >= 0; i-- {
		if sameDay(history[i].Date, prior) {
			return history[i].Strain
		}
	}
	return 0
}

// recentSleepDurations returns up to the last three recorded durations plus
// today's, for the consistency sub-score.
func recentSleepDurations(history []models.DailySnapshot, today float64) []float64 {
	start := len(history) - 3
	if start < 0 {
		start = 0
	}
	out := make([]float64, 0, 4)
	for _, h := range history[start:] {
		out = append(out, h.SleepDurationH)
	}
	return append(out, today)
}

// sleepHeartRate is the mean heart rate over asleep minutes, or 0 when the
// series has no sleep samples.
func sleepHeartRate(series []models.Sample) float64 {
	var bpm []float64
	for _, s := range series {
		if s.SleepStage > models.StageAwake {
			bpm = append(bpm, s.BPM)
		}
	}
	return fusion.Mean(bpm)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func validRR(series []models.Sample) []float64 {
	var rr []float64
	for _, s := range series {
		if s.RRMs > 0 {
			rr = append(rr, s.RRMs)
		}
	}
	return rr
}
