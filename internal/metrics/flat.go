package metrics

import (
	"time"

	"github.com/claude/vitalfuse/internal/models"
)

// Flat renders a snapshot plus its derived extras as the name-to-value
// mapping handed to presentation layers. Every key is always present;
// insufficient inputs land on the documented defaults, so consumers never
// need to check for missing fields. Respiratory rate is the one exception:
// below 100 valid RR samples there is no estimate at all, and the key
// carries an explicit null rather than a number that could pass for a
// measurement.
func Flat(snap models.DailySnapshot, series []models.Sample, profile *models.UserProfile) map[string]any {
	maxHR := ProfileMaxHR(profile, series)

	var respiratory any
	if r := RespiratoryRate(series); r != nil {
		respiratory = *r
	}

	spo2 := AnalyzeSpO2(series)
	if spo2 == nil {
		spo2 = &SpO2Trend{}
	}

	out := map[string]any{
		"date":                 snap.Date.Format(time.DateOnly),
		"hrv_ms":               snap.HRV,
		"rhr_bpm":              snap.RHR,
		"strain":               snap.Strain,
		"recovery":             snap.Recovery,
		"sleep_duration_h":     snap.SleepDurationH,
		"sleep_deep_h":         snap.DeepH,
		"sleep_rem_h":          snap.RemH,
		"sleep_light_h":        snap.LightH,
		"sleep_efficiency_pct": snap.SleepEfficiencyPct,
		"sleep_score":          snap.SleepScore,
		"stress":               snap.Stress,
		"readiness":            snap.Readiness,
		"steps":                snap.Steps,
		"respiratory_rate":     respiratory,
		"max_hr":               maxHR,
		"vo2max":               VO2Max(maxHR, snap.RHR),
		"spo2":                 spo2,
		"hr_zone_minutes":      ZoneMinutes(series, maxHR),
		"hourly_strain":        HourlyStrain(series, snap.RHR),
	}

	if profile != nil {
		bmr := BMR(profile.WeightKg, profile.HeightCm, profile.Age, profile.Sex)
		out["bmr"] = bmr
		out["calories"] = CalorieBurn(bmr, snap.Strain, snap.Steps)
	} else {
		out["bmr"] = 0.0
		out["calories"] = CalorieBreakdown{}
	}
	return out
}
