package metrics

import "github.com/claude/vitalfuse/internal/fusion"

// Sleep score sub-score weights. The four sub-scores are each bounded
// [0,100], so the weighted sum is too.
const (
	sufficiencyWeight = 0.40
	efficiencyWeight  = 0.30
	consistencyWeight = 0.20
	sleepStressWeight = 0.10
)

// SleepScoreInput carries everything the composite sleep score needs.
type SleepScoreInput struct {
	DurationH       float64
	EfficiencyPct   float64
	PriorDayStrain  float64
	RecentDurations []float64 // last few nights including tonight
	SleepHR         float64   // mean heart rate while asleep, 0 if unknown
	HRV             float64
}

// SleepScoreBreakdown exposes the sub-scores alongside the weighted total
// so callers can show why a night scored the way it did.
type SleepScoreBreakdown struct {
	Sufficiency float64 `json:"sufficiency"`
	Efficiency  float64 `json:"efficiency"`
	Consistency float64 `json:"consistency"`
	SleepStress float64 `json:"sleep_stress"`
	NeedH       float64 `json:"sleep_need_h"`
	Total       float64 `json:"total"`
}

// SleepScore computes the 0-100 sleep performance score as a weighted sum:
// sufficiency 40% (duration against a strain-adjusted need), efficiency
// 30%, consistency 20% (recent-night duration variance), sleep-stress 10%
// (heart rate relative to HRV while asleep).
func SleepScore(in SleepScoreInput) SleepScoreBreakdown {
	// Sleep need grows by 15 minutes for every 5 strain points the day
	// before.
	need := 8 + 0.25*(in.PriorDayStrain/5)

	b := SleepScoreBreakdown{NeedH: need}
	b.Sufficiency = fusion.Clamp(in.DurationH/need*100, 0, 100)
	b.Efficiency = fusion.Clamp(in.EfficiencyPct, 0, 100)
	b.Consistency = consistencyScore(in.RecentDurations)
	b.SleepStress = sleepStressScore(in.SleepHR, in.HRV)

	b.Total = fusion.Clamp(
		b.Sufficiency*sufficiencyWeight+
			b.Efficiency*efficiencyWeight+
			b.Consistency*consistencyWeight+
			b.SleepStress*sleepStressWeight,
		0, 100)
	return b
}

// consistencyScore penalizes variance in the last few nights' durations.
// One night of data is perfectly consistent by definition.
func consistencyScore(durations []float64) float64 {
	if len(durations) < 2 {
		return 100
	}
	std := fusion.StdDev(durations)
	variance := std * std
	return fusion.Clamp(100-variance*20, 0, 100)
}

// sleepStressScore maps the ratio of sleeping heart rate to HRV onto
// [0,100]: a low-HR, high-HRV night scores near 100. With no sleep HR
// signal the sub-score is neutral.
func sleepStressScore(sleepHR, hrv float64) float64 {
	if sleepHR <= 0 {
		return 50
	}
	if hrv < 1 {
		hrv = 1
	}
	ratio := sleepHR / hrv
	return fusion.Clamp(150-ratio*50, 0, 100)
}
