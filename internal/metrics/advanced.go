package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/claude/vitalfuse/internal/fusion"
	"github.com/claude/vitalfuse/internal/models"
)

// StressScore measures nervous-system tension on a 0-10 scale: sustained
// high heart rate with low beat-to-beat variation scores high. The series
// is resampled to hourly buckets; each bucket contributes
// (mean BPM / 100) * (50 / (std of RR diffs + 1)) and the bucket mean is
// scaled by 10. Returns DefaultStress for an empty series.
func StressScore(series []models.Sample) float64 {
	type bucket struct {
		bpm []float64
		rr  []float64
	}
	buckets := map[time.Time]*bucket{}
	for _, s := range series {
		hour := s.Timestamp.Truncate(time.Hour)
		b := buckets[hour]
		if b == nil {
			b = &bucket{}
			buckets[hour] = b
		}
		b.bpm = append(b.bpm, s.BPM)
		if s.RRMs > 0 {
			b.rr = append(b.rr, s.RRMs)
		}
	}
	if len(buckets) == 0 {
		return DefaultStress
	}

	var components []float64
	for _, b := range buckets {
		hrComponent := fusion.Mean(b.bpm) / 100
		rrStd := fusion.StdDev(fusion.Diff(b.rr))
		hrvComponent := 50 / (rrStd + 1)
		components = append(components, hrComponent*hrvComponent)
	}
	return fusion.Clamp(fusion.Mean(components)*10, 0, 10)
}

// Readiness weights. Recovery dominates: it already folds in HRV and RHR
// overnight, the direct HRV/RHR terms catch same-day movement.
const (
	readinessHRVWeight      = 0.25
	readinessRHRWeight      = 0.15
	readinessRecoveryWeight = 0.40
	readinessSleepWeight    = 0.20
)

// Readiness computes the 0-100 "should I train hard today" score.
func Readiness(hrv, rhr, recovery, sleepScore float64) float64 {
	hrvScore := math.Min(100, hrv/80*100)
	rhrScore := math.Max(0, 100-(rhr-50))
	return fusion.Clamp(
		hrvScore*readinessHRVWeight+
			rhrScore*readinessRHRWeight+
			recovery*readinessRecoveryWeight+
			sleepScore*readinessSleepWeight,
		0, 100)
}

// RespiratoryRate estimates breaths per minute from respiratory sinus
// arrhythmia: breathing drives oscillations in RR intervals, so trend
// reversals in the RR difference series approximate breath cycles. Returns
// nil with fewer than 100 valid RR samples; the estimate is clamped to the
// physiological 8-30 range.
func RespiratoryRate(series []models.Sample) *float64 {
	rr := validRR(series)
	if len(rr) < 100 {
		return nil
	}

	rrDiff := fusion.Diff(rr)
	crossings := 0
	for i := 1; i < len(rrDiff); i++ {
		if sign(rrDiff[i]) != sign(rrDiff[i-1]) {
			crossings++
		}
	}

	rate := 15.0
	if crossings >= 10 {
		durationMinutes := float64(len(rr)) / 60
		rate = float64(crossings) / 2 / durationMinutes
	}
	rate = math.Round(fusion.Clamp(rate, 8, 30)*10) / 10
	return &rate
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// SpO2Trend summarizes blood-oxygen readings: central values plus the
// share of time spent in each saturation band.
type SpO2Trend struct {
	Avg          float64  `json:"avg"`
	Min          float64  `json:"min"`
	Max          float64  `json:"max"`
	ExcellentPct float64  `json:"excellent_pct"` // >= 98
	GoodPct      float64  `json:"good_pct"`      // 95-98
	LowPct       float64  `json:"low_pct"`       // < 95
	Alerts       []string `json:"alerts,omitempty"`
}

// AnalyzeSpO2 returns nil when the series carries no SpO2 readings.
func AnalyzeSpO2(series []models.Sample) *SpO2Trend {
	var values []float64
	for _, s := range series {
		if s.SpO2 != nil {
			values = append(values, *s.SpO2)
		}
	}
	if len(values) == 0 {
		return nil
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var excellent, good, low int
	for _, v := range values {
		switch {
		case v >= 98:
			excellent++
		case v >= 95:
			good++
		default:
			low++
		}
	}

	n := float64(len(values))
	trend := &SpO2Trend{
		Avg:          round1(fusion.Mean(values)),
		Min:          round1(sorted[0]),
		Max:          round1(sorted[len(sorted)-1]),
		ExcellentPct: round1(float64(excellent) / n * 100),
		GoodPct:      round1(float64(good) / n * 100),
		LowPct:       round1(float64(low) / n * 100),
	}
	if trend.Avg < 95 {
		trend.Alerts = append(trend.Alerts, "Average SpO2 below normal (95%)")
	}
	if trend.Min < 90 {
		trend.Alerts = append(trend.Alerts, "Critical: SpO2 dropped below 90%")
	}
	return trend
}

// VO2Max estimates maximal oxygen uptake from the ratio of maximum to
// resting heart rate.
func VO2Max(maxHR, rhr float64) float64 {
	if rhr <= 0 {
		return 0
	}
	return round1(15.3 * (maxHR / rhr))
}

// PeakHR returns the 99th percentile of heart rate, a robust stand-in for
// the day's maximum.
func PeakHR(series []models.Sample) float64 {
	var bpm []float64
	for _, s := range series {
		bpm = append(bpm, s.BPM)
	}
	return fusion.Percentile(bpm, 0.99)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
