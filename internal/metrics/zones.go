package metrics

import (
	"strings"
	"time"

	"github.com/claude/vitalfuse/internal/fusion"
	"github.com/claude/vitalfuse/internal/models"
)

// MaxHRMethod selects a maximum-heart-rate estimation formula.
type MaxHRMethod string

const (
	MaxHRSimple MaxHRMethod = "simple" // 220 - age
	MaxHRTanaka MaxHRMethod = "tanaka" // 208 - 0.7*age
	MaxHRGulati MaxHRMethod = "gulati" // 206 - 0.88*age
	MaxHRInbar  MaxHRMethod = "inbar"  // 205.8 - 0.685*age + 0.05*kg
)

// MaxHeartRate estimates max HR for a profile. Tanaka is the default; the
// Inbar variant falls back to Tanaka without a weight.
func MaxHeartRate(age int, weightKg float64, method MaxHRMethod) float64 {
	a := float64(age)
	switch method {
	case MaxHRSimple:
		return 220 - a
	case MaxHRGulati:
		return 206 - 0.88*a
	case MaxHRInbar:
		if weightKg <= 0 {
			return 208 - 0.7*a
		}
		return 205.8 - 0.685*a + 0.05*weightKg
	default:
		return 208 - 0.7*a
	}
}

// ProfileMaxHR picks a max-HR estimate for the user: Inbar when weight is
// known, Tanaka with just an age, Gulati for female profiles, otherwise the
// 99th percentile of the observed series.
func ProfileMaxHR(profile *models.UserProfile, series []models.Sample) float64 {
	if profile != nil && profile.Age > 0 {
		if strings.EqualFold(profile.Sex, "female") {
			return MaxHeartRate(profile.Age, 0, MaxHRGulati)
		}
		if profile.WeightKg > 0 {
			return MaxHeartRate(profile.Age, profile.WeightKg, MaxHRInbar)
		}
		return MaxHeartRate(profile.Age, 0, MaxHRTanaka)
	}
	return PeakHR(series)
}

// Zone boundaries as fractions of max HR. Zone 1 starts at 50%.
var zoneFloors = [5]float64{0.5, 0.6, 0.7, 0.8, 0.9}

// ZoneNames labels the five training zones.
var ZoneNames = [5]string{"Recovery", "Endurance", "Tempo", "Threshold", "Maximum"}

// ZoneForHR returns the 1-5 training zone for a heart rate, 0 below zone 1.
func ZoneForHR(bpm, maxHR float64) int {
	if maxHR <= 0 {
		return 0
	}
	pct := bpm / maxHR
	zone := 0
	for i, floor := range zoneFloors {
		if pct >= floor {
			zone = i + 1
		}
	}
	return zone
}

// ZoneMinutes counts minutes spent in each of the five HR zones.
func ZoneMinutes(series []models.Sample, maxHR float64) map[int]int {
	zones := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, s := range series {
		if z := ZoneForHR(s.BPM, maxHR); z >= 1 && z <= 5 {
			zones[z]++
		}
	}
	return zones
}

// HourlyStrainPoint is one hour's contribution to the day's load.
type HourlyStrainPoint struct {
	Hour   int     `json:"hour"`
	Strain float64 `json:"strain"`
	AvgHR  float64 `json:"avg_hr"`
	Steps  int     `json:"steps"`
}

// HourlyStrain breaks the day's strain down by hour of day. The step
// component uses per-hour deltas of the cumulative counter.
func HourlyStrain(series []models.Sample, rhr float64) []HourlyStrainPoint {
	type hourAgg struct {
		bpm      []float64
		maxSteps float64
		seen     bool
	}
	var hours [24]hourAgg
	for _, s := range series {
		h := s.Timestamp.Hour()
		hours[h].bpm = append(hours[h].bpm, s.BPM)
		if s.Steps > hours[h].maxSteps {
			hours[h].maxSteps = s.Steps
		}
		hours[h].seen = true
	}

	var out []HourlyStrainPoint
	prevSteps := 0.0
	for h := 0; h < 24; h++ {
		if !hours[h].seen {
			continue
		}
		avgHR := fusion.Mean(hours[h].bpm)
		stepDelta := hours[h].maxSteps - prevSteps
		if stepDelta < 0 {
			stepDelta = 0
		}
		prevSteps = hours[h].maxSteps

		strain := (avgHR - rhr) * 0.01
		if strain < 0 {
			strain = 0
		}
		strain += stepDelta / 10000 * 3

		out = append(out, HourlyStrainPoint{
			Hour:   h,
			Strain: round2(strain),
			AvgHR:  avgHR,
			Steps:  int(stepDelta),
		})
	}
	return out
}

func round2(x float64) float64 {
	return float64(int(x*100+0.5)) / 100
}

// DayOf truncates a timestamp to its calendar date in the same location.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
